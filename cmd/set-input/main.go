// Command set-input prepares the key search by generating input.h for the
// native checker.
//
//	set-input [options] <plaintext-hex> <ciphertext-hex>
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/masterkusok/descrack/crack"
)

func main() {
	numChunkBits := flag.Int("b", 28, "number of trailing key bits the checker searches per task")
	output := flag.String("o", "input.h", "output path")
	flag.Parse()

	if err := run(flag.Args(), *numChunkBits, *output); err != nil {
		fmt.Fprintln(os.Stderr, "set-input:", err)
		os.Exit(1)
	}
}

func run(args []string, numChunkBits int, output string) error {
	if len(args) < 2 {
		return fmt.Errorf("not enough arguments")
	}
	if len(args) > 2 {
		return fmt.Errorf("too many arguments")
	}
	if numChunkBits < 6 || numChunkBits > 56 {
		return fmt.Errorf("chunk bits must be in [6..56]")
	}

	f, err := os.Create(output)
	if err != nil {
		return err
	}

	if err := crack.WriteInput(f, args[0], args[1], numChunkBits); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}
