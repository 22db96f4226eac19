// Command expand-key inserts zero parity bits into a 56-bit DES key and
// prints the 64-bit form in hex.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/masterkusok/descrack/bits"
	"github.com/masterkusok/descrack/cipher/des"
)

func main() {
	flag.Parse()

	if err := run(flag.Args()); err != nil {
		fmt.Fprintln(os.Stderr, "expand-key:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("expected exactly one hex key argument")
	}

	key, err := bits.ParseHex(args[0])
	if err != nil {
		return err
	}

	expanded, err := des.ExpandKey(key)
	if err != nil {
		return err
	}

	fmt.Println(expanded.Hex())
	return nil
}
