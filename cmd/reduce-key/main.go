// Command reduce-key strips the parity bits from a 64-bit DES key and
// prints the 56-bit form in hex.
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
		fmt.Fprintln(os.Stderr, "reduce-key:", err)
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

	reduced, err := des.ReduceKey(key)
	if err != nil {
		return err
	}

	fmt.Println(reduced.Hex())
	return nil
}
