// Command des encrypts or decrypts with DES / 3DES.
//
//	des [options] <plaintext|ciphertext> <key>
//	des [options] -f <path> <key>
//
// Text and key are hex; keys of 14 hex digits are parity-expanded, and
// 3DES keys are two or three such keys concatenated.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/masterkusok/descrack/bits"
	"github.com/masterkusok/descrack/cipher"
	"github.com/masterkusok/descrack/cipher/tripledes"
)

func main() {
	decrypt := flag.Bool("d", false, "interpret the first argument as ciphertext and decrypt it")
	flag.Bool("c", false, "interpret the first argument as plaintext and encrypt it (default)")
	verbose := flag.Bool("v", false, "print details and intermediate steps of the algorithm")
	ascii := flag.Bool("a", false, "convert input plaintext from ascii when encrypting, or the resulting plaintext to ascii when decrypting")
	file := flag.String("f", "", "encrypt/decrypt the named file into per-round .encrypted/.decrypted outputs")
	flag.Parse()

	if err := run(flag.Args(), *decrypt, *verbose, *ascii, *file); err != nil {
		fmt.Fprintln(os.Stderr, "des:", err)
		os.Exit(1)
	}
}

func run(args []string, decrypt, verbose, ascii bool, file string) error {
	var keyString string
	switch {
	case file != "":
		if len(args) != 1 {
			return fmt.Errorf("file mode expects exactly one argument, the key")
		}
		keyString = args[0]
	case len(args) < 2:
		return fmt.Errorf("not enough arguments")
	case len(args) > 2:
		return fmt.Errorf("too many arguments")
	default:
		keyString = args[1]
	}

	var trace *log.Logger
	if verbose {
		trace = log.New(os.Stdout, "", 0)
	}

	c, err := tripledes.New(&tripledes.Config{KeyString: keyString, Trace: trace})
	if err != nil {
		return err
	}

	if file != "" {
		return runFile(c, file, decrypt)
	}

	return runText(c, args[0], decrypt, ascii)
}

func runText(c *tripledes.Cipher, text string, decrypt, ascii bool) error {
	var (
		block bits.Vector
		err   error
	)
	if ascii && !decrypt {
		block = bits.FromASCII([]byte(text))
	} else {
		block, err = bits.ParseHex(text)
		if err != nil {
			return fmt.Errorf("text could not be converted from %q, perhaps you want -a or -f mode: %w", text, err)
		}
	}

	if len(block) != cipher.BlockBits {
		if decrypt {
			return fmt.Errorf("ciphertext must be 16 hex digits")
		}
		return fmt.Errorf("plaintext must be 16 hex digits (or 8 ascii letters with -a)")
	}

	result, err := c.Process([]bits.Vector{block}, decrypt)
	if err != nil {
		return err
	}

	if ascii && decrypt {
		packed, err := result[0].ASCII()
		if err != nil {
			return err
		}
		fmt.Println(string(packed))
		return nil
	}

	fmt.Println(result[0].Hex())
	return nil
}

func runFile(c *tripledes.Cipher, path string, decrypt bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	rounds, err := c.Run(cipher.SplitBlocks(data), decrypt)
	if err != nil {
		return err
	}

	for j, round := range rounds {
		suffix := "encrypted"
		if round.Decrypt {
			suffix = "decrypted"
		}

		packed, err := cipher.JoinBlocks(round.Blocks)
		if err != nil {
			return err
		}

		name := fmt.Sprintf("%s.%d.%s", path, j, suffix)
		if err := os.WriteFile(name, packed, 0o644); err != nil {
			return err
		}
	}

	final := rounds[len(rounds)-1].Blocks
	fmt.Println(bits.Concat(final...).Hex())
	return nil
}
