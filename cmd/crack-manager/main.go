// Command crack-manager starts the service DES crack workers connect to.
//
//	crack-manager [options] [bind-address]:port
//
// It reads ./input.h from the working directory to learn how many key bits
// the native checker covers.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/masterkusok/descrack/crack"
	"github.com/masterkusok/descrack/distproc"
)

func main() {
	secret := flag.String("s", "", "preshared secret that workers must use to authenticate")
	prefix := flag.String("p", "", "known first part of the key, in binary")
	flag.Parse()

	if err := run(flag.Args(), *secret, *prefix); err != nil {
		fmt.Fprintln(os.Stderr, "crack-manager:", err)
		os.Exit(1)
	}
}

func run(args []string, secret, prefix string) error {
	if len(args) > 1 {
		return fmt.Errorf("too many arguments")
	}
	if len(args) < 1 {
		return fmt.Errorf("not enough arguments")
	}

	addr, err := crack.ParseAddr(args[0], "")
	if err != nil {
		return err
	}

	if strings.Trim(prefix, "01") != "" {
		return fmt.Errorf("prefix must be specified in binary, so all characters must be '0' or '1'")
	}

	numChunkBits, err := crack.ReadNumChunkBits("input.h")
	if err != nil {
		return err
	}

	logger := log.New(os.Stdout, "== Manager == ", 0)

	search, err := crack.NewSearch(&crack.SearchConfig{
		NumChunkBits: numChunkBits,
		Prefix:       prefix,
		Log:          logger,
	})
	if err != nil {
		return err
	}

	manager, err := distproc.NewManager(&distproc.ManagerConfig{
		Addr:   addr,
		Secret: secret,
		Source: search,
		Sink:   search,
		Log:    logger,
	})
	if err != nil {
		return err
	}

	logger.Println("Listening on", manager.Addr())
	if err := manager.Run(); err != nil {
		return err
	}

	logger.Println("Tasks finished:", manager.TasksFinished())
	logger.Println("Results:", search.Summary())
	return nil
}
