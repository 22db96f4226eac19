// Command crack-worker connects workers to a DES crack manager.
//
//	crack-worker [options] [address]:port
//
// The address defaults to 127.0.0.1.  Each worker owns its own channel and
// runs one native checker subprocess at a time.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"sync"

	"github.com/masterkusok/descrack/crack"
	"github.com/masterkusok/descrack/distproc"
)

const checkerPath = "./check_keys"

func main() {
	secret := flag.String("s", "", "preshared secret that the manager was started with")
	count := flag.Int("c", 1, "number of workers to run")
	flag.Parse()

	if err := run(flag.Args(), *secret, *count); err != nil {
		fmt.Fprintln(os.Stderr, "crack-worker:", err)
		os.Exit(1)
	}
}

func run(args []string, secret string, count int) error {
	if len(args) > 1 {
		return fmt.Errorf("too many arguments")
	}
	if len(args) < 1 {
		return fmt.Errorf("not enough arguments")
	}
	if count < 1 {
		return fmt.Errorf("worker count must be positive")
	}

	addr, err := crack.ParseAddr(args[0], "127.0.0.1")
	if err != nil {
		return err
	}

	errs := make(chan error, count)
	var wg sync.WaitGroup
	for i := 0; i < count; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- runWorker(addr, secret)
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			return err
		}
	}

	return nil
}

func runWorker(addr, secret string) error {
	checker := &crack.Checker{Path: checkerPath}

	worker, err := distproc.NewWorker(&distproc.WorkerConfig{
		Addr:     addr,
		Secret:   secret,
		Executor: checker,
	})
	if err != nil {
		return err
	}

	logger := log.New(os.Stdout, fmt.Sprintf("== Worker %d == ", worker.ID()), 0)
	checker.Log = logger
	logger.Println("Connected to manager at", addr)

	if err := worker.Run(); err != nil {
		logger.Println("Stopping:", err)
		return err
	}

	logger.Println("Done")
	return nil
}
