// Package crack wires the key-space enumerator, the native checker and the
// input.h tooling into the distributed DES key search.
package crack

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/masterkusok/descrack/distproc"
	"github.com/masterkusok/descrack/keyspace"
)

// SearchConfig is a configuration structure for [Search].
type SearchConfig struct {
	// NumChunkBits is the suffix width covered by the native checker,
	// extracted from input.h.
	NumChunkBits int

	// Prefix is the known leading key bits in binary.
	Prefix string

	// Log receives match announcements.  Defaults to stdout with the
	// manager prefix.
	Log *log.Logger
}

// Search is the task source and result sink of the key-search manager.
type Search struct {
	enum    *keyspace.Enumerator
	log     *log.Logger
	start   time.Time
	results [][]byte
}

// type checks
var (
	_ distproc.Source = (*Search)(nil)
	_ distproc.Sink   = (*Search)(nil)
)

// NewSearch builds the search over the configured key space.  c must not be
// nil.
func NewSearch(c *SearchConfig) (*Search, error) {
	enum, err := keyspace.New(&keyspace.Config{
		NumChunkBits: c.NumChunkBits,
		Prefix:       c.Prefix,
	})
	if err != nil {
		return nil, err
	}

	logger := c.Log
	if logger == nil {
		logger = log.New(os.Stdout, "== Manager == ", 0)
	}

	return &Search{enum: enum, log: logger, start: time.Now()}, nil
}

// Next yields the next key prefix to search.
func (s *Search) Next() (string, bool) {
	return s.enum.Next()
}

// Result records non-empty verdicts.  The verdict bytes are whatever the
// native checker printed; the manager treats them as opaque.
func (s *Search) Result(workerID int, task string, output []byte) {
	if len(output) == 0 {
		return
	}

	s.results = append(s.results, output)
	s.log.Printf("Worker %d found match in %.2f seconds: %s",
		workerID, time.Since(s.start).Seconds(), output)
}

// Results returns every recorded verdict.
func (s *Search) Results() [][]byte {
	return s.results
}

// Summary renders the verdicts for the end-of-run report.
func (s *Search) Summary() string {
	if len(s.results) == 0 {
		return "no matches"
	}

	parts := make([]string, 0, len(s.results))
	for _, r := range s.results {
		parts = append(parts, string(r))
	}

	return strings.Join(parts, ", ")
}
