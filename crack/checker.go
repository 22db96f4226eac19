package crack

import (
	"log"
	"os/exec"

	"github.com/masterkusok/descrack/distproc"
	"github.com/masterkusok/descrack/errors"
)

// Checker runs the native key-checker binary.  Given a binary key prefix as
// its single argument the checker prints a match to stdout or nothing.
type Checker struct {
	// Path is the checker binary, typically ./check_keys.
	Path string

	// Log announces each checked prefix.  Nil disables the announcement.
	Log *log.Logger
}

// type check
var _ distproc.Executor = (*Checker)(nil)

// Execute invokes the checker with the task and captures its full stdout.
// A non-zero exit is a fatal per-task error; the caller propagates it and
// the manager recovers the task through the disconnect.
func (c *Checker) Execute(task string) ([]byte, error) {
	if c.Log != nil {
		c.Log.Println("Checking Prefix:", task)
	}

	output, err := exec.Command(c.Path, task).Output()
	if err != nil {
		return nil, errors.Annotate(errors.ErrCheckerFailure,
			"%s %s: %v: %w", c.Path, task, err)
	}

	return output, nil
}
