package distproc

import (
	"fmt"

	v "github.com/asaskevich/govalidator"
	"github.com/masterkusok/descrack/errors"
)

// ErrInvalidWorkerConfig is being returned if config passed to the worker
// constructor is invalid.
const ErrInvalidWorkerConfig = errors.ConstError("invalid worker config")

// Executor performs one task and returns the raw verdict bytes.
type Executor interface {
	Execute(task string) (output []byte, err error)
}

// WorkerConfig is a configuration structure for [Worker].
type WorkerConfig struct {
	// Addr is the manager address, host:port.
	Addr string `valid:"required"`

	// Secret is the preshared key the manager was started with.
	Secret string

	// Executor runs the tasks.  Required.
	Executor Executor
}

// Worker is one connected task-execution loop.
type Worker struct {
	ch   *Channel
	exec Executor
	id   int
}

// NewWorker validates the config, connects to the manager and receives the
// assigned worker id.
func NewWorker(c *WorkerConfig) (*Worker, error) {
	ok, err := v.ValidateStruct(c)
	if err != nil {
		return nil, fmt.Errorf("initialize worker: %w", err)
	}
	if !ok || c.Executor == nil {
		return nil, ErrInvalidWorkerConfig
	}

	ch, err := Dial(c.Addr, c.Secret)
	if err != nil {
		return nil, err
	}

	hello, err := ch.Recv()
	if err != nil {
		ch.Close()
		return nil, errors.Annotate(err, "waiting for worker id: %w")
	}
	if hello.Kind != KindHello {
		ch.Close()
		return nil, errors.Annotate(errors.ErrChannelClosed,
			"expected hello, got kind %d: %w", hello.Kind)
	}

	return &Worker{ch: ch, exec: c.Executor, id: hello.WorkerID}, nil
}

// ID returns the manager-assigned worker id.
func (w *Worker) ID() int {
	return w.id
}

// Run executes tasks until the sentinel arrives.  An executor failure
// aborts the loop; the manager observes the disconnect and recovers the
// in-flight tasks.
func (w *Worker) Run() error {
	defer w.ch.Close()

	for {
		env, err := w.ch.Recv()
		if err != nil {
			return errors.Annotate(err, "receiving task: %w")
		}

		switch env.Kind {
		case KindSentinel:
			return nil
		case KindTask:
			output, err := w.exec.Execute(env.Task)
			if err != nil {
				return errors.Annotate(err, "task %q: %w", env.Task)
			}

			err = w.ch.Send(Envelope{
				Kind:   KindResult,
				Task:   env.Task,
				Output: output,
			})
			if err != nil {
				return errors.Annotate(err, "returning task %q: %w", env.Task)
			}
		default:
			return errors.Annotate(errors.ErrChannelClosed,
				"unexpected message kind %d: %w", env.Kind)
		}
	}
}
