package crack_test

import (
	"log"
	"testing"
	"time"

	"github.com/masterkusok/descrack/crack"
	"github.com/masterkusok/descrack/distproc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The full loop: a Search feeding the manager, a worker shelling out to a
// fake checker that recognizes one prefix.
func TestSearchEndToEnd(t *testing.T) {
	logger := log.New(testWriter{t}, "== Manager == ", 0)

	search, err := crack.NewSearch(&crack.SearchConfig{
		NumChunkBits: 51, // 5 suffix bits under a 51-bit chunk: 32 tasks
		Log:          logger,
	})
	require.NoError(t, err)

	manager, err := distproc.NewManager(&distproc.ManagerConfig{
		Addr:          "127.0.0.1:0",
		Secret:        "hunter2",
		Source:        search,
		Sink:          search,
		Log:           logger,
		PollTimeout:   10 * time.Millisecond,
		AcceptTimeout: time.Millisecond,
	})
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- manager.Run() }()

	script := writeScript(t, "#!/bin/sh\nif [ \"$1\" = \"01101\" ]; then echo \"key found under 01101\"; fi\n")

	worker, err := distproc.NewWorker(&distproc.WorkerConfig{
		Addr:     manager.Addr().String(),
		Secret:   "hunter2",
		Executor: &crack.Checker{Path: script},
	})
	require.NoError(t, err)
	require.NoError(t, worker.Run())

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(30 * time.Second):
		t.Fatal("manager did not terminate")
	}

	assert.GreaterOrEqual(t, manager.TasksFinished(), 32)
	require.Len(t, search.Results(), 1)
	assert.Equal(t, "key found under 01101\n", string(search.Results()[0]))
}

type testWriter struct{ t *testing.T }

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Log(string(p))
	return len(p), nil
}
