package distproc

import (
	goerrors "errors"
	"fmt"
	"log"
	"net"
	"os"
	"time"

	v "github.com/asaskevich/govalidator"
	"github.com/masterkusok/descrack/errors"
)

// ErrInvalidManagerConfig is being returned if config passed to the manager
// constructor is invalid.
const ErrInvalidManagerConfig = errors.ConstError("invalid manager config")

// Source yields the tasks to distribute.  ok=false means the space is
// exhausted; Next is never called again after that.
type Source interface {
	Next() (task string, ok bool)
}

// Sink consumes finished results.  It must not block the event loop; heavy
// processing belongs in user code after Run returns.
type Sink interface {
	Result(workerID int, task string, output []byte)
}

// ManagerConfig is a configuration structure for [Manager].
type ManagerConfig struct {
	// Addr is the listen address, host:port.
	Addr string `valid:"required"`

	// Secret is the preshared key; empty disables authentication.
	Secret string

	// Source yields tasks; Sink consumes results.  Both are required.
	Source Source
	Sink   Sink

	// Log receives lifecycle messages.  Defaults to stdout with the
	// manager prefix.
	Log *log.Logger

	// PollTimeout bounds one readiness sweep over the live channels.
	// Defaults to 100ms.
	PollTimeout time.Duration

	// AcceptTimeout bounds the non-blocking accept attempt per loop
	// iteration.  Defaults to 1ms.
	AcceptTimeout time.Duration
}

// session is the manager-side record of one connected worker.  The channel
// is owned by the session; inflight is the ordered, duplicate-free set of
// tasks sent but not yet acknowledged.
type session struct {
	id       int
	ch       *Channel
	inflight []string
}

// Manager runs the dispatch event loop.  All state is owned by the
// goroutine calling Run; nothing here is safe for concurrent use.
type Manager struct {
	src  Source
	sink Sink
	log  *log.Logger

	pollTimeout   time.Duration
	acceptTimeout time.Duration

	listener *Listener
	sessions map[int]*session
	order    []int // session ids in connect order, for deterministic polling

	recovered     []string // FIFO of tasks dropped by disconnected workers
	exhausted     bool
	tasksFinished int
	nextWorkerID  int
}

// NewManager validates the config and binds the listener.  c must not be
// nil.
func NewManager(c *ManagerConfig) (*Manager, error) {
	ok, err := v.ValidateStruct(c)
	if err != nil {
		return nil, fmt.Errorf("initialize manager: %w", err)
	}
	if !ok || c.Source == nil || c.Sink == nil {
		return nil, ErrInvalidManagerConfig
	}

	logger := c.Log
	if logger == nil {
		logger = log.New(os.Stdout, "== Manager == ", 0)
	}

	pollTimeout := c.PollTimeout
	if pollTimeout <= 0 {
		pollTimeout = 100 * time.Millisecond
	}
	acceptTimeout := c.AcceptTimeout
	if acceptTimeout <= 0 {
		acceptTimeout = time.Millisecond
	}

	listener, err := Listen(c.Addr, c.Secret)
	if err != nil {
		return nil, err
	}

	return &Manager{
		src:           c.Source,
		sink:          c.Sink,
		log:           logger,
		pollTimeout:   pollTimeout,
		acceptTimeout: acceptTimeout,
		listener:      listener,
		sessions:      make(map[int]*session),
	}, nil
}

// Addr returns the bound listen address.
func (m *Manager) Addr() net.Addr {
	return m.listener.Addr()
}

// TasksFinished counts successful result receipts.  Re-executed recovered
// tasks may be counted more than once.
func (m *Manager) TasksFinished() int {
	return m.tasksFinished
}

// Run drives the event loop until the source is exhausted, every session
// has drained and the recovered queue is empty.  The listener and all
// channels are released on every exit path.
func (m *Manager) Run() error {
	defer m.Close()

	for !m.finished() {
		if err := m.acceptOne(); err != nil {
			return err
		}
		m.poll()
	}

	return nil
}

// Close releases the listener and every live channel.
func (m *Manager) Close() error {
	err := m.listener.Close()
	for _, id := range m.order {
		if s, ok := m.sessions[id]; ok {
			s.ch.Close()
		}
	}

	return err
}

func (m *Manager) finished() bool {
	return m.exhausted && len(m.sessions) == 0 && len(m.recovered) == 0
}

// acceptOne attempts one non-blocking accept.  A new worker gets its id and
// two initial tasks so one is always waiting in its receive buffer.
func (m *Manager) acceptOne() error {
	ch, err := m.listener.Accept(m.acceptTimeout)
	if err != nil {
		switch {
		case goerrors.Is(err, errors.ErrTimeout):
			return nil
		case goerrors.Is(err, errors.ErrAuthFailure),
			goerrors.Is(err, errors.ErrChannelClosed):
			m.log.Println("Client failed to connect:", err)
			return nil
		default:
			return errors.Annotate(err, "listener: %w")
		}
	}

	id := m.nextWorkerID
	m.nextWorkerID++

	s := &session{id: id, ch: ch}
	if err := ch.Send(Envelope{Kind: KindHello, WorkerID: id}); err != nil {
		m.log.Println("Worker", id, "lost during hello:", err)
		ch.Close()
		return nil
	}

	m.sessions[id] = s
	m.order = append(m.order, id)
	m.log.Println("Worker", id, "connected from", ch.RemoteAddr())

	m.assignOne(s)
	if _, alive := m.sessions[id]; alive {
		m.assignOne(s)
	}

	return nil
}

// poll sweeps the live channels for readable results.
func (m *Manager) poll() {
	if len(m.sessions) == 0 {
		time.Sleep(m.pollTimeout)
		return
	}

	perSession := m.pollTimeout / time.Duration(len(m.sessions))
	if perSession <= 0 {
		perSession = time.Millisecond
	}

	ids := make([]int, len(m.order))
	copy(ids, m.order)

	for _, id := range ids {
		s, alive := m.sessions[id]
		if !alive {
			continue
		}
		if !s.ch.Readable(perSession) {
			continue
		}

		env, err := s.ch.Recv()
		if err != nil {
			m.removeSession(s, err)
			continue
		}
		if env.Kind != KindResult {
			m.log.Println("Worker", s.id, "sent unexpected message kind", env.Kind)
			continue
		}

		m.completeTask(s, env)
	}
}

// completeTask acknowledges one result: drop it from the in-flight set,
// hand the worker its next task, then let the sink process the verdict.
func (m *Manager) completeTask(s *session, env Envelope) {
	found := false
	for i, task := range s.inflight {
		if task == env.Task {
			s.inflight = append(s.inflight[:i], s.inflight[i+1:]...)
			found = true
			break
		}
	}
	if !found {
		// Trusted-worker model: an unknown task id is logged, not fatal.
		m.log.Println("Worker", s.id, "returned unknown task", env.Task)
		return
	}

	m.tasksFinished++
	m.assignOne(s)
	m.sink.Result(s.id, env.Task, env.Output)
}

// nextTask prefers the recovered queue over the source; ok=false is the
// sentinel once both are dry.
func (m *Manager) nextTask() (task string, ok bool) {
	if len(m.recovered) > 0 {
		task = m.recovered[0]
		m.recovered = m.recovered[1:]
		return task, true
	}

	if m.exhausted {
		return "", false
	}

	task, ok = m.src.Next()
	if !ok {
		m.exhausted = true
		return "", false
	}

	return task, true
}

// assignOne sends the next task, or the sentinel when there is none.  The
// task is recorded in-flight before the send so a failed send recovers it
// through session removal, the same path as any other disconnect.
func (m *Manager) assignOne(s *session) {
	task, ok := m.nextTask()

	env := Envelope{Kind: KindSentinel}
	if ok {
		s.inflight = append(s.inflight, task)
		env = Envelope{Kind: KindTask, Task: task}
	}

	if err := s.ch.Send(env); err != nil {
		m.removeSession(s, err)
	}
}

// removeSession recovers the in-flight tasks of a dead worker and drops the
// session.
func (m *Manager) removeSession(s *session, cause error) {
	if _, alive := m.sessions[s.id]; !alive {
		return
	}

	m.log.Println("Worker", s.id, "disconnected:", cause)
	m.recovered = append(m.recovered, s.inflight...)
	s.inflight = nil

	delete(m.sessions, s.id)
	for i, id := range m.order {
		if id == s.id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}

	s.ch.Close()
}
