package thread

import (
	"context"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/tcnlab/railvos/internal/goid"
	"github.com/tcnlab/railvos/internal/metrics"
	"github.com/tcnlab/railvos/internal/verr"
)

// Policy is an abstract scheduling policy. Only the default policy is
// honored; the others are accepted for interface compatibility and
// logged as unsupported.
type Policy int

const (
	PolicyOther Policy = iota
	PolicyFIFO
	PolicyRoundRobin
)

// String implements fmt.Stringer.
func (p Policy) String() string {
	switch p {
	case PolicyOther:
		return "other"
	case PolicyFIFO:
		return "fifo"
	case PolicyRoundRobin:
		return "round-robin"
	default:
		return "unknown"
	}
}

// DefaultStackSize is the documented minimum stack size. The Go
// runtime sizes goroutine stacks itself, so the value is informational
// only.
const DefaultStackSize = 16 * 1024

// DefaultTerminateGrace bounds how long Terminate waits for a thread
// to honor its cancellation when the caller passes no grace period.
const DefaultTerminateGrace = time.Second

// Config carries the creation parameters of a thread.
type Config struct {
	// Policy is the abstract scheduling policy. Anything but
	// PolicyOther is logged as unsupported and not applied.
	Policy Policy

	// Priority is the abstract scheduling priority, 1 (lowest) to 255
	// (highest). Zero keeps the runtime default. The 1..255 range is
	// partitioned into 7 bands mapped onto native scheduling levels.
	Priority uint8

	// Interval must be zero. Cyclic execution is not created through
	// the manager; wrap the body in a cyclic.Scheduler instead.
	Interval time.Duration

	// StackSize is the minimum stack size in bytes; zero means
	// DefaultStackSize. Goroutine stacks grow on demand, so this is
	// recorded but not enforced.
	StackSize int
}

// Manager creates, terminates and introspects threads. Every
// operation is bounded by the lifetime of the Manager that issued
// the handle.
type Manager struct {
	log *slog.Logger
	col *metrics.Collector

	mu      sync.Mutex
	closed  bool
	nextID  uint64
	threads map[uint64]*Thread
	byGoid  map[int64]*Thread
}

// NewManager returns an enabled manager. A nil logger falls back to
// slog.Default; a nil collector disables metrics.
func NewManager(log *slog.Logger, col *metrics.Collector) *Manager {
	if log == nil {
		log = slog.Default()
	}
	return &Manager{
		log:     log,
		col:     col,
		threads: make(map[uint64]*Thread),
		byGoid:  make(map[int64]*Thread),
	}
}

// Create spawns a thread running fn(ctx, arg) and returns its handle.
//
// An empty name or nil function is an invalid-parameter error, as is a
// non-zero interval: periodic execution must be built by wrapping fn
// in a cyclic scheduler and creating a plain thread for it. Spawn
// failure is a thread error. Priority application failure is logged,
// never fatal.
func (m *Manager) Create(name string, cfg Config, fn Func, arg any) (*Thread, error) {
	if name == "" {
		return nil, verr.New(verr.CodeInvalidParam, "thread.Create", "empty thread name")
	}
	if fn == nil {
		return nil, verr.Newf(verr.CodeInvalidParam, "thread.Create", "%s: nil thread function", name)
	}
	if cfg.Interval > 0 {
		m.log.Error("cyclic thread creation is not supported, wrap the body in a cyclic scheduler", "thread", name, "interval", cfg.Interval)
		return nil, verr.Newf(verr.CodeInvalidParam, "thread.Create", "%s: cyclic creation unsupported", name)
	}
	if cfg.StackSize == 0 {
		cfg.StackSize = DefaultStackSize
	}
	if cfg.Policy != PolicyOther {
		m.log.Warn("scheduling policy other than default is not supported", "thread", name, "policy", cfg.Policy)
	}

	ctx, cancel := context.WithCancel(context.Background())
	t := &Thread{
		name:   name,
		mgr:    m,
		cancel: cancel,
		done:   make(chan struct{}),
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		cancel()
		return nil, verr.New(verr.CodeNotInitialized, "thread.Create", "manager is closed")
	}
	m.nextID++
	t.id = m.nextID
	m.threads[t.id] = t
	m.mu.Unlock()

	go func() {
		// Pin to an OS thread so the priority band applies to a
		// stable native execution unit.
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()

		if cfg.Priority >= 1 {
			if err := applyPriority(cfg.Priority); err != nil {
				m.log.Warn("could not apply thread priority", "thread", name, "priority", cfg.Priority, "err", err)
			}
		}

		id := goid.ID()
		m.mu.Lock()
		m.byGoid[id] = t
		m.mu.Unlock()

		defer func() {
			m.mu.Lock()
			delete(m.byGoid, id)
			delete(m.threads, t.id)
			m.mu.Unlock()
			m.col.ThreadStopped()
			close(t.done)
		}()

		fn(ctx, arg)
	}()

	m.col.ThreadStarted()
	return t, nil
}

// Terminate cancels the thread's context and waits up to grace for the
// body to return. A non-positive grace means DefaultTerminateGrace.
// A thread that ignores its cancellation is reported as a thread
// error; its goroutine cannot be killed.
func (m *Manager) Terminate(t *Thread, grace time.Duration) error {
	if err := m.checkOpen("thread.Terminate"); err != nil {
		return err
	}
	if t == nil || t.mgr != m {
		return verr.New(verr.CodeInvalidParam, "thread.Terminate", "unknown thread handle")
	}
	if grace <= 0 {
		grace = DefaultTerminateGrace
	}

	t.cancel()

	select {
	case <-t.done:
		return nil
	case <-time.After(grace):
		return verr.Newf(verr.CodeThread, "thread.Terminate", "%s did not stop within %v", t.name, grace)
	}
}

// IsActive probes liveness without blocking. It reports false with a
// nil error for a thread that has exited, and an invalid-parameter
// error for a handle the manager never issued.
func (m *Manager) IsActive(t *Thread) (bool, error) {
	if err := m.checkOpen("thread.IsActive"); err != nil {
		return false, err
	}
	if t == nil || t.mgr != m {
		return false, verr.New(verr.CodeInvalidParam, "thread.IsActive", "unknown thread handle")
	}

	select {
	case <-t.done:
		return false, nil
	default:
		return true, nil
	}
}

// Self returns the handle of the calling thread. Goroutines not
// created through the manager have no handle and get an
// invalid-parameter error.
func (m *Manager) Self() (*Thread, error) {
	if err := m.checkOpen("thread.Self"); err != nil {
		return nil, err
	}

	m.mu.Lock()
	t := m.byGoid[goid.ID()]
	m.mu.Unlock()

	if t == nil {
		return nil, verr.New(verr.CodeInvalidParam, "thread.Self", "calling goroutine is not a managed thread")
	}
	return t, nil
}

// Delay blocks the calling execution unit for d. Negative delays are
// invalid. The Go runtime honors sub-millisecond sleeps, so no lower
// granularity bound is imposed.
func (m *Manager) Delay(d time.Duration) error {
	if d < 0 {
		return verr.Newf(verr.CodeInvalidParam, "thread.Delay", "negative delay %v", d)
	}
	time.Sleep(d)
	return nil
}

// Close disables the manager and cancels every live thread. Further
// operations fail with a not-initialized error. Close does not wait
// for thread bodies to return.
func (m *Manager) Close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	live := make([]*Thread, 0, len(m.threads))
	for _, t := range m.threads {
		live = append(live, t)
	}
	m.mu.Unlock()

	for _, t := range live {
		t.cancel()
	}
}

func (m *Manager) checkOpen(op string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return verr.New(verr.CodeNotInitialized, op, "manager is closed")
	}
	return nil
}
