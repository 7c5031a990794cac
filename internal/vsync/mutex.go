package vsync

import (
	"sync"

	"github.com/tcnlab/railvos/internal/goid"
	"github.com/tcnlab/railvos/internal/verr"
)

// Mutex is a recursive exclusive lock.
//
// The goroutine holding the lock may re-acquire it without
// deadlocking; the lock is released only after a matching number of
// Unlock calls. Owner identity is the goroutine id, so a Mutex guards
// critical sections between goroutines, not between OS processes.
type Mutex struct {
	tag tag

	mu    sync.Mutex
	cond  *sync.Cond
	owner int64 // goroutine id of the holder, 0 when free
	depth int   // recursion depth, 0 when free
}

// NewMutex returns an initialized, unlocked mutex with its integrity
// tag stamped.
func NewMutex() *Mutex {
	m := &Mutex{}
	m.cond = sync.NewCond(&m.mu)
	m.tag.stamp(mutexMagic)
	return m
}

// Lock blocks until the mutex is acquired. A goroutine that already
// holds the mutex re-acquires immediately, incrementing the recursion
// depth.
func (m *Mutex) Lock() error {
	if m == nil {
		return verr.New(verr.CodeInvalidParam, "mutex.Lock", "nil handle")
	}
	if err := m.tag.check(mutexMagic, "mutex.Lock"); err != nil {
		return err
	}

	id := goid.ID()

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.owner == id {
		m.depth++
		return nil
	}

	for m.owner != 0 {
		m.cond.Wait()
		if !m.tag.live(mutexMagic) {
			return verr.New(verr.CodeSync, "mutex.Lock", "mutex deleted while waiting")
		}
	}

	m.owner = id
	m.depth = 1
	return nil
}

// TryLock attempts to acquire the mutex without blocking. It
// distinguishes three outcomes: nil (acquired), an in-use error (held
// by another goroutine) and an invalid-parameter error (bad handle).
func (m *Mutex) TryLock() error {
	if m == nil {
		return verr.New(verr.CodeInvalidParam, "mutex.TryLock", "nil handle")
	}
	if err := m.tag.check(mutexMagic, "mutex.TryLock"); err != nil {
		return err
	}

	id := goid.ID()

	m.mu.Lock()
	defer m.mu.Unlock()

	switch {
	case m.owner == id:
		m.depth++
		return nil
	case m.owner != 0:
		return verr.New(verr.CodeInUse, "mutex.TryLock", "held by another goroutine")
	default:
		m.owner = id
		m.depth = 1
		return nil
	}
}

// Unlock releases one level of ownership. Unlocking a mutex the caller
// does not hold is a synchronization error, mirroring a failed native
// release.
func (m *Mutex) Unlock() error {
	if m == nil {
		return verr.New(verr.CodeInvalidParam, "mutex.Unlock", "nil handle")
	}
	if err := m.tag.check(mutexMagic, "mutex.Unlock"); err != nil {
		return err
	}

	id := goid.ID()

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.owner != id || m.depth == 0 {
		return verr.New(verr.CodeSync, "mutex.Unlock", "caller does not hold the mutex")
	}

	m.depth--
	if m.depth == 0 {
		m.owner = 0
		m.cond.Signal()
	}
	return nil
}

// Close releases the mutex handle and clears the integrity tag so any
// further use is rejected. Goroutines blocked in Lock are woken and
// fail with a synchronization error.
func (m *Mutex) Close() error {
	if m == nil {
		return verr.New(verr.CodeInvalidParam, "mutex.Close", "nil handle")
	}
	if err := m.tag.check(mutexMagic, "mutex.Close"); err != nil {
		return err
	}

	m.tag.clear()

	m.mu.Lock()
	m.cond.Broadcast()
	m.mu.Unlock()
	return nil
}
