package vsync

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/tcnlab/railvos/internal/verr"
)

// State selects the initial count of a semaphore.
type State int

const (
	// Empty creates the semaphore with a count of zero; the first
	// Take blocks until a Give.
	Empty State = iota
	// Full creates the semaphore with a count of one.
	Full
)

// MaxCount is the fixed upper bound of every semaphore's count.
const MaxCount = 64

// Semaphore is a bounded counting semaphore with timeout-bounded
// acquisition.
//
// Take decrements the count, blocking up to a timeout when the count
// is zero. Give increments it, waking one waiter. The count never
// exceeds MaxCount; a Give at the maximum is logged and dropped
// rather than treated as fatal.
type Semaphore struct {
	tag tag

	sem *semaphore.Weighted
	log *slog.Logger

	mu    sync.Mutex
	taken int64 // tokens currently unavailable, in [0, MaxCount]
}

// NewSemaphore returns a semaphore in the given initial state. Any
// state other than Empty or Full is an invalid-parameter error. A nil
// logger falls back to slog.Default.
func NewSemaphore(initial State, log *slog.Logger) (*Semaphore, error) {
	if initial != Empty && initial != Full {
		return nil, verr.Newf(verr.CodeInvalidParam, "sema.New", "initial state %d is neither Empty nor Full", initial)
	}
	if log == nil {
		log = slog.Default()
	}

	s := &Semaphore{
		sem: semaphore.NewWeighted(MaxCount),
		log: log,
	}

	// Drain the weighted semaphore down to the requested initial
	// count. This cannot block: the semaphore is fresh and fully
	// available.
	taken := int64(MaxCount)
	if initial == Full {
		taken--
	}
	if err := s.sem.Acquire(context.Background(), taken); err != nil {
		return nil, verr.Wrap(verr.CodeSync, "sema.New", err)
	}
	s.taken = taken

	s.tag.stamp(semaMagic)
	return s, nil
}

// Take attempts to decrement the semaphore. A timeout of zero (or
// negative) is an immediate non-blocking attempt; otherwise Take waits
// up to the timeout. Outcomes: nil (acquired), a timeout error (not
// acquired in time), a synchronization error (wait machinery failed),
// or not-initialized for a nil handle.
func (s *Semaphore) Take(timeout time.Duration) error {
	if s == nil {
		return verr.New(verr.CodeNotInitialized, "sema.Take", "nil handle")
	}
	if err := s.tag.check(semaMagic, "sema.Take"); err != nil {
		return err
	}

	if timeout <= 0 {
		if !s.sem.TryAcquire(1) {
			return verr.New(verr.CodeTimeout, "sema.Take", "semaphore unavailable")
		}
	} else {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		if err := s.sem.Acquire(ctx, 1); err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				return verr.Newf(verr.CodeTimeout, "sema.Take", "not acquired within %v", timeout)
			}
			return verr.Wrap(verr.CodeSync, "sema.Take", err)
		}
	}

	s.mu.Lock()
	s.taken++
	s.mu.Unlock()
	return nil
}

// Give increments the semaphore count by one, waking a waiter if any.
// A Give when the count is already at MaxCount is logged and ignored.
func (s *Semaphore) Give() error {
	if s == nil {
		return verr.New(verr.CodeNotInitialized, "sema.Give", "nil handle")
	}
	if err := s.tag.check(semaMagic, "sema.Give"); err != nil {
		return err
	}

	s.mu.Lock()
	if s.taken == 0 {
		s.mu.Unlock()
		s.log.Warn("semaphore already at maximum count, give ignored", "max", MaxCount)
		return nil
	}
	s.taken--
	s.mu.Unlock()

	s.sem.Release(1)
	return nil
}

// Close releases the semaphore handle and clears the integrity tag.
// Goroutines already blocked in Take are not woken; they run out their
// timeouts.
func (s *Semaphore) Close() error {
	if s == nil {
		return verr.New(verr.CodeInvalidParam, "sema.Close", "nil handle")
	}
	if err := s.tag.check(semaMagic, "sema.Close"); err != nil {
		return err
	}

	s.tag.clear()
	return nil
}
