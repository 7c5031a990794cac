// Package cyclic re-invokes a function at a fixed nominal interval,
// compensating the wait between cycles for the function's own runtime.
//
// The compensation is best-effort: each cycle's reference point is
// "now", not an absolute next-deadline, so small drift accumulates
// over long runs. Overruns (the function taking longer than the
// interval) are logged and counted; the next cycle starts immediately
// with no catch-up and no skipped cycles.
package cyclic

import (
	"context"
	"log/slog"
	"math"
	"time"

	"code.cloudfoundry.org/clock"

	"github.com/tcnlab/railvos/internal/metrics"
	"github.com/tcnlab/railvos/internal/timeval"
	"github.com/tcnlab/railvos/internal/verr"
)

// maxSecForMicros is the largest whole-second component of a cycle's
// runtime that still converts losslessly into a 32-bit microsecond
// count. Anything beyond it is a gross overflow or misconfiguration.
const maxSecForMicros = 4293

// Func is the body invoked once per cycle. A long-running or blocking
// body blocks the whole cycle.
type Func func(ctx context.Context, arg any)

// Clock abstracts the scheduler's time source. clock.Clock from
// code.cloudfoundry.org/clock satisfies it; tests substitute a
// scripted implementation.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

// Scheduler drives one cyclic task.
type Scheduler struct {
	interval uint32 // nominal cycle interval in microseconds
	fn       Func
	arg      any

	clk Clock
	log *slog.Logger
	col *metrics.Collector
}

// Option customizes a Scheduler.
type Option func(*Scheduler)

// WithClock replaces the wall clock, mainly for tests.
func WithClock(c Clock) Option {
	return func(s *Scheduler) { s.clk = c }
}

// WithLogger sets the logging sink for overrun reports.
func WithLogger(l *slog.Logger) Option {
	return func(s *Scheduler) { s.log = l }
}

// WithCollector wires cycle and overrun counters.
func WithCollector(c *metrics.Collector) Option {
	return func(s *Scheduler) { s.col = c }
}

// New builds a scheduler for fn at the given interval. The interval
// must be positive and representable as a 32-bit microsecond count.
func New(interval time.Duration, fn Func, arg any, opts ...Option) (*Scheduler, error) {
	if fn == nil {
		return nil, verr.New(verr.CodeInvalidParam, "cyclic.New", "nil task function")
	}
	us := interval.Microseconds()
	if us <= 0 || us > math.MaxUint32 {
		return nil, verr.Newf(verr.CodeInvalidParam, "cyclic.New", "interval %v out of range", interval)
	}

	s := &Scheduler{
		interval: uint32(us),
		fn:       fn,
		arg:      arg,
		clk:      clock.NewClock(),
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Interval returns the nominal cycle interval.
func (s *Scheduler) Interval() time.Duration {
	return time.Duration(s.interval) * time.Microsecond
}

// Run loops until ctx is cancelled. Each cycle times the task body,
// then waits out the remainder of the interval. A body that overruns
// its interval is reported through the logging sink and the next cycle
// starts immediately; overruns never propagate as errors because the
// loop has no caller to return to mid-flight.
func (s *Scheduler) Run(ctx context.Context) {
	for ctx.Err() == nil {
		prior := timeval.FromTime(s.clk.Now())
		s.fn(ctx, s.arg)
		elapsed := timeval.FromTime(s.clk.Now())
		elapsed.Sub(prior)

		var wait uint32
		if elapsed.Sec >= 0 && elapsed.Sec <= maxSecForMicros {
			exec := uint32(elapsed.Sec)*timeval.UsecPerSec + uint32(elapsed.Usec)
			if exec > s.interval {
				wait = 0
				s.log.Error("cyclic task overran its interval",
					"interval_us", s.interval, "runtime_us", exec)
				s.col.OverrunObserved()
			} else {
				wait = s.interval - exec
			}
		} else {
			// Far outside the representable range: gross overflow,
			// clock step, or misconfiguration. Resume immediately.
			wait = 0
			s.log.Error("cyclic task runtime outside representable range",
				"interval_us", s.interval, "runtime_s", elapsed.Sec)
			s.col.OverrunObserved()
		}
		s.col.CycleObserved()

		if wait > 0 {
			s.clk.Sleep(time.Duration(wait) * time.Microsecond)
		}
	}
}
