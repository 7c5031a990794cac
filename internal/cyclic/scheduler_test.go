package cyclic

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tcnlab/railvos/internal/verr"
)

// scriptClock is a deterministic Clock whose time only moves when the
// test (or the task body) advances it. Sleep advances time by the full
// requested duration and records it.
type scriptClock struct {
	mu     sync.Mutex
	now    time.Time
	sleeps []time.Duration
}

func newScriptClock() *scriptClock {
	return &scriptClock{now: time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)}
}

func (c *scriptClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *scriptClock) Sleep(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sleeps = append(c.sleeps, d)
	c.now = c.now.Add(d)
}

func (c *scriptClock) advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func (c *scriptClock) recorded() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]time.Duration(nil), c.sleeps...)
}

func TestNew_Validation(t *testing.T) {
	noop := func(ctx context.Context, arg any) {}

	_, err := New(10*time.Millisecond, nil, nil)
	assert.True(t, errors.Is(err, verr.ErrInvalidParam), "nil function")

	_, err = New(0, noop, nil)
	assert.True(t, errors.Is(err, verr.ErrInvalidParam), "zero interval")

	_, err = New(-time.Second, noop, nil)
	assert.True(t, errors.Is(err, verr.ErrInvalidParam), "negative interval")

	// 5000h is ~1.8e13 µs, far beyond the 32-bit microsecond range.
	_, err = New(5000*time.Hour, noop, nil)
	assert.True(t, errors.Is(err, verr.ErrInvalidParam), "interval beyond uint32 µs")

	s, err := New(10*time.Millisecond, noop, nil)
	require.NoError(t, err)
	assert.Equal(t, 10*time.Millisecond, s.Interval())
}

func TestScheduler_Run_CompensatesForRuntime(t *testing.T) {
	clk := newScriptClock()
	ctx, cancel := context.WithCancel(context.Background())

	// Interval 10ms, body "runs" 3ms: every cycle waits exactly 7ms.
	calls := 0
	fn := func(ctx context.Context, arg any) {
		calls++
		clk.advance(3 * time.Millisecond)
		if calls == 3 {
			cancel()
		}
	}

	s, err := New(10*time.Millisecond, fn, nil, WithClock(clk))
	require.NoError(t, err)

	s.Run(ctx)

	assert.Equal(t, 3, calls)
	sleeps := clk.recorded()
	require.Len(t, sleeps, 3)
	for i, d := range sleeps {
		assert.Equal(t, 7*time.Millisecond, d, "cycle %d wait", i)
	}
}

func TestScheduler_Run_PassesArgument(t *testing.T) {
	clk := newScriptClock()
	ctx, cancel := context.WithCancel(context.Background())

	var got any
	fn := func(ctx context.Context, arg any) {
		got = arg
		cancel()
	}

	s, err := New(time.Millisecond, fn, "tick-payload", WithClock(clk))
	require.NoError(t, err)
	s.Run(ctx)

	assert.Equal(t, "tick-payload", got)
}

func TestScheduler_Run_OverrunLogsAndSkipsWait(t *testing.T) {
	clk := newScriptClock()
	ctx, cancel := context.WithCancel(context.Background())

	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))

	// Interval 10ms, body takes 15ms: overrun, no wait, no catch-up.
	calls := 0
	fn := func(ctx context.Context, arg any) {
		calls++
		clk.advance(15 * time.Millisecond)
		if calls == 2 {
			cancel()
		}
	}

	s, err := New(10*time.Millisecond, fn, nil, WithClock(clk), WithLogger(log))
	require.NoError(t, err)
	s.Run(ctx)

	assert.Equal(t, 2, calls, "overrun must not skip cycles")
	assert.Empty(t, clk.recorded(), "overrun cycles must not sleep")
	assert.Contains(t, buf.String(), "overran")
	assert.Contains(t, buf.String(), "interval_us=10000")
	assert.Contains(t, buf.String(), "runtime_us=15000")
}

func TestScheduler_Run_GrossOverflowIsLogged(t *testing.T) {
	clk := newScriptClock()
	ctx, cancel := context.WithCancel(context.Background())

	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))

	// Runtime of 5000s exceeds the representable whole-second bound.
	fn := func(ctx context.Context, arg any) {
		clk.advance(5000 * time.Second)
		cancel()
	}

	s, err := New(10*time.Millisecond, fn, nil, WithClock(clk), WithLogger(log))
	require.NoError(t, err)
	s.Run(ctx)

	assert.Empty(t, clk.recorded())
	assert.Contains(t, buf.String(), "representable range")
	assert.Contains(t, buf.String(), "runtime_s=5000")
}

func TestScheduler_Run_ExactIntervalRuntimeWaitsZero(t *testing.T) {
	clk := newScriptClock()
	ctx, cancel := context.WithCancel(context.Background())

	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))

	// Runtime exactly equals the interval: not an overrun, wait 0.
	fn := func(ctx context.Context, arg any) {
		clk.advance(10 * time.Millisecond)
		cancel()
	}

	s, err := New(10*time.Millisecond, fn, nil, WithClock(clk), WithLogger(log))
	require.NoError(t, err)
	s.Run(ctx)

	assert.Empty(t, clk.recorded())
	assert.NotContains(t, buf.String(), "overran")
}

func TestScheduler_Run_StopsOnAlreadyCancelledContext(t *testing.T) {
	clk := newScriptClock()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	s, err := New(time.Millisecond, func(ctx context.Context, arg any) { calls++ }, nil, WithClock(clk))
	require.NoError(t, err)
	s.Run(ctx)

	assert.Zero(t, calls, "no cycle may start on a dead context")
}
