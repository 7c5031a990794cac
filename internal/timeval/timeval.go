// Package timeval implements the (seconds, microseconds) time value
// used for deadline bookkeeping throughout the VOS layer.
//
// INVARIANT: after every operation the microsecond field lies in
// [0, 1_000_000). Carries propagate into the seconds field, including
// the negative borrow on subtraction. The seconds field is permitted
// to go negative when subtracting a later value from an earlier one;
// this signals underflow to the caller and is intentionally not
// clamped.
//
// TimeVal is a plain value type: create and copy it freely.
package timeval

import (
	"fmt"
	"time"

	"github.com/tcnlab/railvos/internal/verr"
)

// UsecPerSec is the number of microseconds in one second.
const UsecPerSec = 1_000_000

// TimeVal is a duration or timestamp split into whole seconds and a
// normalized microsecond remainder.
type TimeVal struct {
	Sec  int64
	Usec int32
}

// Now returns the current wall-clock time as a TimeVal.
func Now() TimeVal {
	return FromTime(time.Now())
}

// FromTime converts an absolute time into a TimeVal relative to the
// Unix epoch.
func FromTime(t time.Time) TimeVal {
	return TimeVal{
		Sec:  t.Unix(),
		Usec: int32(t.Nanosecond() / 1000),
	}
}

// FromDuration converts a non-negative duration into a TimeVal.
func FromDuration(d time.Duration) TimeVal {
	us := d.Microseconds()
	return TimeVal{
		Sec:  us / UsecPerSec,
		Usec: int32(us % UsecPerSec),
	}
}

// Duration converts t into a time.Duration.
func (t TimeVal) Duration() time.Duration {
	return time.Duration(t.Sec)*time.Second + time.Duration(t.Usec)*time.Microsecond
}

// Clear resets t to (0, 0).
func (t *TimeVal) Clear() {
	t.Sec = 0
	t.Usec = 0
}

// Add sums o into t, normalizing the microsecond field by moving whole
// seconds of microseconds into the seconds field.
func (t *TimeVal) Add(o TimeVal) {
	t.Sec += o.Sec
	t.Usec += o.Usec

	for t.Usec >= UsecPerSec {
		t.Sec++
		t.Usec -= UsecPerSec
	}
}

// Sub subtracts o from t. When o's microsecond component exceeds t's,
// one second is borrowed into the microsecond field first so that the
// microsecond field never goes negative. The seconds field may go
// negative when o > t.
func (t *TimeVal) Sub(o TimeVal) {
	if o.Usec > t.Usec {
		t.Sec--
		t.Usec += UsecPerSec
	}

	t.Usec -= o.Usec
	t.Sec -= o.Sec
}

// Mul scales both fields by k, then re-normalizes the microsecond
// field by carrying whole seconds into the seconds field.
func (t *TimeVal) Mul(k uint32) {
	t.Sec *= int64(k)
	usec := int64(t.Usec) * int64(k)
	t.Sec += usec / UsecPerSec
	t.Usec = int32(usec % UsecPerSec)
}

// Div divides t by k. The integer remainder of the seconds division is
// converted into microseconds and folded into the microsecond field
// before that field is divided. k == 0 leaves t unchanged and returns
// an invalid-parameter error.
func (t *TimeVal) Div(k uint32) error {
	if k == 0 {
		return verr.New(verr.CodeInvalidParam, "timeval.Div", "divisor is zero")
	}

	rem := t.Sec % int64(k)
	t.Sec /= int64(k)
	usec := int64(t.Usec)
	if rem > 0 {
		usec += rem * UsecPerSec
	}
	t.Usec = int32(usec / int64(k))

	return nil
}

// Cmp compares t against o using lexicographic (seconds, microseconds)
// ordering. It returns -1 when t < o, 0 when equal, +1 when t > o.
func (t TimeVal) Cmp(o TimeVal) int {
	switch {
	case t.Sec > o.Sec:
		return 1
	case t.Sec < o.Sec:
		return -1
	case t.Usec > o.Usec:
		return 1
	case t.Usec < o.Usec:
		return -1
	default:
		return 0
	}
}

// String renders t as "S.UUUUUUs" with the microsecond field zero
// padded to six digits.
func (t TimeVal) String() string {
	return fmt.Sprintf("%d.%06ds", t.Sec, t.Usec)
}
