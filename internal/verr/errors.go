// Package verr defines the error taxonomy shared by every VOS
// primitive.
//
// Every operation in the layer reports its outcome to the immediate
// caller as an error value; nothing panics across the API boundary and
// nothing is retried automatically. Retry policy, if any, belongs to
// the caller.
//
// Callers match on error kind with errors.Is against the exported
// sentinels:
//
//	if errors.Is(err, verr.ErrTimeout) { ... }
package verr

import "fmt"

// Code categorizes VOS errors.
type Code string

const (
	// CodeNotInitialized indicates a module-lifecycle violation: the
	// operation was invoked before init or after termination.
	CodeNotInitialized Code = "NOT_INITIALIZED"

	// CodeInvalidParam indicates a nil/out-of-range input or an
	// integrity-tag mismatch on a handle.
	CodeInvalidParam Code = "INVALID_PARAM"

	// CodeNoMemory indicates the allocation collaborator failed.
	CodeNoMemory Code = "NO_MEMORY"

	// CodeSync indicates a lock or semaphore operation failed at the
	// native layer (e.g. unlocking a mutex the caller does not hold).
	CodeSync Code = "SYNC_ERROR"

	// CodeThread indicates thread spawn or termination failed.
	CodeThread Code = "THREAD_ERROR"

	// CodeTimeout indicates a semaphore take did not succeed within
	// its timeout.
	CodeTimeout Code = "TIMEOUT"

	// CodeInUse indicates a try-lock found the mutex held by another
	// execution unit.
	CodeInUse Code = "IN_USE"
)

// Sentinels for errors.Is matching. Each carries only a Code; a
// constructed *Error with the same Code matches it.
var (
	ErrNotInitialized = &Error{Code: CodeNotInitialized, Detail: "module not initialized"}
	ErrInvalidParam   = &Error{Code: CodeInvalidParam, Detail: "invalid parameter"}
	ErrNoMemory       = &Error{Code: CodeNoMemory, Detail: "out of memory"}
	ErrSync           = &Error{Code: CodeSync, Detail: "synchronization primitive failure"}
	ErrThread         = &Error{Code: CodeThread, Detail: "thread operation failed"}
	ErrTimeout        = &Error{Code: CodeTimeout, Detail: "not acquired within timeout"}
	ErrInUse          = &Error{Code: CodeInUse, Detail: "already in use"}
)

// Error is a coded VOS error.
//
// Op names the failing operation ("mutex.Lock", "thread.Create"),
// Detail carries human-readable context, and Err holds a wrapped
// underlying cause when one exists.
type Error struct {
	Code   Code
	Op     string
	Detail string
	Err    error
}

// New constructs a coded error with no underlying cause.
func New(code Code, op, detail string) *Error {
	return &Error{Code: code, Op: op, Detail: detail}
}

// Newf constructs a coded error with a formatted detail string.
func Newf(code Code, op, format string, args ...any) *Error {
	return &Error{Code: code, Op: op, Detail: fmt.Sprintf(format, args...)}
}

// Wrap constructs a coded error around an underlying cause.
func Wrap(code Code, op string, err error) *Error {
	return &Error{Code: code, Op: op, Err: err}
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.Op != "" && e.Detail != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %s: %v", e.Op, e.Code, e.Detail, e.Err)
	case e.Op != "" && e.Detail != "":
		return fmt.Sprintf("%s: %s: %s", e.Op, e.Code, e.Detail)
	case e.Op != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Code, e.Err)
	case e.Op != "":
		return fmt.Sprintf("%s: %s", e.Op, e.Code)
	case e.Detail != "":
		return fmt.Sprintf("%s: %s", e.Code, e.Detail)
	default:
		return string(e.Code)
	}
}

// Unwrap exposes the underlying cause for errors.Is/As chains.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is a *Error with the same Code. This makes
// every constructed error match its code sentinel.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}
