// Package thread manages the native execution units of the VOS layer.
//
// A Manager is an explicit lifecycle context: operations work between
// NewManager and Close and fail with a not-initialized error outside
// that window. There is no hidden package-global state.
//
// Threads are goroutines pinned to an OS thread so that the abstract
// 1..255 priority scale can be applied to the underlying native
// scheduling level. Termination is cooperative: a thread's function
// receives a context and is expected to return promptly once it is
// cancelled. There is no forced-kill path: a function that ignores
// its context keeps its goroutine (and whatever locks it holds) alive,
// which Terminate surfaces as a thread error after the grace period.
package thread
