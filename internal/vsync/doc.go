// Package vsync provides the intra-process synchronization primitives
// of the VOS layer: a recursive mutex and a bounded counting
// semaphore.
//
// Every handle carries an integrity tag that is stamped on creation,
// checked on every operation and cleared on Close. The tag detects use
// of an uninitialized, corrupted or already-deleted handle and turns
// it into an invalid-parameter error instead of undefined behavior.
// Mutex and Semaphore share the same tag mechanism.
//
// Both primitives are explicitly acquired and explicitly released.
// Ownership never transfers: the goroutine that acquired is the one
// responsible for releasing (recursive mutex depth aside). Acquisition
// order among contenders is not FIFO and must not be relied upon.
package vsync
