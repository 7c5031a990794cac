//go:build !linux

package thread

// applyPriority is a no-op on platforms without a usable per-thread
// priority syscall. The band mapping still validates, so callers see
// identical behavior apart from the missing native effect.
func applyPriority(priority uint8) error {
	_ = band(priority)
	return nil
}
