// Package goid resolves the id of the calling goroutine.
//
// The runtime does not expose goroutine ids on purpose; the VOS layer
// needs one anyway as the owner identity of its recursive mutex and as
// the key of the managed-thread registry. The id is parsed from the
// first line of the goroutine's stack header ("goroutine N [state]:"),
// which has been stable across every Go release to date.
package goid

import (
	"runtime"
	"strconv"
	"strings"
)

// ID returns the id of the calling goroutine.
func ID() int64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)

	s := strings.TrimPrefix(string(buf[:n]), "goroutine ")
	i := strings.IndexByte(s, ' ')
	if i < 0 {
		return 0
	}

	id, err := strconv.ParseInt(s[:i], 10, 64)
	if err != nil {
		return 0
	}
	return id
}
