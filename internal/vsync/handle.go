package vsync

import (
	"sync/atomic"

	"github.com/tcnlab/railvos/internal/verr"
)

// Integrity-tag magic values. A live handle holds its magic; a deleted
// or never-initialized handle holds zero.
const (
	mutexMagic uint32 = 0x1234FEDC
	semaMagic  uint32 = 0x5E4AFEDC
)

// tag is the validated integrity marker embedded in every handle.
type tag struct {
	v atomic.Uint32
}

func (g *tag) stamp(magic uint32) {
	g.v.Store(magic)
}

func (g *tag) clear() {
	g.v.Store(0)
}

// live reports whether the tag still holds its magic.
func (g *tag) live(magic uint32) bool {
	return g.v.Load() == magic
}

// check returns an invalid-parameter error when the tag does not hold
// the expected magic.
func (g *tag) check(magic uint32, op string) error {
	if !g.live(magic) {
		return verr.New(verr.CodeInvalidParam, op, "integrity tag mismatch")
	}
	return nil
}
