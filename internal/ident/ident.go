// Package ident produces process-unique, time-and-hardware-derived
// identifiers.
//
// The identifier is best-effort, not cryptographically random:
// uniqueness holds as long as the 16-bit counter does not wrap within
// a single timestamp tick and no two machines share a hardware
// address. Callers needing unguessable ids must look elsewhere.
package ident

import (
	"errors"
	"log/slog"
	"net"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/tcnlab/railvos/internal/timeval"
)

// NetInfo supplies the local hardware (link-layer) address folded into
// every identifier.
type NetInfo interface {
	HardwareAddr() (net.HardwareAddr, error)
}

// SystemNetInfo resolves the hardware address from the first
// non-loopback interface carrying a 6-byte address.
type SystemNetInfo struct{}

// HardwareAddr implements NetInfo.
func (SystemNetInfo) HardwareAddr() (net.HardwareAddr, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, err
	}
	for _, ifc := range ifaces {
		if ifc.Flags&net.FlagLoopback != 0 {
			continue
		}
		if len(ifc.HardwareAddr) == 6 {
			return ifc.HardwareAddr, nil
		}
	}
	return nil, errors.New("no interface with a 6-byte hardware address")
}

// Generator creates identifiers. The zero value is not usable; use
// NewGenerator.
type Generator struct {
	count atomic.Uint32
	ni    NetInfo
	log   *slog.Logger
	now   func() timeval.TimeVal
}

// NewGenerator returns a generator using ni for hardware-address
// lookup. Nil arguments fall back to SystemNetInfo and slog.Default.
func NewGenerator(ni NetInfo, log *slog.Logger) *Generator {
	if ni == nil {
		ni = SystemNetInfo{}
	}
	if log == nil {
		log = slog.Default()
	}
	return &Generator{ni: ni, log: log, now: timeval.Now}
}

// Generate returns a fresh identifier.
//
// Layout: bytes 0-3 hold the microsecond component little-endian,
// bytes 4-6 the low seconds bytes, byte 7 the next seconds nibble with
// the version marker in the high bits, bytes 8-9 a wrapping monotonic
// counter, bytes 10-15 the hardware address. A failed address lookup
// is logged and leaves those bytes zero; identifier production never
// blocks on it.
func (g *Generator) Generate() uuid.UUID {
	now := g.now()
	usec := uint32(now.Usec)
	sec := uint32(now.Sec)

	var u uuid.UUID
	u[0] = byte(usec)
	u[1] = byte(usec >> 8)
	u[2] = byte(usec >> 16)
	u[3] = byte(usec >> 24)
	u[4] = byte(sec)
	u[5] = byte(sec >> 8)
	u[6] = byte(sec >> 16)
	u[7] = byte(sec>>24)&0x0F | 0x40

	c := uint16(g.count.Add(1))
	u[8] = byte(c)
	u[9] = byte(c >> 8)

	mac, err := g.ni.HardwareAddr()
	if err != nil {
		g.log.Error("hardware address lookup failed, identifier tail left unset", "err", err)
		return u
	}
	copy(u[10:], mac)
	return u
}
