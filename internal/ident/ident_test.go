package ident

import (
	"bytes"
	"errors"
	"log/slog"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tcnlab/railvos/internal/timeval"
)

type fixedNetInfo struct {
	mac net.HardwareAddr
	err error
}

func (f fixedNetInfo) HardwareAddr() (net.HardwareAddr, error) {
	return f.mac, f.err
}

func TestGenerator_Generate_ByteLayout(t *testing.T) {
	mac := net.HardwareAddr{0xAA, 0xBB, 0xCC, 0xDD, 0xEE, 0xFF}
	g := NewGenerator(fixedNetInfo{mac: mac}, nil)
	g.now = func() timeval.TimeVal {
		return timeval.TimeVal{Sec: 0x12345678, Usec: 999_999} // 0x000F423F
	}

	u := g.Generate()

	// Microseconds, little-endian.
	assert.Equal(t, byte(0x3F), u[0])
	assert.Equal(t, byte(0x42), u[1])
	assert.Equal(t, byte(0x0F), u[2])
	assert.Equal(t, byte(0x00), u[3])

	// Low seconds bytes.
	assert.Equal(t, byte(0x78), u[4])
	assert.Equal(t, byte(0x56), u[5])
	assert.Equal(t, byte(0x34), u[6])

	// Seconds nibble with the version marker in the high bits.
	assert.Equal(t, byte(0x42), u[7])

	// Counter starts at 1, little-endian.
	assert.Equal(t, byte(0x01), u[8])
	assert.Equal(t, byte(0x00), u[9])

	assert.Equal(t, []byte(mac), []byte(u[10:16]))
}

func TestGenerator_Generate_CounterIncrementsAndWraps(t *testing.T) {
	g := NewGenerator(fixedNetInfo{mac: make(net.HardwareAddr, 6)}, nil)
	g.now = func() timeval.TimeVal { return timeval.TimeVal{} }

	first := g.Generate()
	second := g.Generate()
	assert.Equal(t, byte(1), first[8])
	assert.Equal(t, byte(2), second[8])

	// Force the 16-bit counter to its maximum, then wrap.
	g.count.Store(0xFFFE)
	atMax := g.Generate()
	assert.Equal(t, byte(0xFF), atMax[8])
	assert.Equal(t, byte(0xFF), atMax[9])

	wrapped := g.Generate()
	assert.Equal(t, byte(0x00), wrapped[8])
	assert.Equal(t, byte(0x00), wrapped[9])
}

func TestGenerator_Generate_DistinctAcrossManyCalls(t *testing.T) {
	g := NewGenerator(fixedNetInfo{mac: net.HardwareAddr{1, 2, 3, 4, 5, 6}}, nil)

	const n = 10_000
	seen := make(map[[16]byte]bool, n)
	for i := 0; i < n; i++ {
		u := g.Generate()
		require.False(t, seen[u], "identifier %x repeated at call %d", u, i)
		seen[u] = true
	}
}

func TestGenerator_Generate_AddressFailureIsLoggedNotFatal(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))

	g := NewGenerator(fixedNetInfo{err: errors.New("interface scan failed")}, log)
	g.now = func() timeval.TimeVal { return timeval.TimeVal{Sec: 1, Usec: 1} }

	u := g.Generate()

	assert.Contains(t, buf.String(), "hardware address")
	assert.Equal(t, make([]byte, 6), []byte(u[10:16]), "address bytes stay unset")
	assert.NotZero(t, u[8], "counter still advances")
}

func TestSystemNetInfo_ResolvesOrExplains(t *testing.T) {
	mac, err := SystemNetInfo{}.HardwareAddr()
	if err != nil {
		// Machines without a suitable interface are legitimate; the
		// error must say so rather than being silent.
		assert.Error(t, err)
		return
	}
	assert.Len(t, mac, 6)
}
