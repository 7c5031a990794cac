package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tcnlab/railvos/internal/thread"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tasks.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadRunConfig_Valid(t *testing.T) {
	path := writeConfig(t, `
metrics_listen: ":9100"
tasks:
  - name: heartbeat
    interval: 100ms
    priority: 180
    policy: other
  - name: supervisor
    interval: 2s
`)

	cfg, err := LoadRunConfig(path)
	require.NoError(t, err)

	assert.Equal(t, ":9100", cfg.MetricsListen)
	require.Len(t, cfg.Tasks, 2)
	assert.Equal(t, "heartbeat", cfg.Tasks[0].Name)
	assert.Equal(t, 100*time.Millisecond, cfg.Tasks[0].Interval.Std())
	assert.Equal(t, uint8(180), cfg.Tasks[0].Priority)
	assert.Equal(t, 2*time.Second, cfg.Tasks[1].Interval.Std())
}

func TestLoadRunConfig_MissingFile(t *testing.T) {
	_, err := LoadRunConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadRunConfig_CollectsAllValidationErrors(t *testing.T) {
	path := writeConfig(t, `
tasks:
  - name: ""
    interval: 10ms
  - name: dup
    interval: 10ms
  - name: dup
    interval: 0s
    policy: warp-speed
`)

	_, err := LoadRunConfig(path)
	require.Error(t, err)

	msg := err.Error()
	assert.Contains(t, msg, "name is required")
	assert.Contains(t, msg, "duplicate name")
	assert.Contains(t, msg, "interval must be positive")
	assert.Contains(t, msg, "unknown policy")
}

func TestLoadRunConfig_NoTasks(t *testing.T) {
	path := writeConfig(t, `metrics_listen: ":9100"`)

	_, err := LoadRunConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no tasks defined")
}

func TestLoadRunConfig_UnknownFieldRejected(t *testing.T) {
	path := writeConfig(t, `
tasks:
  - name: ok
    interval: 10ms
    stacksize: 4096
`)

	_, err := LoadRunConfig(path)
	assert.Error(t, err, "unknown yaml fields are configuration typos")
}

func TestLoadRunConfig_BadDurationString(t *testing.T) {
	path := writeConfig(t, `
tasks:
  - name: bad
    interval: quickly
`)

	_, err := LoadRunConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse duration")
}

func TestParsePolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    thread.Policy
		wantErr bool
	}{
		{"", thread.PolicyOther, false},
		{"other", thread.PolicyOther, false},
		{"fifo", thread.PolicyFIFO, false},
		{"rr", thread.PolicyRoundRobin, false},
		{"round-robin", thread.PolicyRoundRobin, false},
		{"warp-speed", thread.PolicyOther, true},
	}
	for _, tt := range tests {
		got, err := ParsePolicy(tt.in)
		if tt.wantErr {
			assert.Error(t, err, "policy %q", tt.in)
			continue
		}
		require.NoError(t, err, "policy %q", tt.in)
		assert.Equal(t, tt.want, got, "policy %q", tt.in)
	}
}
