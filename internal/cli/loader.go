package cli

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/tcnlab/railvos/internal/thread"
)

// Duration wraps time.Duration with yaml parsing of strings like
// "100ms" or "2s".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return fmt.Errorf("duration must be a string like \"100ms\": %w", err)
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// TaskConfig describes one cyclic task to run.
type TaskConfig struct {
	Name     string   `yaml:"name"`
	Interval Duration `yaml:"interval"`
	Priority uint8    `yaml:"priority"`
	Policy   string   `yaml:"policy"`
}

// RunConfig is the top-level task definition file.
type RunConfig struct {
	MetricsListen string       `yaml:"metrics_listen"`
	Tasks         []TaskConfig `yaml:"tasks"`
}

// LoadRunConfig reads and validates a task definition file. Validation
// collects every problem instead of stopping at the first, so one edit
// round fixes them all.
func LoadRunConfig(path string) (*RunConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var cfg RunConfig
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if errs := cfg.validate(); len(errs) > 0 {
		return nil, fmt.Errorf("invalid config %s: %w", path, errors.Join(errs...))
	}
	return &cfg, nil
}

func (c *RunConfig) validate() []error {
	var errs []error

	if len(c.Tasks) == 0 {
		errs = append(errs, errors.New("no tasks defined"))
	}

	seen := make(map[string]bool)
	for i, task := range c.Tasks {
		if task.Name == "" {
			errs = append(errs, fmt.Errorf("task %d: name is required", i))
		} else if seen[task.Name] {
			errs = append(errs, fmt.Errorf("task %d: duplicate name %q", i, task.Name))
		}
		seen[task.Name] = true

		if task.Interval.Std() <= 0 {
			errs = append(errs, fmt.Errorf("task %d (%s): interval must be positive", i, task.Name))
		} else if task.Interval.Std().Microseconds() > math.MaxUint32 {
			errs = append(errs, fmt.Errorf("task %d (%s): interval %v too large", i, task.Name, task.Interval.Std()))
		}

		if _, err := ParsePolicy(task.Policy); err != nil {
			errs = append(errs, fmt.Errorf("task %d (%s): %w", i, task.Name, err))
		}
	}

	return errs
}

// ParsePolicy maps a config policy string onto a scheduling policy.
// The empty string selects the default.
func ParsePolicy(s string) (thread.Policy, error) {
	switch s {
	case "", "other":
		return thread.PolicyOther, nil
	case "fifo":
		return thread.PolicyFIFO, nil
	case "rr", "round-robin":
		return thread.PolicyRoundRobin, nil
	default:
		return thread.PolicyOther, fmt.Errorf("unknown policy %q (want other, fifo, or rr)", s)
	}
}
