// Package metrics collects prometheus counters for the VOS layer.
//
// The collector is optional everywhere it is accepted: a nil
// *Collector is a valid no-op sink, so library code records
// observations unconditionally and only wired-up binaries pay for
// them.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds the layer's prometheus instruments behind its own
// registry, so embedding binaries keep full control of what they
// expose.
type Collector struct {
	reg *prometheus.Registry

	cycles         prometheus.Counter
	overruns       prometheus.Counter
	threadsCreated prometheus.Counter
	threadsActive  prometheus.Gauge
}

// NewCollector creates a collector with all instruments registered on
// a fresh registry.
func NewCollector() *Collector {
	c := &Collector{
		reg: prometheus.NewRegistry(),
		cycles: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "vos_cyclic_cycles_total",
			Help: "Completed cyclic task cycles.",
		}),
		overruns: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "vos_cyclic_overruns_total",
			Help: "Cyclic task cycles whose runtime exceeded the configured interval.",
		}),
		threadsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "vos_threads_created_total",
			Help: "Threads spawned by the lifecycle manager.",
		}),
		threadsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "vos_threads_active",
			Help: "Threads currently running.",
		}),
	}

	c.reg.MustRegister(c.cycles, c.overruns, c.threadsCreated, c.threadsActive)
	return c
}

// Handler returns an http.Handler serving the collector's registry in
// the prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.reg, promhttp.HandlerOpts{})
}

// CycleObserved records one completed cyclic task cycle.
func (c *Collector) CycleObserved() {
	if c == nil {
		return
	}
	c.cycles.Inc()
}

// OverrunObserved records a cycle whose runtime violated its interval.
func (c *Collector) OverrunObserved() {
	if c == nil {
		return
	}
	c.overruns.Inc()
}

// ThreadStarted records a thread spawn.
func (c *Collector) ThreadStarted() {
	if c == nil {
		return
	}
	c.threadsCreated.Inc()
	c.threadsActive.Inc()
}

// ThreadStopped records a thread exit.
func (c *Collector) ThreadStopped() {
	if c == nil {
		return
	}
	c.threadsActive.Dec()
}
