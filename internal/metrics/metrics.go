// Package metrics exposes Prometheus counters for the todo app.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/idilsaglam/tada/internal/app"
)

// Collector implements app.Observer on its own registry.
type Collector struct {
	registry *prometheus.Registry
	events   *prometheus.CounterVec
	failures *prometheus.CounterVec
	todos    *prometheus.GaugeVec
}

// New registers the collectors on a fresh registry.
func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		events: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tada_events_total",
				Help: "Events dispatched to the todo app.",
			},
			[]string{"event"},
		),
		failures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tada_event_failures_total",
				Help: "Events whose handler returned an error.",
			},
			[]string{"event"},
		),
		todos: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "tada_todos",
				Help: "Todos in the list by state.",
			},
			[]string{"state"},
		),
	}
	c.registry.MustRegister(c.events, c.failures, c.todos)
	return c
}

// Observe records one dispatched event.
func (c *Collector) Observe(ev app.Event, ctl app.Controls, err error) {
	c.events.WithLabelValues(string(ev)).Inc()
	if err != nil {
		c.failures.WithLabelValues(string(ev)).Inc()
	}
	c.Set(ctl)
}

// Set updates the todo gauges from the summary controls.
func (c *Collector) Set(ctl app.Controls) {
	c.todos.WithLabelValues("active").Set(float64(ctl.Remaining))
	c.todos.WithLabelValues("completed").Set(float64(ctl.Completed))
}

// Registry exposes the underlying registry.
func (c *Collector) Registry() *prometheus.Registry { return c.registry }

// Handler serves the registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
