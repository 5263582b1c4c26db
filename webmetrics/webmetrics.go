// Package webmetrics provides optional Prometheus instrumentation for
// the sitemount server: dispatched requests by status class and the
// number of registered mounts.
package webmetrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	namespace = "sitemount"
	subsystem = "server"
)

// Collector holds the server metrics. A nil *Collector is a valid
// no-op, so instrumentation can be left unconfigured.
type Collector struct {
	requestsTotal *prometheus.CounterVec
	mounts        prometheus.Gauge
}

// New creates a Collector and registers its metrics with reg.
// Passing prometheus.DefaultRegisterer uses the default registry.
func New(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "requests_total",
				Help:      "Total number of dispatched requests by status class",
			},
			[]string{"class"},
		),
		mounts: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "mounts",
				Help:      "Number of registered mounts in the site map",
			},
		),
	}

	for _, col := range []prometheus.Collector{c.requestsTotal, c.mounts} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// ObserveRequest records one dispatched request by the class of its
// final status code ("2xx", "3xx", ...). Codes outside 100-599 are
// recorded as "other".
func (c *Collector) ObserveRequest(code int) {
	if c == nil {
		return
	}

	class := "other"
	if code >= 100 && code < 600 {
		class = strconv.Itoa(code/100) + "xx"
	}

	c.requestsTotal.WithLabelValues(class).Inc()
}

// SetMounts records the current number of registered mounts.
func (c *Collector) SetMounts(n int) {
	if c == nil {
		return
	}

	c.mounts.Set(float64(n))
}
