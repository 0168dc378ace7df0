// Package metrics holds the Prometheus collectors of the service.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics is a private registry plus the collectors the handlers update.
type Metrics struct {
	reg *prometheus.Registry

	Clicks        *prometheus.CounterVec
	ClickFailures *prometheus.CounterVec
	RateLimited   prometheus.Counter
	Logins        *prometheus.CounterVec
}

// New registers every collector on a fresh registry, together with the Go
// runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		reg: reg,
		Clicks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "portfolio",
			Name:      "project_clicks_total",
			Help:      "Recorded project link clicks by link type.",
		}, []string{"link_type"}),
		ClickFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "portfolio",
			Name:      "project_click_failures_total",
			Help:      "Rejected or failed click recordings by reason.",
		}, []string{"reason"}),
		RateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "portfolio",
			Name:      "rate_limited_requests_total",
			Help:      "Requests answered with 429.",
		}),
		Logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "portfolio",
			Name:      "logins_total",
			Help:      "Login attempts by outcome.",
		}, []string{"outcome"}),
	}
	reg.MustRegister(
		m.Clicks,
		m.ClickFailures,
		m.RateLimited,
		m.Logins,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}

// Registry exposes the registry for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.reg
}
