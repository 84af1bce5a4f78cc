// Package metrics holds the Prometheus collectors exported by the gateway.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the gateway collectors and the registry they live in.
type Metrics struct {
	registry *prometheus.Registry

	RedirectsIssued *prometheus.CounterVec
	RedirectRules   prometheus.Gauge
	PrefixRedirects *prometheus.CounterVec
}

// New creates the collectors and registers them on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		RedirectsIssued: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "site_redirects_total",
				Help: "Total number of exact-path redirects issued, by status code",
			},
			[]string{"status"},
		),
		RedirectRules: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "site_redirect_rules",
				Help: "Number of redirect rules installed in the lookup table",
			},
		),
		PrefixRedirects: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "site_prefix_redirects_total",
				Help: "Total number of prefix redirects issued, by configured prefix",
			},
			[]string{"prefix"},
		),
	}

	m.registry.MustRegister(
		m.RedirectsIssued,
		m.RedirectRules,
		m.PrefixRedirects,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveRedirect counts an exact-path redirect with the given status.
func (m *Metrics) ObserveRedirect(status int) {
	if m == nil {
		return
	}
	m.RedirectsIssued.WithLabelValues(strconv.Itoa(status)).Inc()
}

// ObservePrefixRedirect counts a redirect issued by a prefix rule.
func (m *Metrics) ObservePrefixRedirect(prefix string) {
	if m == nil {
		return
	}
	m.PrefixRedirects.WithLabelValues(prefix).Inc()
}

// SetRules records the size of the installed table.
func (m *Metrics) SetRules(n int) {
	if m == nil {
		return
	}
	m.RedirectRules.Set(float64(n))
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
