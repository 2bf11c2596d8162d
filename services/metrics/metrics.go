// Package metrics exposes the application counters to prometheus.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcomes
const (
	OK       = "ok"
	Failed   = "failed"
	Rejected = "rejected"
)

type Recorder struct {
	registry *prometheus.Registry

	logins   *prometheus.CounterVec
	imports  *prometheus.CounterVec
	exports  *prometheus.CounterVec
	edits    *prometheus.CounterVec
	sessions prometheus.Gauge
	requests *prometheus.CounterVec
}

// NewRecorder registers the counters on a registry of their own.
func NewRecorder(namespace string) *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "logins_total",
			Help:      "Login attempts by outcome.",
		}, []string{"outcome"}),
		imports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sheet_imports_total",
			Help:      "Spreadsheet imports by outcome.",
		}, []string{"outcome"}),
		exports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sheet_exports_total",
			Help:      "Spreadsheet exports by outcome.",
		}, []string{"outcome"}),
		edits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "grid_edits_total",
			Help:      "Grid edits by operation.",
		}, []string{"op"}),
		sessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions",
			Help:      "Live sessions.",
		}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"method", "route", "code"}),
	}
	r.registry.MustRegister(
		r.logins, r.imports, r.exports, r.edits, r.sessions, r.requests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

func (r *Recorder) Login(outcome string)  { r.logins.WithLabelValues(outcome).Inc() }
func (r *Recorder) Import(outcome string) { r.imports.WithLabelValues(outcome).Inc() }
func (r *Recorder) Export(outcome string) { r.exports.WithLabelValues(outcome).Inc() }
func (r *Recorder) Edit(op string)        { r.edits.WithLabelValues(op).Inc() }
func (r *Recorder) SetSessions(n int)     { r.sessions.Set(float64(n)) }

func (r *Recorder) Request(method, route, code string) {
	r.requests.WithLabelValues(method, route, code).Inc()
}

// Handler serves the registry in the prometheus text format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
