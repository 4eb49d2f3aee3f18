package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics 一次进程生命周期内的运行计数，单次运行模式下只在日志里体现
type Metrics struct {
	Registry *prometheus.Registry

	FetchTotal   *prometheus.CounterVec
	MatchesTotal prometheus.Counter
	NotifyTotal  *prometheus.CounterVec
	RunsTotal    prometheus.Counter
}

func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		FetchTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hotwatch_fetch_total",
			Help: "Source fetch attempts by source and result status",
		}, []string{"source", "status"}),
		MatchesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hotwatch_matches_total",
			Help: "Keyword matches aggregated across runs",
		}),
		NotifyTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hotwatch_notify_total",
			Help: "Webhook deliveries by outcome",
		}, []string{"outcome"}),
		RunsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hotwatch_runs_total",
			Help: "Completed monitoring runs",
		}),
	}
	m.Registry.MustRegister(m.FetchTotal, m.MatchesTotal, m.NotifyTotal, m.RunsTotal)
	return m
}

func (m *Metrics) ObserveFetch(source, status string) {
	if m == nil {
		return
	}
	m.FetchTotal.WithLabelValues(source, status).Inc()
}

func (m *Metrics) ObserveRun(matches int, delivered bool) {
	if m == nil {
		return
	}
	m.RunsTotal.Inc()
	m.MatchesTotal.Add(float64(matches))
	outcome := "failed"
	if delivered {
		outcome = "delivered"
	}
	m.NotifyTotal.WithLabelValues(outcome).Inc()
}

// Handler 暴露 /metrics
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
