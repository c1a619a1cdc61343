package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rubylint/rubylint/internal/domain"
)

// Recorder implements domain.LintObserver on a private prometheus registry.
type Recorder struct {
	registry *prometheus.Registry

	toolRuns     *prometheus.CounterVec
	toolDuration *prometheus.HistogramVec
	cycles       *prometheus.CounterVec
	diagnostics  prometheus.Counter
}

func New() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		toolRuns: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "rubylint_tool_runs_total",
			Help: "Tool executions by tool and result",
		}, []string{"tool", "result"}),
		toolDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "rubylint_tool_duration_seconds",
			Help:    "Tool execution time in seconds",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10), // 50ms to ~25s
		}, []string{"tool"}),
		cycles: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "rubylint_cycles_total",
			Help: "Lint cycles by result",
		}, []string{"result"}),
		diagnostics: factory.NewCounter(prometheus.CounterOpts{
			Name: "rubylint_diagnostics_published_total",
			Help: "Diagnostics published by successful cycles",
		}),
	}
}

func (r *Recorder) ObserveTool(tool string, elapsed time.Duration, err error) {
	r.toolRuns.WithLabelValues(tool, result(err)).Inc()
	r.toolDuration.WithLabelValues(tool).Observe(elapsed.Seconds())
}

func (r *Recorder) ObserveCycle(diagnostics int, err error) {
	r.cycles.WithLabelValues(result(err)).Inc()
	if err == nil {
		r.diagnostics.Add(float64(diagnostics))
	}
}

// Registry exposes the registry for tests and embedding.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the prometheus text format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

func result(err error) string {
	var (
		spawnErr   *domain.SpawnError
		exitErr    *domain.ToolExitError
		outputErr  *domain.ToolOutputError
		timeoutErr *domain.TimeoutError
	)
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &spawnErr):
		return "spawn_error"
	case errors.As(err, &exitErr):
		return "exit_error"
	case errors.As(err, &outputErr):
		return "output_error"
	case errors.As(err, &timeoutErr):
		return "timeout"
	default:
		return "error"
	}
}
