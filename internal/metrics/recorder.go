// Package metrics exposes per-run Prometheus metrics for the digest job.
package metrics

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/push"

	"AirworthinessDigest/internal/domain"
	"AirworthinessDigest/internal/ports"
)

const namespace = "airworthiness_digest"

// Recorder collects run metrics on a private registry so a short-lived job can push them.
type Recorder struct {
	registry *prometheus.Registry
	logger   *slog.Logger
	now      func() time.Time

	FeedsTotal     *prometheus.CounterVec
	FeedEntries    *prometheus.CounterVec
	DecisionsTotal *prometheus.CounterVec
	Candidates     prometheus.Gauge
	RunState       *prometheus.GaugeVec
	LastSuccess    prometheus.Gauge
}

var _ ports.Metrics = (*Recorder)(nil)

// NewRecorder registers every collector on a fresh registry.
func NewRecorder(log *slog.Logger) *Recorder {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		logger:   log,
		now:      time.Now,

		FeedsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "feeds_total",
				Help:      "Feed fetches by outcome",
			},
			[]string{"status"},
		),
		FeedEntries: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "feed_entries_total",
				Help:      "Entries parsed per feed",
			},
			[]string{"feed"},
		),
		DecisionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "decisions_total",
				Help:      "Filter decisions by reason",
			},
			[]string{"reason"},
		),
		Candidates: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "candidates",
				Help:      "Candidates selected by the last run",
			},
		),
		RunState: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "run_state",
				Help:      "Final state of the last run (1 = current state)",
			},
			[]string{"state"},
		),
		LastSuccess: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "last_success_timestamp_seconds",
				Help:      "Unix time of the last run that reached done",
			},
		),
	}
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// ObserveFeed records the outcome of one feed fetch.
func (r *Recorder) ObserveFeed(url string, entries int, err error) {
	status := "ok"
	if err != nil {
		status = "failed"
	}
	r.FeedsTotal.WithLabelValues(status).Inc()
	r.FeedEntries.WithLabelValues(url).Add(float64(entries))
}

// ObserveDecision counts a single filter decision.
func (r *Recorder) ObserveDecision(reason domain.Reason) {
	r.DecisionsTotal.WithLabelValues(string(reason)).Inc()
}

// ObserveRun stores the terminal state of a run.
func (r *Recorder) ObserveRun(state domain.RunState, candidates int) {
	r.RunState.Reset()
	r.RunState.WithLabelValues(string(state)).Set(1)
	r.Candidates.Set(float64(candidates))
	if state == domain.StateDone {
		r.LastSuccess.Set(float64(r.now().Unix()))
	}
}

// Push sends the registry to a Pushgateway. Failures are logged, never returned.
func (r *Recorder) Push(ctx context.Context, url, job string) {
	if url == "" {
		return
	}
	if err := push.New(url, job).Gatherer(r.registry).PushContext(ctx); err != nil {
		r.logger.WarnContext(ctx, "metrics push failed", "url", url, "error", fmt.Errorf("push %s: %w", job, err))
		return
	}
	r.logger.DebugContext(ctx, "metrics pushed", "url", url, "job", job)
}
