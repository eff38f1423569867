package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"

	"AirworthinessDigest/internal/domain"
	"AirworthinessDigest/internal/filter"
	"AirworthinessDigest/internal/ports"
)

const previewRunes = 500

var (
	// ErrSummarize marks runs that failed while generating the digest.
	ErrSummarize = errors.New("summarize digest")
	// ErrDeliver marks runs that failed while sending the digest.
	ErrDeliver = errors.New("deliver digest")
)

// Selector picks digest candidates out of fetched entries.
type Selector interface {
	Apply(entries []domain.RawEntry, history []string) filter.Result
}

// PipelineDeps wires all driven adapters into the digest pipeline.
type PipelineDeps struct {
	Source     ports.FeedSource
	History    ports.HistoryStore
	Filter     Selector
	Summarizer ports.Summarizer
	Notifier   ports.Notifier
	Metrics    ports.Metrics
	Logger     *slog.Logger

	// Subject renders the mail subject for the run time.
	Subject func(now time.Time) string

	DryRun    bool
	Preview   io.Writer
	Recipient string
}

// Pipeline implements the fetch, filter, summarize, deliver and commit workflow.
type Pipeline struct {
	source     ports.FeedSource
	history    ports.HistoryStore
	filter     Selector
	summarizer ports.Summarizer
	notifier   ports.Notifier
	metrics    ports.Metrics
	logger     *slog.Logger
	subject    func(time.Time) string
	dryRun     bool
	preview    io.Writer
	recipient  string
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	p := &Pipeline{
		source:     deps.Source,
		history:    deps.History,
		filter:     deps.Filter,
		summarizer: deps.Summarizer,
		notifier:   deps.Notifier,
		metrics:    deps.Metrics,
		logger:     deps.Logger,
		subject:    deps.Subject,
		dryRun:     deps.DryRun,
		preview:    deps.Preview,
		recipient:  deps.Recipient,
	}
	if p.metrics == nil {
		p.metrics = nopMetrics{}
	}
	if p.logger == nil {
		p.logger = slog.New(slog.DiscardHandler)
	}
	if p.subject == nil {
		p.subject = func(now time.Time) string {
			return "Digest - " + now.Format(time.DateOnly)
		}
	}
	if p.preview == nil {
		p.preview = io.Discard
	}
	return p
}

// Run executes a single digest cycle. History is written only after a successful delivery.
func (p *Pipeline) Run(ctx context.Context, now time.Time) (domain.Report, error) {
	report := domain.Report{RunID: uuid.NewString(), State: domain.StateIdle}
	log := p.logger.With("run_id", report.RunID)

	if p.source == nil || p.history == nil || p.filter == nil {
		return p.fail(ctx, log, &report, fmt.Errorf("pipeline misconfigured"))
	}

	report.State = domain.StateFetching
	log.InfoContext(ctx, "run started", "dry_run", p.dryRun)
	history := p.history.Load(ctx)
	entries := p.source.FetchAll(ctx)
	log.InfoContext(ctx, "feeds fetched", "entries", len(entries), "history", len(history))

	report.State = domain.StateFiltering
	result := p.filter.Apply(entries, history)
	report.Candidates = result.Candidates
	report.NewIDs = result.NewIDs
	report.Decisions = result.Decisions
	for _, d := range result.Decisions {
		p.metrics.ObserveDecision(d.Reason)
		if d.Reason == domain.ReasonMissingID {
			log.WarnContext(ctx, "entry has no guid, link or title; skipped", "feed", d.Entry.FeedURL)
			continue
		}
		log.DebugContext(ctx, "entry filtered", "id", d.ID, "reason", d.Reason, "keyword", d.Keyword, "title", d.Entry.Title)
	}
	log.InfoContext(ctx, "entries filtered", "candidates", len(result.Candidates), "counts", result.Counts())

	if len(result.Candidates) == 0 {
		log.InfoContext(ctx, "no new relevant articles")
		return p.finish(ctx, log, &report), nil
	}

	report.State = domain.StateSummarizing
	if p.summarizer == nil {
		return p.fail(ctx, log, &report, fmt.Errorf("%w: summarizer not configured", ErrSummarize))
	}
	body, err := p.summarizer.Summarize(ctx, result.Candidates)
	if err != nil {
		return p.fail(ctx, log, &report, fmt.Errorf("%w: %w", ErrSummarize, err))
	}
	report.Digest = domain.Digest{
		Subject:  p.subject(now),
		Body:     body,
		Articles: len(result.Candidates),
	}

	if p.dryRun {
		p.writePreview(report.Digest)
		log.InfoContext(ctx, "dry run: digest not sent, history untouched")
		return p.finish(ctx, log, &report), nil
	}

	report.State = domain.StateDelivering
	if p.notifier == nil {
		return p.fail(ctx, log, &report, fmt.Errorf("%w: notifier not configured", ErrDeliver))
	}
	if err := p.notifier.PublishDigest(ctx, report.Digest.Subject, report.Digest.Body); err != nil {
		return p.fail(ctx, log, &report, fmt.Errorf("%w: %w", ErrDeliver, err))
	}
	report.Delivered = true

	report.State = domain.StateCommitting
	updated := append(slices.Clone(history), result.NewIDs...)
	p.history.Save(ctx, updated)
	report.Committed = true
	log.InfoContext(ctx, "history updated", "added", len(result.NewIDs))

	return p.finish(ctx, log, &report), nil
}

func (p *Pipeline) finish(ctx context.Context, log *slog.Logger, report *domain.Report) domain.Report {
	report.State = domain.StateDone
	p.metrics.ObserveRun(report.State, len(report.Candidates))
	log.InfoContext(ctx, "run finished", "state", report.State, "candidates", len(report.Candidates), "delivered", report.Delivered)
	return *report
}

func (p *Pipeline) fail(ctx context.Context, log *slog.Logger, report *domain.Report, err error) (domain.Report, error) {
	failedIn := report.State
	report.State = domain.StateFailed
	p.metrics.ObserveRun(report.State, len(report.Candidates))
	log.ErrorContext(ctx, "run failed", "stage", failedIn, "error", err)
	return *report, err
}

func (p *Pipeline) writePreview(d domain.Digest) {
	fmt.Fprintf(p.preview, "--- DRY RUN: digest for %s not sent ---\n", p.recipient)
	fmt.Fprintf(p.preview, "Subject: %s\n\n%s\n", d.Subject, Preview(d.Body, previewRunes))
}

// Preview returns at most n runes of text, marking truncation with an ellipsis.
func Preview(text string, n int) string {
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n]) + "..."
}

type nopMetrics struct{}

func (nopMetrics) ObserveFeed(string, int, error) {}

func (nopMetrics) ObserveDecision(domain.Reason) {}

func (nopMetrics) ObserveRun(domain.RunState, int) {}
