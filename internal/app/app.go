package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"AirworthinessDigest/internal/config"
	"AirworthinessDigest/internal/domain"
	"AirworthinessDigest/internal/filter"
	"AirworthinessDigest/internal/infrastructure/llm"
	"AirworthinessDigest/internal/infrastructure/mail"
	"AirworthinessDigest/internal/infrastructure/parser"
	"AirworthinessDigest/internal/infrastructure/scheduler"
	"AirworthinessDigest/internal/infrastructure/storage"
	"AirworthinessDigest/internal/logging"
	"AirworthinessDigest/internal/metrics"
	"AirworthinessDigest/internal/usecase"
)

// Options carries per-invocation switches from the command line.
// Zero values fall back to time.Now, stdout, llm.DefaultRegistry and a fresh recorder.
type Options struct {
	DryRun    bool
	Force     bool
	Now       func() time.Time
	Out       io.Writer
	Providers *llm.Registry
	Metrics   *metrics.Recorder
}

// Application wires configs to use cases.
type Application struct {
	cfg    config.Config
	opts   Options
	logger *slog.Logger
}

// New builds a runnable application instance.
func New(cfg config.Config, baseLogger *slog.Logger, opts Options) *Application {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Providers == nil {
		opts.Providers = llm.DefaultRegistry()
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.NewRecorder(baseLogger.With("component", "metrics"))
	}
	return &Application{cfg: cfg, opts: opts, logger: baseLogger}
}

// Run performs one digest cycle. A skipped day is not an error.
func (a *Application) Run(ctx context.Context) error {
	loc := a.cfg.Schedule.Location()
	now := a.opts.Now().In(loc)

	guard := scheduler.NewWeekdayGuard(a.cfg.Schedule.Weekdays(), loc)
	if a.opts.Force {
		guard = guard.Forced()
	}
	recorder := a.opts.Metrics
	if ok, reason := guard.Allow(now); !ok {
		a.logger.InfoContext(ctx, "skipping run", "state", domain.StateSkipped, "reason", reason, "date", now.Format(time.DateOnly))
		recorder.ObserveRun(domain.StateSkipped, 0)
		recorder.Push(ctx, a.cfg.Metrics.PushgatewayURL, a.cfg.Metrics.Job)
		return nil
	}

	if err := a.cfg.Validate(); err != nil {
		return fmt.Errorf("configuration: %w", err)
	}

	pipeline, err := a.buildPipeline(ctx, recorder)
	if err != nil {
		return err
	}

	_, runErr := pipeline.Run(ctx, now)
	recorder.Push(ctx, a.cfg.Metrics.PushgatewayURL, a.cfg.Metrics.Job)
	return runErr
}

func (a *Application) buildPipeline(ctx context.Context, recorder *metrics.Recorder) (*usecase.Pipeline, error) {
	cfg := a.cfg

	cutoff, err := cfg.Filter.CutoffTime()
	if err != nil {
		return nil, err
	}
	relevance, err := filter.New(filter.Rules{
		Cutoff:        cutoff,
		Include:       cfg.Filter.Include,
		Exclude:       cfg.Filter.Exclude,
		PrimaryFeeds:  cfg.Filter.Primary.FeedSubstrings,
		PrimaryTitles: cfg.Filter.Primary.TitlePatterns,
	})
	if err != nil {
		return nil, fmt.Errorf("build filter: %w", err)
	}

	provider, err := a.opts.Providers.Build(ctx, cfg.Summarizer.Provider, llm.Settings{
		Endpoint: cfg.Summarizer.Endpoint,
		Model:    cfg.Summarizer.Model,
		APIKey:   cfg.Summarizer.APIKey,
		Timeout:  cfg.Summarizer.Timeout,
	})
	if err != nil {
		return nil, err
	}
	summarizer := llm.NewDigestSummarizer(provider, llm.SummarizerOptions{
		SystemPrompt: cfg.Summarizer.SystemPrompt,
		Prompt: llm.PromptBuilder{
			Intro:        cfg.Summarizer.Intro,
			PrimaryLabel: cfg.Filter.Primary.Label,
		},
		MaxAttempts: cfg.Summarizer.MaxAttempts,
		RetryDelay:  cfg.Summarizer.RetryDelay,
	}, a.logger.With("component", "summarizer"))

	notifier, err := mail.NewNotifier(mail.Settings{
		Host:      cfg.Email.Host,
		Port:      cfg.Email.Port,
		Sender:    cfg.Email.Sender,
		Password:  cfg.Email.Password,
		Recipient: cfg.Email.Recipient,
	}, a.logger.With("component", "mail"))
	if err != nil {
		return nil, err
	}

	fetcher := parser.NewRSSFetcher(&http.Client{Timeout: cfg.HTTP.Timeout}, cfg.HTTP.UserAgent)
	source := parser.NewFeedSource(fetcher, cfg.Feeds, recorder, a.logger.With("component", "source"))
	history := storage.NewHistoryFile(cfg.History.Path, cfg.History.Limit, a.logger.With("component", "history"))

	loc := cfg.Schedule.Location()
	subject := func(now time.Time) string {
		return mail.Subject(cfg.Email.SubjectPrefix, now, loc)
	}

	return usecase.NewPipeline(usecase.PipelineDeps{
		Source:     source,
		History:    history,
		Filter:     relevance,
		Summarizer: summarizer,
		Notifier:   notifier,
		Metrics:    recorder,
		Logger:     a.logger.With("component", "pipeline"),
		Subject:    subject,
		DryRun:     a.opts.DryRun,
		Preview:    a.opts.Out,
		Recipient:  notifier.Recipient(),
	}), nil
}
