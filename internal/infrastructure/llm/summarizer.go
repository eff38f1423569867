package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"

	"AirworthinessDigest/internal/domain"
	"AirworthinessDigest/internal/ports"
)

const (
	defaultMaxAttempts = 3
	defaultRetryDelay  = 10 * time.Second
)

// SummarizerOptions configures prompt rendering and retry behaviour.
type SummarizerOptions struct {
	SystemPrompt string
	Prompt       PromptBuilder
	MaxAttempts  int
	RetryDelay   time.Duration
}

// DigestSummarizer implements ports.Summarizer on top of any Provider.
type DigestSummarizer struct {
	provider    Provider
	system      string
	prompt      PromptBuilder
	maxAttempts int
	retryDelay  time.Duration
	logger      *slog.Logger
}

var _ ports.Summarizer = (*DigestSummarizer)(nil)

// NewDigestSummarizer wraps provider with the digest prompt and a fixed-delay retry on rate limits.
func NewDigestSummarizer(provider Provider, opts SummarizerOptions, log *slog.Logger) *DigestSummarizer {
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = defaultMaxAttempts
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = defaultRetryDelay
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &DigestSummarizer{
		provider:    provider,
		system:      opts.SystemPrompt,
		prompt:      opts.Prompt,
		maxAttempts: opts.MaxAttempts,
		retryDelay:  opts.RetryDelay,
		logger:      log,
	}
}

// Summarize asks the provider for a digest of candidates.
// Only rate-limit failures are retried; anything else ends the attempt immediately.
func (s *DigestSummarizer) Summarize(ctx context.Context, candidates []domain.Candidate) (string, error) {
	if s.provider == nil {
		return "", fmt.Errorf("summarizer provider is not configured")
	}
	if len(candidates) == 0 {
		return "", fmt.Errorf("no candidates to summarize")
	}

	userPrompt := s.prompt.Build(candidates)
	s.logger.InfoContext(ctx, "generating digest", "provider", s.provider.Name(), "articles", len(candidates))

	attempt := 0
	operation := func() (string, error) {
		attempt++
		text, err := s.provider.Complete(ctx, s.system, userPrompt)
		if err != nil {
			if errors.Is(err, ErrRateLimited) {
				return "", err
			}
			s.logger.ErrorContext(ctx, "llm request failed", "provider", s.provider.Name(), "attempt", attempt, "error", err)
			return "", backoff.Permanent(err)
		}
		if strings.TrimSpace(text) == "" {
			return "", backoff.Permanent(ErrEmptyDigest)
		}
		return text, nil
	}

	notify := func(err error, wait time.Duration) {
		s.logger.WarnContext(ctx, "rate limit hit, sleeping",
			"attempt", attempt, "max_attempts", s.maxAttempts, "wait", wait, "error", err)
	}

	text, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(backoff.NewConstantBackOff(s.retryDelay)),
		backoff.WithMaxTries(uint(s.maxAttempts)),
		backoff.WithMaxElapsedTime(0),
		backoff.WithNotify(notify),
	)
	if err != nil {
		if errors.Is(err, ErrRateLimited) {
			return "", fmt.Errorf("%s: rate limit exceeded after %d attempts: %w", s.provider.Name(), attempt, err)
		}
		return "", fmt.Errorf("%s: %w", s.provider.Name(), err)
	}

	s.logger.InfoContext(ctx, "digest generated", "provider", s.provider.Name(), "attempts", attempt)
	return text, nil
}
