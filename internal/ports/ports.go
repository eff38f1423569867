package ports

import (
	"context"
	"time"

	"AirworthinessDigest/internal/domain"
)

// FeedSource pulls entries from every configured feed, in order.
type FeedSource interface {
	FetchAll(ctx context.Context) []domain.RawEntry
}

// HistoryStore persists ids of already-delivered articles.
// Implementations contain their own I/O failures.
type HistoryStore interface {
	Load(ctx context.Context) []string
	Save(ctx context.Context, ids []string)
}

// Summarizer turns candidates into a digest body.
type Summarizer interface {
	Summarize(ctx context.Context, candidates []domain.Candidate) (string, error)
}

// Notifier delivers the finished digest.
type Notifier interface {
	PublishDigest(ctx context.Context, subject, body string) error
}

// RunGuard decides whether a scheduled tick should do any work.
type RunGuard interface {
	Allow(now time.Time) (bool, string)
}

// Metrics receives run-level counters.
type Metrics interface {
	ObserveFeed(url string, entries int, err error)
	ObserveDecision(reason domain.Reason)
	ObserveRun(state domain.RunState, candidates int)
}
