package parser

import (
	"context"
	"log/slog"

	"AirworthinessDigest/internal/domain"
	"AirworthinessDigest/internal/ports"
)

// Fetcher retrieves the entries of one feed.
type Fetcher interface {
	Fetch(ctx context.Context, feedURL string) ([]domain.RawEntry, error)
}

// FeedSource implements ports.FeedSource over a fixed, ordered list of feeds.
type FeedSource struct {
	fetcher Fetcher
	feeds   []string
	metrics ports.Metrics
	logger  *slog.Logger
}

var _ ports.FeedSource = (*FeedSource)(nil)

// NewFeedSource wires a fetcher with config-defined feed URLs. metrics may be nil.
func NewFeedSource(fetcher Fetcher, feeds []string, metrics ports.Metrics, log *slog.Logger) *FeedSource {
	return &FeedSource{
		fetcher: fetcher,
		feeds:   feeds,
		metrics: metrics,
		logger:  log,
	}
}

// FetchAll walks feeds sequentially. A failing feed is logged and contributes nothing.
func (s *FeedSource) FetchAll(ctx context.Context) []domain.RawEntry {
	s.debug(ctx, "fetch feeds", "feeds", len(s.feeds))

	var aggregated []domain.RawEntry
	for _, feedURL := range s.feeds {
		entries, err := s.fetcher.Fetch(ctx, feedURL)
		if s.metrics != nil {
			s.metrics.ObserveFeed(feedURL, len(entries), err)
		}
		if err != nil {
			if s.logger != nil {
				s.logger.ErrorContext(ctx, "error fetching feed", "url", feedURL, "error", err)
			}
			continue
		}

		s.debug(ctx, "feed produced entries", "url", feedURL, "count", len(entries))
		aggregated = append(aggregated, entries...)
	}

	s.debug(ctx, "feed source done", "total_entries", len(aggregated))
	return aggregated
}

func (s *FeedSource) debug(ctx context.Context, msg string, args ...interface{}) {
	if s.logger != nil {
		s.logger.DebugContext(ctx, msg, args...)
	}
}
