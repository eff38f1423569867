package parser

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"AirworthinessDigest/internal/domain"
)

const defaultUserAgent = "AirworthinessDigest/1.0"

// RSSFetcher downloads and parses a single RSS/Atom feed.
type RSSFetcher struct {
	parser *gofeed.Parser
}

// NewRSSFetcher wires an HTTP client; a nil client gets a 30s timeout.
func NewRSSFetcher(client *http.Client, userAgent string) *RSSFetcher {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	fp := gofeed.NewParser()
	fp.Client = client
	fp.UserAgent = userAgent
	return &RSSFetcher{parser: fp}
}

// Fetch returns the feed's entries in native order.
func (f *RSSFetcher) Fetch(ctx context.Context, feedURL string) ([]domain.RawEntry, error) {
	feed, err := f.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse feed %s: %w", feedURL, err)
	}
	return toEntries(feed, feedURL), nil
}

func toEntries(feed *gofeed.Feed, feedURL string) []domain.RawEntry {
	if feed == nil {
		return nil
	}

	entries := make([]domain.RawEntry, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item == nil {
			continue
		}

		summary := item.Description
		if strings.TrimSpace(summary) == "" {
			summary = item.Content
		}

		var published *time.Time
		if item.PublishedParsed != nil {
			t := item.PublishedParsed.UTC()
			published = &t
		}

		entries = append(entries, domain.RawEntry{
			GUID:      strings.TrimSpace(item.GUID),
			Title:     strings.TrimSpace(item.Title),
			Link:      strings.TrimSpace(item.Link),
			Summary:   plainText(summary),
			Published: published,
			FeedURL:   feedURL,
		})
	}
	return entries
}

// plainText strips markup from feed descriptions and collapses whitespace.
func plainText(fragment string) string {
	if !strings.ContainsAny(fragment, "<&") {
		return strings.Join(strings.Fields(fragment), " ")
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return strings.Join(strings.Fields(fragment), " ")
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}
