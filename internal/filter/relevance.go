// Package filter decides which feed entries are worth a digest.
package filter

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"AirworthinessDigest/internal/domain"
)

// Rules are the static inputs of the relevance filter.
type Rules struct {
	Cutoff        time.Time
	Include       []string
	Exclude       []string
	PrimaryFeeds  []string
	PrimaryTitles []string
}

// Result is the outcome of one filtering pass.
type Result struct {
	Candidates []domain.Candidate
	NewIDs     []string
	Decisions  []domain.Decision
}

// Counts tallies decisions by reason.
func (r Result) Counts() map[domain.Reason]int {
	counts := make(map[domain.Reason]int, len(r.Decisions))
	for _, d := range r.Decisions {
		counts[d.Reason]++
	}
	return counts
}

// Relevance applies identity, dedupe, cutoff, keyword and primary-source rules.
type Relevance struct {
	cutoff        time.Time
	include       []string
	exclude       []string
	primaryFeeds  []string
	primaryTitles []*regexp.Regexp
}

// New compiles rules; keywords are matched case-insensitively.
func New(rules Rules) (*Relevance, error) {
	titles := make([]*regexp.Regexp, 0, len(rules.PrimaryTitles))
	for _, p := range rules.PrimaryTitles {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("compile primary title pattern %q: %w", p, err)
		}
		titles = append(titles, re)
	}

	return &Relevance{
		cutoff:        rules.Cutoff,
		include:       lowerAll(rules.Include),
		exclude:       lowerAll(rules.Exclude),
		primaryFeeds:  rules.PrimaryFeeds,
		primaryTitles: titles,
	}, nil
}

// Apply filters entries against the loaded history. It never mutates history.
// Candidates and NewIDs preserve input order.
func (f *Relevance) Apply(entries []domain.RawEntry, history []string) Result {
	seen := make(map[string]struct{}, len(history)+len(entries))
	for _, id := range history {
		seen[id] = struct{}{}
	}

	res := Result{
		Candidates: []domain.Candidate{},
		NewIDs:     []string{},
		Decisions:  make([]domain.Decision, 0, len(entries)),
	}
	for _, entry := range entries {
		decision := f.Evaluate(entry, seen)
		res.Decisions = append(res.Decisions, decision)
		if !decision.Accepted() {
			continue
		}

		seen[decision.ID] = struct{}{}
		res.NewIDs = append(res.NewIDs, decision.ID)
		res.Candidates = append(res.Candidates, domain.Candidate{
			ID:        decision.ID,
			Title:     entry.Title,
			Link:      entry.Link,
			Summary:   entry.Summary,
			FeedURL:   entry.FeedURL,
			Published: entry.Published,
			IsPrimary: f.IsPrimary(entry),
		})
	}
	return res
}

// Evaluate runs the per-entry rules in order and stops at the first disqualifier.
func (f *Relevance) Evaluate(entry domain.RawEntry, seen map[string]struct{}) domain.Decision {
	id := Identity(entry)
	decision := domain.Decision{Entry: entry, ID: id}

	if id == "" {
		decision.Reason = domain.ReasonMissingID
		return decision
	}

	if _, ok := seen[id]; ok {
		decision.Reason = domain.ReasonDuplicate
		return decision
	}

	if entry.Published != nil && entry.Published.Before(f.cutoff) {
		decision.Reason = domain.ReasonBeforeCutoff
		return decision
	}

	text := strings.ToLower(entry.Title + " " + entry.Summary)
	if kw, ok := containsAny(text, f.exclude); ok {
		decision.Reason = domain.ReasonExcluded
		decision.Keyword = kw
		return decision
	}

	kw, ok := containsAny(text, f.include)
	if !ok {
		decision.Reason = domain.ReasonNotRelevant
		return decision
	}

	decision.Reason = domain.ReasonAccepted
	decision.Keyword = kw
	return decision
}

// IsPrimary reports whether an entry comes from an authoritative channel.
func (f *Relevance) IsPrimary(entry domain.RawEntry) bool {
	for _, sub := range f.primaryFeeds {
		if sub != "" && strings.Contains(entry.FeedURL, sub) {
			return true
		}
	}
	for _, re := range f.primaryTitles {
		if re.MatchString(entry.Title) {
			return true
		}
	}
	return false
}

// Identity picks the feed GUID, then the link, then the title.
func Identity(entry domain.RawEntry) string {
	for _, candidate := range []string{entry.GUID, entry.Link, entry.Title} {
		if v := strings.TrimSpace(candidate); v != "" {
			return v
		}
	}
	return ""
}

func containsAny(text string, keywords []string) (string, bool) {
	for _, kw := range keywords {
		if kw != "" && strings.Contains(text, kw) {
			return kw, true
		}
	}
	return "", false
}

func lowerAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, strings.ToLower(strings.TrimSpace(v)))
	}
	return out
}
