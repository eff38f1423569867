package filter

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"AirworthinessDigest/internal/domain"
)

var cutoff = time.Date(2026, time.February, 15, 0, 0, 0, 0, time.UTC)

func at(t time.Time) *time.Time { return &t }

func newFilter(t *testing.T, include, exclude []string) *Relevance {
	t.Helper()

	f, err := New(Rules{
		Cutoff:        cutoff,
		Include:       include,
		Exclude:       exclude,
		PrimaryFeeds:  []string{"tc.gc.ca"},
		PrimaryTitles: []string{`CF-`},
	})
	require.NoError(t, err)
	return f
}

func TestScenarioAcceptsOnlyRecentRelevantEntry(t *testing.T) {
	t.Parallel()

	f := newFilter(t, []string{"airworthiness"}, []string{"stock"})
	entries := []domain.RawEntry{
		{GUID: "A", Published: at(cutoff.AddDate(0, 0, -1)), Title: "routine flight"},
		{GUID: "B", Published: at(cutoff.AddDate(0, 0, 1)), Title: "airworthiness directive CF-2026-01"},
	}

	res := f.Apply(entries, nil)

	require.Len(t, res.Candidates, 1)
	assert.Equal(t, "B", res.Candidates[0].ID)
	assert.True(t, res.Candidates[0].IsPrimary, "CF- title marks the entry as primary")
	assert.Equal(t, []string{"B"}, res.NewIDs)
	assert.Equal(t, domain.ReasonBeforeCutoff, res.Decisions[0].Reason)
	assert.Equal(t, domain.ReasonAccepted, res.Decisions[1].Reason)
}

func TestCutoffBoundary(t *testing.T) {
	t.Parallel()

	f := newFilter(t, []string{"directive"}, nil)
	entries := []domain.RawEntry{
		{GUID: "exact", Published: at(cutoff), Title: "directive"},
		{GUID: "before", Published: at(cutoff.Add(-time.Microsecond)), Title: "directive"},
		{GUID: "undated", Title: "directive"},
	}

	res := f.Apply(entries, nil)

	assert.Equal(t, []string{"exact", "undated"}, res.NewIDs)
	assert.Equal(t, domain.ReasonBeforeCutoff, res.Decisions[1].Reason)
}

func TestExclusionWinsOverInclusion(t *testing.T) {
	t.Parallel()

	f := newFilter(t, []string{"airworthiness"}, []string{"stock"})
	res := f.Apply([]domain.RawEntry{
		{GUID: "X", Title: "Airworthiness news moves STOCK price"},
	}, nil)

	assert.Empty(t, res.Candidates)
	assert.Empty(t, res.NewIDs)
	require.Len(t, res.Decisions, 1)
	assert.Equal(t, domain.ReasonExcluded, res.Decisions[0].Reason)
	assert.Equal(t, "stock", res.Decisions[0].Keyword)
}

func TestKeywordsMatchSummaryCaseInsensitively(t *testing.T) {
	t.Parallel()

	f := newFilter(t, []string{"Global Express"}, nil)
	res := f.Apply([]domain.RawEntry{
		{GUID: "1", Title: "Inspection", Summary: "applies to the GLOBAL EXPRESS fleet"},
		{GUID: "2", Title: "Unrelated", Summary: "nothing to see"},
	}, nil)

	assert.Equal(t, []string{"1"}, res.NewIDs)
	assert.Equal(t, domain.ReasonNotRelevant, res.Decisions[1].Reason)
}

func TestHistoryEntriesNeverResurface(t *testing.T) {
	t.Parallel()

	f := newFilter(t, []string{"directive"}, nil)
	history := []string{"A", "https://example.org/b"}
	entries := []domain.RawEntry{
		{GUID: "A", Title: "directive, revised text"},
		{Link: "https://example.org/b", Title: "directive"},
		{GUID: "C", Title: "directive"},
	}

	res := f.Apply(entries, history)

	assert.Equal(t, []string{"C"}, res.NewIDs)
	assert.Equal(t, domain.ReasonDuplicate, res.Decisions[0].Reason)
	assert.Equal(t, domain.ReasonDuplicate, res.Decisions[1].Reason)
	assert.Equal(t, []string{"A", "https://example.org/b"}, history, "history is read only")
}

func TestSameIDTwiceInOneRunIsDuplicate(t *testing.T) {
	t.Parallel()

	f := newFilter(t, []string{"directive"}, nil)
	res := f.Apply([]domain.RawEntry{
		{GUID: "A", Title: "directive", FeedURL: "https://faa.example.org"},
		{GUID: "A", Title: "directive", FeedURL: "https://easa.example.org"},
	}, nil)

	assert.Equal(t, []string{"A"}, res.NewIDs)
	assert.Equal(t, domain.ReasonDuplicate, res.Decisions[1].Reason)
}

func TestApplyIsIdempotentWithoutCommit(t *testing.T) {
	t.Parallel()

	f := newFilter(t, []string{"directive", "safety"}, []string{"quarterly"})
	history := []string{"old"}
	entries := []domain.RawEntry{
		{GUID: "old", Title: "directive"},
		{GUID: "n1", Title: "safety bulletin"},
		{GUID: "n2", Title: "quarterly safety results"},
		{Link: "https://example.org/n3", Title: "directive", Published: at(cutoff.AddDate(0, 1, 0))},
	}

	first := f.Apply(entries, history)
	second := f.Apply(entries, history)

	if diff := cmp.Diff(first.Candidates, second.Candidates); diff != "" {
		t.Fatalf("candidates differ between runs (-first +second):\n%s", diff)
	}
	assert.Equal(t, first.NewIDs, second.NewIDs)
	assert.Equal(t, []string{"n1", "https://example.org/n3"}, first.NewIDs)
}

func TestIdentityPreference(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "guid", Identity(domain.RawEntry{GUID: "guid", Link: "link", Title: "title"}))
	assert.Equal(t, "link", Identity(domain.RawEntry{GUID: "  ", Link: "link", Title: "title"}))
	assert.Equal(t, "title", Identity(domain.RawEntry{Title: "title"}))
	assert.Equal(t, "", Identity(domain.RawEntry{Summary: "only a summary"}))
}

func TestMissingIdentityIsSkipped(t *testing.T) {
	t.Parallel()

	f := newFilter(t, []string{"directive"}, nil)
	res := f.Apply([]domain.RawEntry{{Summary: "directive without any identity"}}, nil)

	assert.Empty(t, res.Candidates)
	assert.Equal(t, domain.ReasonMissingID, res.Decisions[0].Reason)
	assert.Equal(t, map[domain.Reason]int{domain.ReasonMissingID: 1}, res.Counts())
}

func TestPrimaryTagging(t *testing.T) {
	t.Parallel()

	f := newFilter(t, []string{"directive"}, nil)
	res := f.Apply([]domain.RawEntry{
		{GUID: "1", Title: "directive", FeedURL: "https://wwwapps.tc.gc.ca/rss"},
		{GUID: "2", Title: "CF-2026-07 directive", FeedURL: "https://faa.example.org"},
		{GUID: "3", Title: "directive", FeedURL: "https://easa.example.org"},
	}, nil)

	require.Len(t, res.Candidates, 3)
	assert.True(t, res.Candidates[0].IsPrimary)
	assert.True(t, res.Candidates[1].IsPrimary)
	assert.False(t, res.Candidates[2].IsPrimary)
}

func TestNewRejectsBadPattern(t *testing.T) {
	t.Parallel()

	_, err := New(Rules{PrimaryTitles: []string{"("}})
	assert.Error(t, err)
}
