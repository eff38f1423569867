package domain

import "time"

// RawEntry is a single feed item as produced by the ingestion step.
type RawEntry struct {
	GUID      string
	Title     string
	Link      string
	Summary   string
	Published *time.Time
	FeedURL   string
}

// Candidate is an entry that survived filtering and is ready for the digest.
type Candidate struct {
	ID        string
	Title     string
	Link      string
	Summary   string
	FeedURL   string
	Published *time.Time
	IsPrimary bool
}

// Digest is the summarized body plus the subject it is delivered under.
type Digest struct {
	Subject  string
	Body     string
	Articles int
}

// Reason explains the outcome of filtering a single entry.
type Reason string

const (
	ReasonAccepted     Reason = "accepted"
	ReasonMissingID    Reason = "missing_id"
	ReasonDuplicate    Reason = "duplicate"
	ReasonBeforeCutoff Reason = "before_cutoff"
	ReasonExcluded     Reason = "excluded"
	ReasonNotRelevant  Reason = "not_relevant"
)

// Decision records what the filter did with one entry.
// Keyword is set for excluded and accepted entries.
type Decision struct {
	Entry   RawEntry
	ID      string
	Reason  Reason
	Keyword string
}

// Accepted reports whether the entry made it into the digest.
func (d Decision) Accepted() bool {
	return d.Reason == ReasonAccepted
}
