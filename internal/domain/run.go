package domain

// RunState enumerates orchestrator milestones.
type RunState string

const (
	StateIdle        RunState = "idle"
	StateSkipped     RunState = "skipped"
	StateFetching    RunState = "fetching"
	StateFiltering   RunState = "filtering"
	StateSummarizing RunState = "summarizing"
	StateDelivering  RunState = "delivering"
	StateCommitting  RunState = "committing_history"
	StateDone        RunState = "done"
	StateFailed      RunState = "failed"
)

// Report captures the observable outcome of a single run.
type Report struct {
	RunID      string
	State      RunState
	Candidates []Candidate
	NewIDs     []string
	Decisions  []Decision
	Digest     Digest
	Delivered  bool
	Committed  bool
}
