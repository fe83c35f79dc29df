package metrics

import "time"

// OutcomeLabel enumerates operation outcome categories for counters.
type OutcomeLabel string

const (
	OutcomeSuccess  OutcomeLabel = "success"
	OutcomeFailed   OutcomeLabel = "failed"
	OutcomeRejected OutcomeLabel = "rejected"
	OutcomeDryRun   OutcomeLabel = "dry_run"
)

// Recorder defines observability hooks for snapshot operations.
type Recorder interface {
	ObserveOperationDuration(operation string, d time.Duration)
	IncOperationOutcome(operation string, outcome OutcomeLabel)
	AddPagesCopied(n int)
	AddBytesCopied(n int64)
	SetVersions(n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveOperationDuration(string, time.Duration) {}
func (NoopRecorder) IncOperationOutcome(string, OutcomeLabel)       {}
func (NoopRecorder) AddPagesCopied(int)                             {}
func (NoopRecorder) AddBytesCopied(int64)                           {}
func (NoopRecorder) SetVersions(int)                                {}
