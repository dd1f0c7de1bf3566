package domain

import "github.com/google/uuid"

// BatchFailure records one record that could not be replaced during a batch,
// keyed by the tag's ID so the caller can drill into it afterwards.
type BatchFailure struct {
	ID  uuid.UUID
	Err error
}

// BatchResult is the aggregate outcome of one batch-replace invocation.
// The batch always runs to completion: a failing record is captured here and
// the remainder of the selection is still processed, so
// Succeeded + Failed equals the size of the original selection.
type BatchResult struct {
	Succeeded int
	Failed    int
	Failures  []BatchFailure
}

// ProgressFunc receives a running (processed, total) count after each record
// in a batch completes, success or failure. total is fixed at selection time.
// Implementations must be cheap — the coordinator calls it synchronously
// between records.
type ProgressFunc func(processed, total int)
