package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// tag does not exist in the store.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. blank damage reason, unknown status filter).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrDuplicate is returned by the repo's Create when a tag already exists
// for the same item. Duplicate issuance is rejected, never merged.
// Handlers should map this to HTTP 409 Conflict.
var ErrDuplicate = errors.New("duplicate tag")

// ErrNoOp is returned when a requested transition would not change state,
// such as reporting an already-damaged tag damaged again. Duplicate reports
// are rejected rather than silently accepted so the caller can see them.
// Handlers should map this to HTTP 409 Conflict.
var ErrNoOp = errors.New("no state change")

// ErrNothingToDo is returned by the batch coordinator when its predicate
// matched zero records. It is a distinct outcome, not a failure — callers
// should present "nothing to replace" rather than an empty success.
var ErrNothingToDo = errors.New("nothing to do")
