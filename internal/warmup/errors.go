package warmup

import "errors"

// ErrCampaignNotFound is returned by status and health checks when the
// campaign does not exist or is not owned by the caller.
var ErrCampaignNotFound = errors.New("campaign not found")

// ValidationError reports a precondition that failed before any state was
// mutated. Safe to retry after fixing the input.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + e.Reason
}

// StateConflictError reports an operation attempted in the wrong warm-up
// state, with enough detail for the caller to display actionable guidance.
type StateConflictError struct {
	Reason string
}

func (e *StateConflictError) Error() string {
	return "state conflict: " + e.Reason
}

// SendFailure is one recipient's failure inside a batch. Collected, never
// returned as an error; one recipient failing must not block the rest.
type SendFailure struct {
	Email string `json:"email"`
	Error string `json:"error"`
}
