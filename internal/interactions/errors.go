package interactions

import "fmt"

// NotFoundError reports that the named entity did not resolve to a document.
// The entity name is user-facing: "User not found" and "Post not found" are
// distinct outcomes and handlers must keep them distinct.
type NotFoundError struct {
	Entity string
}

func (e *NotFoundError) Error() string {
	return e.Entity + " not found"
}

// MalformedIDError reports that an id failed the store's identifier format.
// It maps to the same user-facing outcome as NotFoundError.
type MalformedIDError struct {
	Entity string
	ID     string
}

func (e *MalformedIDError) Error() string {
	return fmt.Sprintf("%s id %q is not a valid identifier", e.Entity, e.ID)
}

// PartialWriteError reports that the actor-side write of a toggle succeeded
// but the target-side counter write failed. The two documents are out of sync
// until the next toggle of the same pair or a reconciliation sweep repairs
// them; callers must not report success and should re-query before trusting
// the like-state.
type PartialWriteError struct {
	Applied string
	Failed  string
	Err     error
}

func (e *PartialWriteError) Error() string {
	return fmt.Sprintf("partial write: %s applied but %s failed: %v", e.Applied, e.Failed, e.Err)
}

func (e *PartialWriteError) Unwrap() error {
	return e.Err
}

// ContentionError reports that a toggle kept losing the conditional update to
// concurrent toggles of the same pair and gave up. No state was changed by
// this call.
type ContentionError struct {
	Attempts int
}

func (e *ContentionError) Error() string {
	return fmt.Sprintf("toggle abandoned after %d contended attempts", e.Attempts)
}
