package maintenance

import "time"

// transitions lists the permitted target statuses for each non-terminal status.
var transitions = map[Status][]Status{
	StatusPending:    {StatusInProgress, StatusCompleted, StatusCancelled},
	StatusInProgress: {StatusCompleted, StatusCancelled},
}

// CanTransition reports whether a request in status from may move to status to.
// Resubmitting the current status is always allowed.
func CanTransition(from, to Status) bool {
	if from == to {
		return true
	}

	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}

	return false
}

// Transition moves req to status to and returns the updated copy.
//
// Resubmitting the current status returns req unchanged and a nil error; the
// caller can compare statuses to skip the write. Leaving a terminal status or
// moving backwards fails with a *TransitionError and req is left as is.
// CompletedAt is stamped on the first entry into completed and never cleared.
func Transition(req Request, to Status, now time.Time) (Request, error) {
	if !to.Valid() {
		return req, Invalid("status", "must be one of pending, in_progress, completed, cancelled")
	}

	if req.Status == to {
		return req, nil
	}

	if !CanTransition(req.Status, to) {
		return req, &TransitionError{From: req.Status, To: to}
	}

	patch := TransitionPatch(req, to, now)

	return patch.ApplyTo(req, now), nil
}

// TransitionPatch returns the store patch that records a transition of req to
// status to. It does not check legality; use Transition for that.
func TransitionPatch(req Request, to Status, now time.Time) Patch {
	p := Patch{Status: &to}

	if to == StatusCompleted && req.CompletedAt == nil {
		completedAt := now
		p.CompletedAt = &completedAt
	}

	return p
}
