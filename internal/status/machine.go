package status

import "fmt"

// Status is the lifecycle state of an order as the external order service
// reports it.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// IsValid reports whether s is one of the known lifecycle statuses.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no transition may leave s.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// transitions defines the valid status transitions.
// The key is the current status, and the value is the set of targets a
// finalization may request from it. Terminal statuses have no entries.
var transitions = map[Status][]Status{
	StatusPending:    {StatusInProgress, StatusCancelled},
	StatusInProgress: {StatusCompleted},
	StatusCompleted:  {}, // terminal
	StatusCancelled:  {}, // terminal
}

// AllowedTargets returns the statuses reachable from current. The returned
// slice is a copy; callers may mutate it.
func AllowedTargets(current Status) []Status {
	allowed, ok := transitions[current]
	if !ok {
		return []Status{}
	}
	out := make([]Status, len(allowed))
	copy(out, allowed)
	return out
}

// CanTransition reports whether current -> target is in the transition table.
func CanTransition(current, target Status) bool {
	allowed, ok := transitions[current]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s == target {
			return true
		}
	}
	return false
}

// InvalidTransitionError identifies a rejected status transition.
type InvalidTransitionError struct {
	Current   Status
	Requested Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition: %s -> %s", e.Current, e.Requested)
}

// Resolve applies the redirection rule and validates the requested target.
//
// Completion may never be reached directly from pending; the order must pass
// through in_progress first. Requesting completed while pending is therefore
// redirected to in_progress, and delivered is forced back to false since the
// product cannot have been handed over on an order still in production. Every
// other request outside the transition table is rejected with
// *InvalidTransitionError.
func Resolve(current, requested Status, delivered bool) (Status, bool, error) {
	if current == StatusPending && requested == StatusCompleted {
		return StatusInProgress, false, nil
	}
	if !CanTransition(current, requested) {
		return "", false, &InvalidTransitionError{Current: current, Requested: requested}
	}
	return requested, delivered, nil
}

// ForceCancel is the "customer walked away" escape hatch: it permits
// cancelling an order that is already in_progress, which the transition table
// deliberately does not. It exists as a separately named operation so the
// bypass stays visible at call sites instead of widening the table.
//
// TODO: pending product decision on whether in_progress -> cancelled should
// become a first-class table entry (see DESIGN.md).
func ForceCancel(current Status) (Status, error) {
	if current.IsTerminal() {
		return "", &InvalidTransitionError{Current: current, Requested: StatusCancelled}
	}
	return StatusCancelled, nil
}
