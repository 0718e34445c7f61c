package clinical

import "time"

// Lifecycle: Pending is the initial status, Completed and Cancelled are
// terminal. Completion stamps CompletedAt; nothing else may.
//
//	Pending ──▶ InProgress ──▶ Completed
//	   │             │
//	   └──▶ Cancelled ◀──┘

// CanTransition reports whether the lifecycle permits moving from one
// status to another.
func CanTransition(from, to ActionStatus) bool {
	switch from {
	case StatusPending:
		return to == StatusInProgress || to == StatusCancelled
	case StatusInProgress:
		return to == StatusCompleted || to == StatusCancelled
	default:
		return false
	}
}

// Authorize applies the visibility guard: the requesting role must own
// the action's department, or be a doctor, who has override authority
// over every department's work.
func Authorize(as Role, department Role) error {
	if as == RoleDoctor || as == department {
		return nil
	}
	return &UnauthorizedError{Role: as, Department: department}
}

// Transition returns a copy of the action moved to the requested
// status. The authorization guard runs before the lifecycle check; a
// rejected request leaves the input untouched, so callers can apply
// the result atomically.
func Transition(action ClinicalAction, to ActionStatus, as Role, now time.Time) (ClinicalAction, error) {
	if err := Authorize(as, action.Department); err != nil {
		return ClinicalAction{}, err
	}
	if !to.Valid() {
		return ClinicalAction{}, &ValidationError{Field: "status", Reason: "unknown value"}
	}
	if !CanTransition(action.Status, to) {
		return ClinicalAction{}, &InvalidTransitionError{From: action.Status, To: to}
	}
	updated := action.Clone()
	updated.Status = to
	if to == StatusCompleted {
		done := now
		updated.CompletedAt = &done
	}
	return updated, nil
}
