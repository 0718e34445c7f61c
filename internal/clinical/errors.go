package clinical

import "fmt"

// ValidationError rejects a request that carries an empty or malformed
// required field. The store is left unchanged.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("clinical: %s %s", e.Field, e.Reason)
}

// NotFoundError rejects a request naming an unknown patient or action.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("clinical: %s %s not found", e.Kind, e.ID)
}

// UnauthorizedError rejects a transition requested by a role that is
// neither the owning department nor a doctor.
type UnauthorizedError struct {
	Role       Role
	Department Role
}

func (e *UnauthorizedError) Error() string {
	return fmt.Sprintf("clinical: role %s may not act on %s department work", e.Role, e.Department)
}

// InvalidTransitionError rejects a status change the lifecycle does not
// permit, identifying both ends of the attempted move.
type InvalidTransitionError struct {
	From ActionStatus
	To   ActionStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("clinical: cannot move action from %s to %s", e.From, e.To)
}
