package clinical

import (
	"fmt"
	"strings"
	"time"
)

// Role identifies both an acting user and the department that owns work.
type Role string

const (
	RoleDoctor     Role = "doctor"
	RoleNurse      Role = "nurse"
	RolePharmacist Role = "pharmacist"
	RoleDiagnostic Role = "diagnostic"
)

// Roles lists every role in display order.
func Roles() []Role {
	return []Role{RoleDoctor, RoleNurse, RolePharmacist, RoleDiagnostic}
}

// Valid reports whether the role is one of the closed set.
func (r Role) Valid() bool {
	switch r {
	case RoleDoctor, RoleNurse, RolePharmacist, RoleDiagnostic:
		return true
	default:
		return false
	}
}

// Display returns the human-facing department name.
func (r Role) Display() string {
	switch r {
	case RoleDoctor:
		return "Doctor"
	case RoleNurse:
		return "Nurse"
	case RolePharmacist:
		return "Pharmacy"
	case RoleDiagnostic:
		return "Diagnostics"
	default:
		return string(r)
	}
}

// ParseRole normalizes free-form input into a Role.
func ParseRole(value string) (Role, error) {
	role := Role(strings.ToLower(strings.TrimSpace(value)))
	if !role.Valid() {
		return "", fmt.Errorf("clinical: unknown role %q", value)
	}
	return role, nil
}

// ActionType categorizes a clinical action and drives routing.
type ActionType string

const (
	TypePrescription      ActionType = "prescription"
	TypeDiagnosticRequest ActionType = "diagnostic_request"
	TypeCareInstruction   ActionType = "care_instruction"
	TypeVitalCheck        ActionType = "vital_check"
	TypeReferral          ActionType = "referral"
)

// ActionTypes lists every action type in the order the intake form offers them.
func ActionTypes() []ActionType {
	return []ActionType{
		TypeCareInstruction,
		TypePrescription,
		TypeDiagnosticRequest,
		TypeReferral,
		TypeVitalCheck,
	}
}

// Valid reports whether the action type is one of the closed set.
func (t ActionType) Valid() bool {
	switch t {
	case TypePrescription, TypeDiagnosticRequest, TypeCareInstruction, TypeVitalCheck, TypeReferral:
		return true
	default:
		return false
	}
}

// Display returns the human-facing action type label.
func (t ActionType) Display() string {
	switch t {
	case TypePrescription:
		return "Prescription"
	case TypeDiagnosticRequest:
		return "Diagnostic Request"
	case TypeCareInstruction:
		return "Care Instruction"
	case TypeVitalCheck:
		return "Vital Check"
	case TypeReferral:
		return "Referral"
	default:
		return string(t)
	}
}

// ParseActionType normalizes free-form input into an ActionType.
func ParseActionType(value string) (ActionType, error) {
	t := ActionType(strings.ToLower(strings.TrimSpace(value)))
	if !t.Valid() {
		return "", fmt.Errorf("clinical: unknown action type %q", value)
	}
	return t, nil
}

// ActionStatus tracks an action through its lifecycle.
type ActionStatus string

const (
	StatusPending    ActionStatus = "pending"
	StatusInProgress ActionStatus = "in_progress"
	StatusCompleted  ActionStatus = "completed"
	StatusCancelled  ActionStatus = "cancelled"
)

// Valid reports whether the status is one of the closed set.
func (s ActionStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	default:
		return false
	}
}

// Terminal reports whether the status permits no further transitions.
func (s ActionStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Display returns the human-facing status label.
func (s ActionStatus) Display() string {
	switch s {
	case StatusPending:
		return "Pending"
	case StatusInProgress:
		return "In Progress"
	case StatusCompleted:
		return "Completed"
	case StatusCancelled:
		return "Cancelled"
	default:
		return string(s)
	}
}

// ParseActionStatus normalizes free-form input into an ActionStatus.
func ParseActionStatus(value string) (ActionStatus, error) {
	s := ActionStatus(strings.ToLower(strings.TrimSpace(value)))
	if !s.Valid() {
		return "", fmt.Errorf("clinical: unknown action status %q", value)
	}
	return s, nil
}

// ClinicalAction is a discrete unit of ordered care work tracked from
// request to completion. Department is stamped once at creation by the
// routing rule; Status is the only field the lifecycle may move.
type ClinicalAction struct {
	ID          string       `yaml:"id" json:"id"`
	Type        ActionType   `yaml:"type" json:"type"`
	Title       string       `yaml:"title" json:"title"`
	Description string       `yaml:"description" json:"description"`
	Department  Role         `yaml:"department" json:"department"`
	Status      ActionStatus `yaml:"status" json:"status"`
	RequestedBy string       `yaml:"requested_by" json:"requested_by"`
	RequestedAt time.Time    `yaml:"requested_at" json:"requested_at"`
	CompletedAt *time.Time   `yaml:"completed_at,omitempty" json:"completed_at,omitempty"`
	Results     string       `yaml:"results,omitempty" json:"results,omitempty"`
}

// Clone returns an independent copy of the action.
func (a ClinicalAction) Clone() ClinicalAction {
	out := a
	if a.CompletedAt != nil {
		done := *a.CompletedAt
		out.CompletedAt = &done
	}
	return out
}

// Validate enforces the entity invariants after creation.
func (a ClinicalAction) Validate() error {
	if strings.TrimSpace(a.ID) == "" {
		return &ValidationError{Field: "id", Reason: "is required"}
	}
	if !a.Type.Valid() {
		return &ValidationError{Field: "type", Reason: fmt.Sprintf("unknown value %q", a.Type)}
	}
	if strings.TrimSpace(a.Title) == "" {
		return &ValidationError{Field: "title", Reason: "is required"}
	}
	if strings.TrimSpace(a.Description) == "" {
		return &ValidationError{Field: "description", Reason: "is required"}
	}
	if !a.Department.Valid() {
		return &ValidationError{Field: "department", Reason: fmt.Sprintf("unknown value %q", a.Department)}
	}
	if !a.Status.Valid() {
		return &ValidationError{Field: "status", Reason: fmt.Sprintf("unknown value %q", a.Status)}
	}
	if (a.CompletedAt != nil) != (a.Status == StatusCompleted) {
		return &ValidationError{Field: "completed_at", Reason: "must be set exactly when status is completed"}
	}
	return nil
}
