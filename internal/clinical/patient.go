package clinical

import (
	"fmt"
	"strings"
	"time"
)

// VitalReading is an immutable snapshot of a patient's vitals. Readings
// form an append-only, chronological sequence per patient.
type VitalReading struct {
	Timestamp        time.Time `yaml:"timestamp" json:"timestamp"`
	BloodPressure    string    `yaml:"blood_pressure" json:"blood_pressure"`
	HeartRate        int       `yaml:"heart_rate" json:"heart_rate"`
	Temperature      float64   `yaml:"temperature" json:"temperature"`
	OxygenSaturation int       `yaml:"oxygen_saturation" json:"oxygen_saturation"`
}

// Validate enforces the reading invariants.
func (v VitalReading) Validate() error {
	if v.Timestamp.IsZero() {
		return &ValidationError{Field: "timestamp", Reason: "is required"}
	}
	if strings.TrimSpace(v.BloodPressure) == "" {
		return &ValidationError{Field: "blood_pressure", Reason: "is required"}
	}
	if !strings.Contains(v.BloodPressure, "/") {
		return &ValidationError{Field: "blood_pressure", Reason: `must use the "systolic/diastolic" form`}
	}
	if v.HeartRate <= 0 {
		return &ValidationError{Field: "heart_rate", Reason: "must be a positive bpm value"}
	}
	if v.OxygenSaturation < 0 || v.OxygenSaturation > 100 {
		return &ValidationError{Field: "oxygen_saturation", Reason: "must be a percentage between 0 and 100"}
	}
	return nil
}

// Patient is an admitted patient and the exclusive owner of its actions
// and vitals. Patients enter the system at seed time; admission and
// discharge are not modeled.
type Patient struct {
	ID              string           `yaml:"id" json:"id"`
	Name            string           `yaml:"name" json:"name"`
	Age             int              `yaml:"age" json:"age"`
	Gender          string           `yaml:"gender" json:"gender"`
	BloodGroup      string           `yaml:"blood_group" json:"blood_group"`
	AdmissionDate   time.Time        `yaml:"admission_date" json:"admission_date"`
	RoomNumber      string           `yaml:"room_number" json:"room_number"`
	AttendingDoctor string           `yaml:"attending_doctor" json:"attending_doctor"`
	Diagnosis       string           `yaml:"diagnosis" json:"diagnosis"`
	Actions         []ClinicalAction `yaml:"actions" json:"actions"`
	Vitals          []VitalReading   `yaml:"vitals" json:"vitals"`
}

// Clone returns a deep copy so callers can never mutate store-owned state.
func (p Patient) Clone() Patient {
	out := p
	if len(p.Actions) > 0 {
		out.Actions = make([]ClinicalAction, len(p.Actions))
		for i, action := range p.Actions {
			out.Actions[i] = action.Clone()
		}
	}
	if len(p.Vitals) > 0 {
		out.Vitals = make([]VitalReading, len(p.Vitals))
		copy(out.Vitals, p.Vitals)
	}
	return out
}

// LatestVital returns the most recent reading. The second return is
// false when the patient has no readings yet; vitals-dependent display
// must check it before rendering.
func (p Patient) LatestVital() (VitalReading, bool) {
	if len(p.Vitals) == 0 {
		return VitalReading{}, false
	}
	return p.Vitals[len(p.Vitals)-1], true
}

// PendingCount counts actions that still need work (non-terminal status).
func (p Patient) PendingCount() int {
	count := 0
	for _, action := range p.Actions {
		if !action.Status.Terminal() {
			count++
		}
	}
	return count
}

// Action finds an action owned by this patient.
func (p Patient) Action(id string) (ClinicalAction, bool) {
	for _, action := range p.Actions {
		if action.ID == id {
			return action.Clone(), true
		}
	}
	return ClinicalAction{}, false
}

// Validate enforces the patient invariants, including per-action
// validity and action id uniqueness within the patient.
func (p Patient) Validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return &ValidationError{Field: "id", Reason: "is required"}
	}
	if strings.TrimSpace(p.Name) == "" {
		return &ValidationError{Field: "name", Reason: "is required"}
	}
	seen := make(map[string]struct{}, len(p.Actions))
	for i, action := range p.Actions {
		if err := action.Validate(); err != nil {
			return fmt.Errorf("clinical: patient %s action[%d]: %w", p.ID, i, err)
		}
		if _, dup := seen[action.ID]; dup {
			return fmt.Errorf("clinical: patient %s: duplicate action id %s", p.ID, action.ID)
		}
		seen[action.ID] = struct{}{}
	}
	for i, vital := range p.Vitals {
		if err := vital.Validate(); err != nil {
			return fmt.Errorf("clinical: patient %s vitals[%d]: %w", p.ID, i, err)
		}
		if i > 0 && vital.Timestamp.Before(p.Vitals[i-1].Timestamp) {
			return fmt.Errorf("clinical: patient %s vitals[%d]: readings must be chronological", p.ID, i)
		}
	}
	return nil
}
