package clinical

import (
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

func samplePatient() Patient {
	admitted := time.Date(2024, 5, 15, 8, 30, 0, 0, time.UTC)
	done := admitted.Add(3 * time.Hour)
	return Patient{
		ID:              "P-1001",
		Name:            "Eleanor Vance",
		Age:             42,
		Gender:          "Female",
		BloodGroup:      "A+",
		AdmissionDate:   admitted,
		RoomNumber:      "402-A",
		AttendingDoctor: "Dr. Sarah Mitchell",
		Diagnosis:       "Acute Abdominal Pain - Post Operative Observation",
		Actions: []ClinicalAction{
			{
				ID:          "A-001",
				Type:        TypeCareInstruction,
				Title:       "NPO (Nothing by Mouth)",
				Description: "Patient must remain NPO until further notice.",
				Department:  RoleNurse,
				Status:      StatusInProgress,
				RequestedBy: "Dr. Sarah Mitchell",
				RequestedAt: admitted.Add(30 * time.Minute),
			},
			{
				ID:          "A-003",
				Type:        TypeDiagnosticRequest,
				Title:       "Full Abdominal CT Scan",
				Description: "Rule out post-op internal hemorrhage.",
				Department:  RoleDiagnostic,
				Status:      StatusCompleted,
				RequestedBy: "Dr. Sarah Mitchell",
				RequestedAt: admitted.Add(15 * time.Minute),
				CompletedAt: &done,
				Results:     "No active hemorrhage detected.",
			},
		},
		Vitals: []VitalReading{
			{Timestamp: admitted, BloodPressure: "120/80", HeartRate: 72, Temperature: 98.6, OxygenSaturation: 98},
			{Timestamp: admitted.Add(2 * time.Hour), BloodPressure: "118/76", HeartRate: 75, Temperature: 98.4, OxygenSaturation: 97},
		},
	}
}

func TestPatientValidate(t *testing.T) {
	patient := samplePatient()
	if err := patient.Validate(); err != nil {
		t.Fatalf("sample patient should be valid: %v", err)
	}

	dup := samplePatient()
	dup.Actions = append(dup.Actions, dup.Actions[0])
	if err := dup.Validate(); err == nil || !strings.Contains(err.Error(), "duplicate action id") {
		t.Fatalf("expected duplicate action id error, got %v", err)
	}

	outOfOrder := samplePatient()
	outOfOrder.Vitals[1].Timestamp = outOfOrder.Vitals[0].Timestamp.Add(-time.Hour)
	if err := outOfOrder.Validate(); err == nil || !strings.Contains(err.Error(), "chronological") {
		t.Fatalf("expected chronology error, got %v", err)
	}

	halfDone := samplePatient()
	halfDone.Actions[0].CompletedAt = &halfDone.Vitals[0].Timestamp
	if err := halfDone.Validate(); err == nil {
		t.Fatal("completed_at on a non-completed action must fail validation")
	}
}

func TestVitalReadingValidate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*VitalReading)
		wantErr bool
	}{
		{"valid", func(*VitalReading) {}, false},
		{"zero heart rate", func(v *VitalReading) { v.HeartRate = 0 }, true},
		{"oxygen above range", func(v *VitalReading) { v.OxygenSaturation = 101 }, true},
		{"malformed pressure", func(v *VitalReading) { v.BloodPressure = "120" }, true},
	}
	for _, tc := range cases {
		reading := VitalReading{
			Timestamp:        time.Now(),
			BloodPressure:    "120/80",
			HeartRate:        72,
			Temperature:      98.6,
			OxygenSaturation: 98,
		}
		tc.mutate(&reading)
		err := reading.Validate()
		if tc.wantErr && err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
		if !tc.wantErr && err != nil {
			t.Fatalf("%s: unexpected error %v", tc.name, err)
		}
	}
}

func TestPatientCloneIsIndependent(t *testing.T) {
	original := samplePatient()
	clone := original.Clone()
	clone.Actions[0].Status = StatusCancelled
	clone.Vitals[0].HeartRate = 1
	*clone.Actions[1].CompletedAt = time.Time{}
	if original.Actions[0].Status != StatusInProgress {
		t.Fatal("clone shares action slice with the original")
	}
	if original.Vitals[0].HeartRate != 72 {
		t.Fatal("clone shares vitals slice with the original")
	}
	if original.Actions[1].CompletedAt.IsZero() {
		t.Fatal("clone shares completion timestamp pointer with the original")
	}
}

func TestPatientLatestVitalAndPendingCount(t *testing.T) {
	patient := samplePatient()
	latest, ok := patient.LatestVital()
	if !ok || latest.HeartRate != 75 {
		t.Fatalf("expected newest reading, got %+v ok=%v", latest, ok)
	}
	if got := patient.PendingCount(); got != 1 {
		t.Fatalf("expected 1 non-terminal action, got %d", got)
	}
	empty := Patient{ID: "P-X", Name: "No Readings"}
	if _, ok := empty.LatestVital(); ok {
		t.Fatal("patient without vitals must report no latest reading")
	}
}

func TestPatientYAMLRoundTrip(t *testing.T) {
	original := samplePatient()
	encoded, err := yaml.Marshal(original)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded Patient
	if err := yaml.Unmarshal(encoded, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.ID != original.ID || decoded.Name != original.Name || decoded.Diagnosis != original.Diagnosis {
		t.Fatalf("demographics drifted through round trip: %+v", decoded)
	}
	if len(decoded.Actions) != len(original.Actions) || len(decoded.Vitals) != len(original.Vitals) {
		t.Fatalf("collections drifted through round trip: %d actions, %d vitals", len(decoded.Actions), len(decoded.Vitals))
	}
	for i := range original.Actions {
		want, got := original.Actions[i], decoded.Actions[i]
		if got.ID != want.ID || got.Type != want.Type || got.Status != want.Status || got.Department != want.Department {
			t.Fatalf("action[%d] drifted: got %+v want %+v", i, got, want)
		}
		if !got.RequestedAt.Equal(want.RequestedAt) {
			t.Fatalf("action[%d] requested_at drifted: %v vs %v", i, got.RequestedAt, want.RequestedAt)
		}
		if (got.CompletedAt == nil) != (want.CompletedAt == nil) {
			t.Fatalf("action[%d] completed_at presence drifted", i)
		}
	}
	for i := range original.Vitals {
		if decoded.Vitals[i] != (VitalReading{}) && !decoded.Vitals[i].Timestamp.Equal(original.Vitals[i].Timestamp) {
			t.Fatalf("vitals[%d] timestamp drifted", i)
		}
		if decoded.Vitals[i].HeartRate != original.Vitals[i].HeartRate || decoded.Vitals[i].BloodPressure != original.Vitals[i].BloodPressure {
			t.Fatalf("vitals[%d] drifted: %+v", i, decoded.Vitals[i])
		}
	}
	if err := decoded.Validate(); err != nil {
		t.Fatalf("round-tripped patient should satisfy invariants: %v", err)
	}
}

func TestParseHelpers(t *testing.T) {
	if role, err := ParseRole(" Doctor "); err != nil || role != RoleDoctor {
		t.Fatalf("ParseRole: %v %v", role, err)
	}
	if _, err := ParseRole("janitor"); err == nil {
		t.Fatal("ParseRole must reject unknown roles")
	}
	if at, err := ParseActionType("PRESCRIPTION"); err != nil || at != TypePrescription {
		t.Fatalf("ParseActionType: %v %v", at, err)
	}
	if st, err := ParseActionStatus("in_progress"); err != nil || st != StatusInProgress {
		t.Fatalf("ParseActionStatus: %v %v", st, err)
	}
	if _, err := ParseActionStatus("paused"); err == nil {
		t.Fatal("ParseActionStatus must reject unknown statuses")
	}
}
