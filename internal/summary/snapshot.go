// Package summary produces the shift-handover text shown beside a
// patient's record. The collaborator that writes the prose is external
// and opaque; this package defines the snapshot it receives, the prompt
// it is asked, and the fixed fallback used when it cannot answer.
// A summary failure never touches workflow state.
package summary

import (
	"fmt"
	"strings"

	"github.com/SaiSmaran29/MediFlow/internal/clinical"
)

// ActionLine is the per-action slice of a snapshot.
type ActionLine struct {
	Status      clinical.ActionStatus
	Title       string
	Description string
	Department  clinical.Role
}

// Snapshot is the read-only projection of a patient handed to the
// collaborator: demographics, diagnosis, the latest vital reading, and
// the full action list. It shares no memory with the ward store.
type Snapshot struct {
	PatientID   string
	Name        string
	Age         int
	Gender      string
	Diagnosis   string
	LatestVital *clinical.VitalReading
	Actions     []ActionLine
}

// BuildSnapshot projects a patient into the collaborator contract.
func BuildSnapshot(patient clinical.Patient) Snapshot {
	snapshot := Snapshot{
		PatientID: patient.ID,
		Name:      patient.Name,
		Age:       patient.Age,
		Gender:    patient.Gender,
		Diagnosis: patient.Diagnosis,
	}
	if latest, ok := patient.LatestVital(); ok {
		reading := latest
		snapshot.LatestVital = &reading
	}
	for _, action := range patient.Actions {
		snapshot.Actions = append(snapshot.Actions, ActionLine{
			Status:      action.Status,
			Title:       action.Title,
			Description: action.Description,
			Department:  action.Department,
		})
	}
	return snapshot
}

// Prompt renders the handover request sent to the collaborator.
func Prompt(snapshot Snapshot) string {
	var b strings.Builder
	b.WriteString("Summarize the following patient's clinical status for a quick shift-handover.\n")
	fmt.Fprintf(&b, "Patient: %s, %dy %s.\n", snapshot.Name, snapshot.Age, snapshot.Gender)
	fmt.Fprintf(&b, "Diagnosis: %s\n\n", snapshot.Diagnosis)
	if snapshot.LatestVital != nil {
		v := snapshot.LatestVital
		fmt.Fprintf(&b, "Recent Vitals:\nLast Vitals: BP %s, HR %d, Temp %.1f, O2 %d\n\n",
			v.BloodPressure, v.HeartRate, v.Temperature, v.OxygenSaturation)
	}
	b.WriteString("Current Workflow & Actions:\n")
	for _, line := range snapshot.Actions {
		fmt.Fprintf(&b, "- [%s] %s: %s (Dept: %s)\n",
			strings.ToUpper(string(line.Status)), line.Title, line.Description, line.Department.Display())
	}
	b.WriteString("\nProvide a concise (3-4 bullet points) summary focusing on what's critical and what's pending.\n")
	return b.String()
}
