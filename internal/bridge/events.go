// Package bridge fans workflow events out to in-process subscribers.
// The ward store publishes after every successful mutation; the TUI and
// the care logbook subscribe. There is no network surface — all state
// lives and dies with the dashboard session.
package bridge

import "time"

// EventType classifies a workflow notification.
type EventType string

const (
	EventActionCreated   EventType = "action_created"
	EventStatusChanged   EventType = "status_changed"
	EventResultsAttached EventType = "results_attached"
	EventVitalRecorded   EventType = "vital_recorded"
)

// Event captures a single workflow notification.
type Event struct {
	Type      EventType `json:"type"`
	PatientID string    `json:"patient_id"`
	ActionID  string    `json:"action_id,omitempty"`
	Detail    string    `json:"detail,omitempty"`
	At        time.Time `json:"at"`
}
