// Package ward holds the in-memory authority over admitted patients
// and their clinical actions. The store enforces the routing rule and
// the lifecycle state machine; every mutation is atomic from the
// caller's perspective and hands back copies, never internal state.
package ward

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/SaiSmaran29/MediFlow/internal/bridge"
	"github.com/SaiSmaran29/MediFlow/internal/clinical"
)

// Publisher receives workflow events after a successful mutation.
type Publisher interface {
	Publish(bridge.Event)
}

// Store owns the patient collection for one dashboard session.
type Store struct {
	mu        sync.RWMutex
	patients  []*clinical.Patient
	index     map[string]*clinical.Patient
	clock     func() time.Time
	nextID    func() string
	publisher Publisher
}

// Option customizes store construction.
type Option func(*Store)

// WithClock injects a deterministic clock (primarily for tests).
func WithClock(clock func() time.Time) Option {
	return func(s *Store) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithIDGenerator overrides action id generation.
func WithIDGenerator(next func() string) Option {
	return func(s *Store) {
		if next != nil {
			s.nextID = next
		}
	}
}

// WithPublisher attaches an event publisher notified after mutations.
func WithPublisher(p Publisher) Option {
	return func(s *Store) {
		if p != nil {
			s.publisher = p
		}
	}
}

// New builds a store over the given census. Patients are deep-copied in
// and validated; a store never shares memory with its caller.
func New(patients []clinical.Patient, opts ...Option) (*Store, error) {
	store := &Store{
		index:  make(map[string]*clinical.Patient, len(patients)),
		clock:  time.Now,
		nextID: func() string { return "A-" + uuid.NewString() },
	}
	for _, opt := range opts {
		if opt != nil {
			opt(store)
		}
	}
	for _, patient := range patients {
		if err := patient.Validate(); err != nil {
			return nil, fmt.Errorf("ward: seed patient %s: %w", patient.ID, err)
		}
		if _, dup := store.index[patient.ID]; dup {
			return nil, fmt.Errorf("ward: duplicate patient id %s", patient.ID)
		}
		owned := patient.Clone()
		store.patients = append(store.patients, &owned)
		store.index[owned.ID] = &owned
	}
	return store, nil
}

// ActionRequest carries exactly the caller-supplied fields of a new
// clinical action; everything else is computed by the store.
type ActionRequest struct {
	Type        clinical.ActionType
	Title       string
	Description string
	RequestedBy string
}

func (r ActionRequest) validate() error {
	if !r.Type.Valid() {
		return &clinical.ValidationError{Field: "type", Reason: fmt.Sprintf("unknown value %q", r.Type)}
	}
	if strings.TrimSpace(r.Title) == "" {
		return &clinical.ValidationError{Field: "title", Reason: "is required"}
	}
	if strings.TrimSpace(r.Description) == "" {
		return &clinical.ValidationError{Field: "description", Reason: "is required"}
	}
	if strings.TrimSpace(r.RequestedBy) == "" {
		return &clinical.ValidationError{Field: "requested_by", Reason: "is required"}
	}
	return nil
}

// CreateAction validates the request, routes it to its department, and
// prepends the new action to the patient's record (newest first).
func (s *Store) CreateAction(patientID string, req ActionRequest) (clinical.ClinicalAction, error) {
	if err := req.validate(); err != nil {
		return clinical.ClinicalAction{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	patient, ok := s.index[patientID]
	if !ok {
		return clinical.ClinicalAction{}, &clinical.NotFoundError{Kind: "patient", ID: patientID}
	}
	action := clinical.ClinicalAction{
		ID:          s.nextID(),
		Type:        req.Type,
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Department:  clinical.RouteActionType(req.Type),
		Status:      clinical.StatusPending,
		RequestedBy: strings.TrimSpace(req.RequestedBy),
		RequestedAt: s.clock(),
	}
	patient.Actions = append([]clinical.ClinicalAction{action}, patient.Actions...)
	s.publish(bridge.Event{
		Type:      bridge.EventActionCreated,
		PatientID: patient.ID,
		ActionID:  action.ID,
		Detail:    fmt.Sprintf("%s routed to %s", action.Title, action.Department.Display()),
		At:        action.RequestedAt,
	})
	return action.Clone(), nil
}

// UpdateActionStatus applies the authorization guard and the lifecycle
// state machine, replacing the stored action only on success.
func (s *Store) UpdateActionStatus(patientID, actionID string, next clinical.ActionStatus, as clinical.Role) (clinical.ClinicalAction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	patient, ok := s.index[patientID]
	if !ok {
		return clinical.ClinicalAction{}, &clinical.NotFoundError{Kind: "patient", ID: patientID}
	}
	slot := -1
	for i := range patient.Actions {
		if patient.Actions[i].ID == actionID {
			slot = i
			break
		}
	}
	if slot < 0 {
		return clinical.ClinicalAction{}, &clinical.NotFoundError{Kind: "action", ID: actionID}
	}
	updated, err := clinical.Transition(patient.Actions[slot], next, as, s.clock())
	if err != nil {
		return clinical.ClinicalAction{}, err
	}
	patient.Actions[slot] = updated
	s.publish(bridge.Event{
		Type:      bridge.EventStatusChanged,
		PatientID: patient.ID,
		ActionID:  updated.ID,
		Detail:    fmt.Sprintf("%s is now %s", updated.Title, updated.Status.Display()),
		At:        s.clock(),
	})
	return updated.Clone(), nil
}

// AttachResults records free-text findings on an action. Only the
// owning department (or a doctor) may attach them.
func (s *Store) AttachResults(patientID, actionID, results string, as clinical.Role) (clinical.ClinicalAction, error) {
	if strings.TrimSpace(results) == "" {
		return clinical.ClinicalAction{}, &clinical.ValidationError{Field: "results", Reason: "is required"}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	patient, ok := s.index[patientID]
	if !ok {
		return clinical.ClinicalAction{}, &clinical.NotFoundError{Kind: "patient", ID: patientID}
	}
	for i := range patient.Actions {
		if patient.Actions[i].ID != actionID {
			continue
		}
		if err := clinical.Authorize(as, patient.Actions[i].Department); err != nil {
			return clinical.ClinicalAction{}, err
		}
		patient.Actions[i].Results = strings.TrimSpace(results)
		s.publish(bridge.Event{
			Type:      bridge.EventResultsAttached,
			PatientID: patient.ID,
			ActionID:  actionID,
			Detail:    fmt.Sprintf("results attached to %s", patient.Actions[i].Title),
			At:        s.clock(),
		})
		return patient.Actions[i].Clone(), nil
	}
	return clinical.ClinicalAction{}, &clinical.NotFoundError{Kind: "action", ID: actionID}
}

// RecordVital appends a reading to the patient's chronological sequence.
func (s *Store) RecordVital(patientID string, reading clinical.VitalReading) error {
	if err := reading.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	patient, ok := s.index[patientID]
	if !ok {
		return &clinical.NotFoundError{Kind: "patient", ID: patientID}
	}
	if last, ok := patient.LatestVital(); ok && reading.Timestamp.Before(last.Timestamp) {
		return &clinical.ValidationError{Field: "timestamp", Reason: "must not precede the latest reading"}
	}
	patient.Vitals = append(patient.Vitals, reading)
	s.publish(bridge.Event{
		Type:      bridge.EventVitalRecorded,
		PatientID: patient.ID,
		Detail:    fmt.Sprintf("vitals recorded: BP %s, HR %d", reading.BloodPressure, reading.HeartRate),
		At:        s.clock(),
	})
	return nil
}

// Filter narrows ListActions output. Zero values match everything; the
// role filter grants doctors visibility over every department.
type Filter struct {
	Role      clinical.Role
	Status    clinical.ActionStatus
	PatientID string
}

func (f Filter) matches(patientID string, action clinical.ClinicalAction) bool {
	if f.PatientID != "" && f.PatientID != patientID {
		return false
	}
	if f.Status != "" && f.Status != action.Status {
		return false
	}
	if f.Role != "" && f.Role != clinical.RoleDoctor && f.Role != action.Department {
		return false
	}
	return true
}

// ListActions returns a filtered copy of every action in the ward,
// in patient admission order, each patient newest-action first.
func (s *Store) ListActions(filter Filter) []clinical.ClinicalAction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []clinical.ClinicalAction
	for _, patient := range s.patients {
		for _, action := range patient.Actions {
			if filter.matches(patient.ID, action) {
				result = append(result, action.Clone())
			}
		}
	}
	return result
}

// Patients returns a deep copy of the census in admission order.
func (s *Store) Patients() []clinical.Patient {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]clinical.Patient, 0, len(s.patients))
	for _, patient := range s.patients {
		result = append(result, patient.Clone())
	}
	return result
}

// Patient returns one patient by id.
func (s *Store) Patient(id string) (clinical.Patient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	patient, ok := s.index[id]
	if !ok {
		return clinical.Patient{}, &clinical.NotFoundError{Kind: "patient", ID: id}
	}
	return patient.Clone(), nil
}

// SearchPatients matches name or id substrings, case-insensitively.
func (s *Store) SearchPatients(query string) []clinical.Patient {
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return s.Patients()
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []clinical.Patient
	for _, patient := range s.patients {
		if strings.Contains(strings.ToLower(patient.Name), needle) ||
			strings.Contains(strings.ToLower(patient.ID), needle) {
			result = append(result, patient.Clone())
		}
	}
	return result
}

// OwningPatient reports which patient an action belongs to.
func (s *Store) OwningPatient(actionID string) (clinical.Patient, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, patient := range s.patients {
		for _, action := range patient.Actions {
			if action.ID == actionID {
				return patient.Clone(), true
			}
		}
	}
	return clinical.Patient{}, false
}

func (s *Store) publish(event bridge.Event) {
	if s.publisher != nil {
		s.publisher.Publish(event)
	}
}
