package ward

import (
	"strings"

	"github.com/SaiSmaran29/MediFlow/internal/clinical"
)

// Stats carries the dashboard header counters for one acting role.
type Stats struct {
	TotalPatients int
	ActiveActions int
	Completed     int
	Urgent        int
	QueueLength   int
}

// urgent flags actions whose wording asks for immediate handling.
func urgent(action clinical.ClinicalAction) bool {
	title := strings.ToLower(action.Title)
	description := strings.ToLower(action.Description)
	return strings.Contains(title, "urgent") || strings.Contains(description, "stat")
}

// Stats aggregates the ward for the dashboard header. QueueLength
// counts open work visible to the acting role: its own department's
// queue, or every department's when acting as a doctor.
func (s *Store) Stats(as clinical.Role) Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stats := Stats{TotalPatients: len(s.patients)}
	for _, patient := range s.patients {
		for _, action := range patient.Actions {
			if urgent(action) {
				stats.Urgent++
			}
			switch {
			case action.Status == clinical.StatusCompleted:
				stats.Completed++
			case !action.Status.Terminal():
				stats.ActiveActions++
				if as == clinical.RoleDoctor || as == action.Department {
					stats.QueueLength++
				}
			}
		}
	}
	return stats
}

// Queue returns the open actions the acting role is responsible for,
// the dashboard's department work list.
func (s *Store) Queue(as clinical.Role) []clinical.ClinicalAction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []clinical.ClinicalAction
	for _, patient := range s.patients {
		for _, action := range patient.Actions {
			if action.Status.Terminal() {
				continue
			}
			if as == clinical.RoleDoctor || as == action.Department {
				result = append(result, action.Clone())
			}
		}
	}
	return result
}
