package ward

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/SaiSmaran29/MediFlow/internal/clinical"
)

// Built-in census used when no seed file is configured. Every restart
// begins from this fixed set: at least two patients, each with vitals
// and open work, so the dashboard counters are exercised immediately.
const defaultSeedYAML = `
patients:
  - id: P-1001
    name: Eleanor Vance
    age: 42
    gender: Female
    blood_group: A+
    admission_date: 2024-05-15T08:30:00Z
    room_number: 402-A
    attending_doctor: Dr. Sarah Mitchell
    diagnosis: Acute Abdominal Pain - Post Operative Observation
    vitals:
      - timestamp: 2024-05-15T08:00:00Z
        blood_pressure: 120/80
        heart_rate: 72
        temperature: 98.6
        oxygen_saturation: 98
      - timestamp: 2024-05-15T10:00:00Z
        blood_pressure: 118/76
        heart_rate: 75
        temperature: 98.4
        oxygen_saturation: 97
      - timestamp: 2024-05-15T12:00:00Z
        blood_pressure: 122/82
        heart_rate: 70
        temperature: 99.1
        oxygen_saturation: 99
    actions:
      - id: A-001
        type: care_instruction
        title: NPO (Nothing by Mouth)
        description: Patient must remain NPO until further notice from surgical team.
        department: nurse
        status: in_progress
        requested_by: Dr. Sarah Mitchell
        requested_at: 2024-05-15T09:00:00Z
      - id: A-002
        type: prescription
        title: Morphine 5mg IV
        description: For pain management, every 4-6 hours as needed.
        department: pharmacist
        status: pending
        requested_by: Dr. Sarah Mitchell
        requested_at: 2024-05-15T09:15:00Z
      - id: A-003
        type: diagnostic_request
        title: Full Abdominal CT Scan
        description: Rule out post-op internal hemorrhage or complications.
        department: diagnostic
        status: completed
        requested_by: Dr. Sarah Mitchell
        requested_at: 2024-05-15T08:45:00Z
        completed_at: 2024-05-15T11:30:00Z
        results: No active hemorrhage detected. Some localized inflammation observed.
  - id: P-1002
    name: Arthur Miller
    age: 68
    gender: Male
    blood_group: O-
    admission_date: 2024-05-14T14:15:00Z
    room_number: 315-B
    attending_doctor: Dr. James Wilson
    diagnosis: Congestive Heart Failure Exacerbation
    vitals:
      - timestamp: 2024-05-14T06:00:00Z
        blood_pressure: 145/95
        heart_rate: 88
        temperature: 98.2
        oxygen_saturation: 94
      - timestamp: 2024-05-14T09:00:00Z
        blood_pressure: 140/92
        heart_rate: 84
        temperature: 98.4
        oxygen_saturation: 95
    actions:
      - id: A-004
        type: vital_check
        title: Hourly Oxygen Saturation Check
        description: Maintain SpO2 > 94% with supplemental O2 if needed.
        department: nurse
        status: in_progress
        requested_by: Dr. James Wilson
        requested_at: 2024-05-14T15:00:00Z
`

type seedDocument struct {
	Patients []clinical.Patient `yaml:"patients"`
}

// Seed returns the built-in patient census.
func Seed() []clinical.Patient {
	patients, err := parseSeed([]byte(defaultSeedYAML))
	if err != nil {
		// The built-in document is fixed at compile time; failing to
		// parse it is a programming error, not a runtime condition.
		panic(fmt.Sprintf("ward: built-in seed is invalid: %v", err))
	}
	return patients
}

// LoadSeedFile parses a ward census from a YAML roster on disk.
func LoadSeedFile(path string) ([]clinical.Patient, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ward: read seed %s: %w", path, err)
	}
	patients, err := parseSeed(data)
	if err != nil {
		return nil, fmt.Errorf("ward: parse seed %s: %w", path, err)
	}
	return patients, nil
}

func parseSeed(data []byte) ([]clinical.Patient, error) {
	var doc seedDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if len(doc.Patients) < 2 {
		return nil, fmt.Errorf("census must contain at least two patients, got %d", len(doc.Patients))
	}
	for _, patient := range doc.Patients {
		if err := patient.Validate(); err != nil {
			return nil, err
		}
		if len(patient.Vitals) == 0 {
			return nil, fmt.Errorf("patient %s: vitals must not be empty", patient.ID)
		}
		if patient.PendingCount() == 0 {
			return nil, fmt.Errorf("patient %s: census requires at least one open action", patient.ID)
		}
	}
	return doc.Patients, nil
}
