package records

import (
	"fmt"
	"strings"
)

// MedicalRecord is a patient's cumulative clinical history: free-text
// diagnoses and treatments, appended over time and never removed.
type MedicalRecord struct {
	PatientID  string
	Diagnoses  []string
	Treatments []string
}

func NewMedicalRecord(patientID string) (*MedicalRecord, error) {
	if strings.TrimSpace(patientID) == "" {
		return nil, fmt.Errorf("patient ID must not be empty")
	}
	return &MedicalRecord{PatientID: patientID}, nil
}

// AddDiagnosis appends a diagnosis, ignoring blank input.
func (r *MedicalRecord) AddDiagnosis(diagnosis string) {
	if d := strings.TrimSpace(diagnosis); d != "" {
		r.Diagnoses = append(r.Diagnoses, d)
	}
}

// AddTreatment appends a treatment, ignoring blank input.
func (r *MedicalRecord) AddTreatment(treatment string) {
	if t := strings.TrimSpace(treatment); t != "" {
		r.Treatments = append(r.Treatments, t)
	}
}
