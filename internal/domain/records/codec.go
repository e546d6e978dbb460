package records

import (
	"fmt"
	"strings"
)

const recordHeader = "PatientID;Diagnoses;Treatments"

// Codec reads and writes medical record lines. The outer delimiter is ';'
// because diagnoses and treatments are comma-joined lists; empty lists are
// empty fields.
type Codec struct{}

func (Codec) Header() string { return recordHeader }

func (Codec) Parse(line string) (*MedicalRecord, error) {
	parts := strings.Split(line, ";")
	if len(parts) != 3 {
		return nil, fmt.Errorf("expected 3 fields, got %d", len(parts))
	}
	record, err := NewMedicalRecord(strings.TrimSpace(parts[0]))
	if err != nil {
		return nil, err
	}
	record.Diagnoses = splitList(parts[1])
	record.Treatments = splitList(parts[2])
	return record, nil
}

func (Codec) Format(r *MedicalRecord) string {
	return r.PatientID + ";" +
		strings.Join(r.Diagnoses, ",") + ";" +
		strings.Join(r.Treatments, ",")
}

func splitList(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
