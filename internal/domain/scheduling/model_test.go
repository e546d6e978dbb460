package scheduling

import (
	"testing"
	"time"
)

func TestParseTimeOfDay(t *testing.T) {
	tod, err := ParseTimeOfDay("09:30")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tod.Hour != 9 || tod.Minute != 30 {
		t.Errorf("expected 09:30, got %s", tod)
	}

	if _, err := ParseTimeOfDay("25:00"); err == nil {
		t.Error("expected error for invalid hour")
	}
	if _, err := ParseTimeOfDay("9.30"); err == nil {
		t.Error("expected error for invalid format")
	}
}

func TestTimeOfDay_Ordering(t *testing.T) {
	a := TimeOfDay{Hour: 9, Minute: 0}
	b := TimeOfDay{Hour: 9, Minute: 30}
	if !a.Before(b) {
		t.Error("expected 09:00 before 09:30")
	}
	if !b.After(a) {
		t.Error("expected 09:30 after 09:00")
	}
	if a.Add(30) != b {
		t.Errorf("expected 09:00+30m == 09:30, got %s", a.Add(30))
	}
}

func TestParseStatus(t *testing.T) {
	st, err := ParseStatus("pending")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st != StatusPending {
		t.Errorf("expected PENDING, got %s", st)
	}
	if _, err := ParseStatus("UNKNOWN"); err == nil {
		t.Error("expected error for unknown status")
	}
}

func TestNewSlotDefinition_RejectsInvertedRange(t *testing.T) {
	_, err := NewSlotDefinition("D001",
		TimeOfDay{Hour: 10}, TimeOfDay{Hour: 9}, []time.Weekday{time.Monday})
	if err == nil {
		t.Error("expected error for start after end")
	}
}

func TestNewSlotDefinition_RequiresDays(t *testing.T) {
	_, err := NewSlotDefinition("D001", TimeOfDay{Hour: 9}, TimeOfDay{Hour: 10}, nil)
	if err == nil {
		t.Error("expected error for empty day set")
	}
}

func TestSlotDefinition_Overlaps(t *testing.T) {
	monMorning, _ := NewSlotDefinition("D001",
		TimeOfDay{Hour: 9}, TimeOfDay{Hour: 11}, []time.Weekday{time.Monday})
	monLate, _ := NewSlotDefinition("D001",
		TimeOfDay{Hour: 10}, TimeOfDay{Hour: 12}, []time.Weekday{time.Monday})
	tueMorning, _ := NewSlotDefinition("D001",
		TimeOfDay{Hour: 9}, TimeOfDay{Hour: 11}, []time.Weekday{time.Tuesday})
	otherDoctor, _ := NewSlotDefinition("D002",
		TimeOfDay{Hour: 9}, TimeOfDay{Hour: 11}, []time.Weekday{time.Monday})

	if !monMorning.Overlaps(monLate) {
		t.Error("expected overlap on shared Monday range")
	}
	if monMorning.Overlaps(tueMorning) {
		t.Error("expected no overlap on disjoint weekdays")
	}
	if monMorning.Overlaps(otherDoctor) {
		t.Error("expected no overlap across doctors")
	}
}

func TestNewPrescription_Validation(t *testing.T) {
	if _, err := NewPrescription("", 2); err == nil {
		t.Error("expected error for empty medication")
	}
	if _, err := NewPrescription("Aspirin", 0); err == nil {
		t.Error("expected error for non-positive quantity")
	}
	p, err := NewPrescription("Aspirin", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Status != PrescriptionPending {
		t.Errorf("expected default PENDING status, got %s", p.Status)
	}
}

func TestOutcomeRecord_UpdatePrescriptionStatus(t *testing.T) {
	o, _ := NewOutcomeRecord("01/02/2026", "Consultation", "notes")
	p, _ := NewPrescription("Aspirin", 2)
	o.Prescriptions = append(o.Prescriptions, p)

	if !o.UpdatePrescriptionStatus("aspirin", PrescriptionDispensed) {
		t.Fatal("expected case-insensitive match")
	}
	if o.Prescriptions[0].Status != PrescriptionDispensed {
		t.Errorf("expected DISPENSED, got %s", o.Prescriptions[0].Status)
	}
	if o.UpdatePrescriptionStatus("missing", PrescriptionDispensed) {
		t.Error("expected no match for unknown medication")
	}
}
