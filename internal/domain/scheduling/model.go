package scheduling

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Status is the lifecycle state of an appointment. Transitions are
// one-directional: PENDING→ACCEPTED→COMPLETED, with any non-terminal state
// able to move to CANCELLED. COMPLETED and CANCELLED are terminal.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusAccepted  Status = "ACCEPTED"
	StatusCancelled Status = "CANCELLED"
	StatusCompleted Status = "COMPLETED"
)

var validStatuses = map[Status]bool{
	StatusPending: true, StatusAccepted: true,
	StatusCancelled: true, StatusCompleted: true,
}

// ParseStatus decodes a wire status value.
func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToUpper(strings.TrimSpace(s)))
	if !validStatuses[st] {
		return "", fmt.Errorf("invalid appointment status: %q", s)
	}
	return st, nil
}

// Terminal reports whether no further transitions are allowed.
func (s Status) Terminal() bool {
	return s == StatusCancelled || s == StatusCompleted
}

// PrescriptionStatus tracks pharmacist dispensing.
type PrescriptionStatus string

const (
	PrescriptionPending   PrescriptionStatus = "PENDING"
	PrescriptionDispensed PrescriptionStatus = "DISPENSED"
)

// ParsePrescriptionStatus decodes a wire prescription status.
func ParsePrescriptionStatus(s string) (PrescriptionStatus, error) {
	switch ps := PrescriptionStatus(strings.ToUpper(strings.TrimSpace(s))); ps {
	case PrescriptionPending, PrescriptionDispensed:
		return ps, nil
	default:
		return "", fmt.Errorf("invalid prescription status: %q", s)
	}
}

// TimeOfDay is a clock time with minute precision, the granularity of the
// booking system. It is comparable and safe as a map key.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseTimeOfDay decodes an HH:mm value.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("invalid time %q: expected HH:mm", s)
	}
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}, nil
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// Add returns the time advanced by the given number of minutes.
func (t TimeOfDay) Add(minutes int) TimeOfDay {
	total := t.Hour*60 + t.Minute + minutes
	return TimeOfDay{Hour: (total / 60) % 24, Minute: total % 60}
}

// Before reports whether t is strictly earlier than other.
func (t TimeOfDay) Before(other TimeOfDay) bool {
	return t.Hour*60+t.Minute < other.Hour*60+other.Minute
}

// After reports whether t is strictly later than other.
func (t TimeOfDay) After(other TimeOfDay) bool {
	return other.Before(t)
}

// At combines a calendar date with the clock time.
func (t TimeOfDay) At(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour, t.Minute, 0, 0, date.Location())
}

// Prescription is one medication line inside an outcome record.
type Prescription struct {
	Medication string
	Quantity   int
	Status     PrescriptionStatus
}

// NewPrescription builds a PENDING prescription.
func NewPrescription(medication string, quantity int) (Prescription, error) {
	medication = strings.TrimSpace(medication)
	if medication == "" {
		return Prescription{}, fmt.Errorf("medication name cannot be empty")
	}
	if quantity <= 0 {
		return Prescription{}, fmt.Errorf("prescription quantity must be positive, got %d", quantity)
	}
	return Prescription{Medication: medication, Quantity: quantity, Status: PrescriptionPending}, nil
}

// OutcomeRecord is the clinical summary attached to a completed appointment.
// The date is carried as the dd/MM/yyyy wire string, denormalized from the
// appointment it belongs to.
type OutcomeRecord struct {
	Date          string
	ServiceType   string
	Notes         string
	Prescriptions []Prescription
}

// NewOutcomeRecord validates the mandatory fields.
func NewOutcomeRecord(date, serviceType, notes string) (*OutcomeRecord, error) {
	date = strings.TrimSpace(date)
	serviceType = strings.TrimSpace(serviceType)
	notes = strings.TrimSpace(notes)
	if date == "" || serviceType == "" || notes == "" {
		return nil, fmt.Errorf("outcome record requires date, service type and notes")
	}
	return &OutcomeRecord{Date: date, ServiceType: serviceType, Notes: notes}, nil
}

// UpdatePrescriptionStatus sets the status of the first prescription matching
// the medication name (case-insensitive). It reports whether a match existed.
func (o *OutcomeRecord) UpdatePrescriptionStatus(medication string, status PrescriptionStatus) bool {
	for i := range o.Prescriptions {
		if strings.EqualFold(o.Prescriptions[i].Medication, medication) {
			o.Prescriptions[i].Status = status
			return true
		}
	}
	return false
}

// Appointment is a booking between one patient and one doctor at a specific
// date and clock time.
type Appointment struct {
	ID        string
	PatientID string
	DoctorID  string
	Date      time.Time // calendar date, time-of-day zeroed
	Time      TimeOfDay
	Status    Status
	Outcome   *OutcomeRecord
}

// StartsAt returns the combined date and clock time of the appointment.
func (a *Appointment) StartsAt() time.Time {
	return a.Time.At(a.Date)
}

// SlotDefinition is a doctor's recurring weekly availability window: a
// contiguous time range repeated on a set of weekdays. Definitions are
// immutable once constructed and replaced wholesale on edit.
type SlotDefinition struct {
	DoctorID string
	Start    TimeOfDay
	End      TimeOfDay
	Days     []time.Weekday
}

// NewSlotDefinition validates the time range and day set.
func NewSlotDefinition(doctorID string, start, end TimeOfDay, days []time.Weekday) (*SlotDefinition, error) {
	if strings.TrimSpace(doctorID) == "" {
		return nil, fmt.Errorf("doctor ID cannot be empty")
	}
	if !start.Before(end) {
		return nil, fmt.Errorf("slot start %s must be before end %s", start, end)
	}
	if len(days) == 0 {
		return nil, fmt.Errorf("slot requires at least one working day")
	}
	sorted := make([]time.Weekday, len(days))
	copy(sorted, days)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	return &SlotDefinition{DoctorID: doctorID, Start: start, End: end, Days: sorted}, nil
}

// CoversDay reports whether the definition recurs on the given weekday.
func (d *SlotDefinition) CoversDay(day time.Weekday) bool {
	for _, wd := range d.Days {
		if wd == day {
			return true
		}
	}
	return false
}

// Overlaps reports whether two definitions for the same doctor share a
// weekday with intersecting time ranges. Overlapping definitions are
// rejected at creation so availability enumeration stays chronological.
func (d *SlotDefinition) Overlaps(other *SlotDefinition) bool {
	if !strings.EqualFold(d.DoctorID, other.DoctorID) {
		return false
	}
	shared := false
	for _, day := range d.Days {
		if other.CoversDay(day) {
			shared = true
			break
		}
	}
	if !shared {
		return false
	}
	return !d.End.Before(other.Start) && !other.End.Before(d.Start)
}
