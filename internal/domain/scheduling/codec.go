package scheduling

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/hms/hms/internal/config"
)

// Wire formats reproduce the legacy data files byte for byte: comma-separated
// outer fields, an outcome record nested into the final appointment field,
// and prescriptions inside the outcome as a bracketed semicolon list.

const (
	appointmentHeader = "AppointmentID,PatientID,DoctorID,Date,Time,Status,Outcome Record"
	slotHeader        = "DoctorID,StartTime,EndTime,WorkingDays"
	noOutcome         = "-"
)

// AppointmentCodec encodes appointments for the CSV store.
type AppointmentCodec struct{}

func (AppointmentCodec) Header() string { return appointmentHeader }

func (AppointmentCodec) Parse(line string) (*Appointment, error) {
	parts := strings.SplitN(line, ",", 7)
	if len(parts) < 6 {
		return nil, fmt.Errorf("expected at least 6 fields, got %d", len(parts))
	}

	date, err := time.Parse(config.DateLayout, strings.TrimSpace(parts[3]))
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: expected dd/MM/yyyy", parts[3])
	}
	tod, err := ParseTimeOfDay(parts[4])
	if err != nil {
		return nil, err
	}
	status, err := ParseStatus(parts[5])
	if err != nil {
		return nil, err
	}

	appt := &Appointment{
		ID:        strings.TrimSpace(parts[0]),
		PatientID: strings.TrimSpace(parts[1]),
		DoctorID:  strings.TrimSpace(parts[2]),
		Date:      date,
		Time:      tod,
		Status:    status,
	}
	if appt.ID == "" {
		return nil, fmt.Errorf("appointment ID cannot be empty")
	}

	if len(parts) > 6 && strings.TrimSpace(parts[6]) != noOutcome {
		outcome, err := ParseOutcome(strings.TrimSpace(parts[6]))
		if err != nil {
			return nil, err
		}
		appt.Outcome = outcome
	}
	return appt, nil
}

func (AppointmentCodec) Format(a *Appointment) string {
	outcome := noOutcome
	if a.Outcome != nil {
		outcome = EncodeOutcome(a.Outcome)
	}
	return strings.Join([]string{
		a.ID,
		a.PatientID,
		a.DoctorID,
		a.Date.Format(config.DateLayout),
		a.Time.String(),
		string(a.Status),
		outcome,
	}, ",")
}

// EncodeOutcome serializes an outcome record to its nested wire form:
// date,service,notes,[medication,qty,status;...] with [] for no
// prescriptions.
func EncodeOutcome(o *OutcomeRecord) string {
	var b strings.Builder
	b.WriteString(o.Date)
	b.WriteByte(',')
	b.WriteString(o.ServiceType)
	b.WriteByte(',')
	b.WriteString(o.Notes)
	b.WriteByte(',')
	b.WriteByte('[')
	for i, p := range o.Prescriptions {
		if i > 0 {
			b.WriteByte(';')
		}
		b.WriteString(p.Medication)
		b.WriteByte(',')
		b.WriteString(strconv.Itoa(p.Quantity))
		b.WriteByte(',')
		b.WriteString(string(p.Status))
	}
	b.WriteByte(']')
	return b.String()
}

// ParseOutcome decodes the nested outcome wire form produced by
// EncodeOutcome.
func ParseOutcome(s string) (*OutcomeRecord, error) {
	parts := strings.SplitN(s, ",", 4)
	if len(parts) != 4 {
		return nil, fmt.Errorf("invalid outcome record %q: expected 4 sections", s)
	}
	outcome, err := NewOutcomeRecord(parts[0], parts[1], parts[2])
	if err != nil {
		return nil, err
	}

	list := strings.TrimSpace(parts[3])
	if !strings.HasPrefix(list, "[") || !strings.HasSuffix(list, "]") {
		return nil, fmt.Errorf("invalid prescription list %q: expected [..]", list)
	}
	list = strings.TrimSuffix(strings.TrimPrefix(list, "["), "]")
	if list == "" {
		return outcome, nil
	}

	for _, entry := range strings.Split(list, ";") {
		p, err := parsePrescription(entry)
		if err != nil {
			return nil, err
		}
		outcome.Prescriptions = append(outcome.Prescriptions, p)
	}
	return outcome, nil
}

func parsePrescription(s string) (Prescription, error) {
	fields := strings.Split(strings.TrimSpace(s), ",")
	if len(fields) != 3 {
		return Prescription{}, fmt.Errorf("invalid prescription %q: expected 3 fields", s)
	}
	qty, err := strconv.Atoi(strings.TrimSpace(fields[1]))
	if err != nil {
		return Prescription{}, fmt.Errorf("invalid prescription quantity %q", fields[1])
	}
	status, err := ParsePrescriptionStatus(fields[2])
	if err != nil {
		return Prescription{}, err
	}
	p, err := NewPrescription(fields[0], qty)
	if err != nil {
		return Prescription{}, err
	}
	p.Status = status
	return p, nil
}

// SlotCodec encodes slot definitions for the CSV store. Working days are a
// semicolon-separated list of uppercase weekday names.
type SlotCodec struct{}

func (SlotCodec) Header() string { return slotHeader }

func (SlotCodec) Parse(line string) (*SlotDefinition, error) {
	parts := strings.Split(line, ",")
	if len(parts) != 4 {
		return nil, fmt.Errorf("expected 4 fields, got %d", len(parts))
	}
	doctorID := strings.TrimSpace(parts[0])
	if !strings.HasPrefix(doctorID, "D") {
		return nil, fmt.Errorf("doctor ID %q must start with D", doctorID)
	}
	start, err := ParseTimeOfDay(parts[1])
	if err != nil {
		return nil, err
	}
	end, err := ParseTimeOfDay(parts[2])
	if err != nil {
		return nil, err
	}
	days, err := parseWorkingDays(parts[3])
	if err != nil {
		return nil, err
	}
	return NewSlotDefinition(doctorID, start, end, days)
}

func (SlotCodec) Format(d *SlotDefinition) string {
	names := make([]string, len(d.Days))
	for i, day := range d.Days {
		names[i] = strings.ToUpper(day.String())
	}
	return strings.Join([]string{
		d.DoctorID,
		d.Start.String(),
		d.End.String(),
		strings.Join(names, ";"),
	}, ",")
}

var weekdayNames = map[string]time.Weekday{
	"SUNDAY":    time.Sunday,
	"MONDAY":    time.Monday,
	"TUESDAY":   time.Tuesday,
	"WEDNESDAY": time.Wednesday,
	"THURSDAY":  time.Thursday,
	"FRIDAY":    time.Friday,
	"SATURDAY":  time.Saturday,
}

// ParseWeekday resolves an upper-case day name like MONDAY.
func ParseWeekday(name string) (time.Weekday, error) {
	day, ok := weekdayNames[strings.ToUpper(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("invalid working day %q", name)
	}
	return day, nil
}

func parseWorkingDays(s string) ([]time.Weekday, error) {
	var days []time.Weekday
	for _, name := range strings.Split(s, ";") {
		day, err := ParseWeekday(name)
		if err != nil {
			return nil, err
		}
		days = append(days, day)
	}
	if len(days) == 0 {
		return nil, fmt.Errorf("working days cannot be empty")
	}
	return days, nil
}
