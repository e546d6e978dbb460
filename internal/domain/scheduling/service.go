package scheduling

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Common errors returned by the appointment lifecycle.
var (
	ErrNotFound         = errors.New("appointment not found")
	ErrNotInFuture      = errors.New("appointment date and time must be in the future")
	ErrNotPending       = errors.New("appointment is not in PENDING status")
	ErrTerminalStatus   = errors.New("appointment is in a terminal status")
	ErrNotYetHeld       = errors.New("appointment has not taken place yet")
	ErrNotAccepted      = errors.New("appointment is not in ACCEPTED status")
	ErrNoOutcome        = errors.New("appointment has no outcome record")
	ErrSlotOverlap      = errors.New("slot definition overlaps an existing one")
	ErrNoAvailability   = errors.New("doctor has no availability defined")
	ErrTimeNotAvailable = errors.New("selected time is not available")
)

// RecordUpdater receives the clinical summary of a completed appointment so
// the patient's medical record stays in sync. Implemented by the records
// service; nil disables the sync.
type RecordUpdater interface {
	AppendOutcome(patientID, serviceType string, medications []string) error
}

// Filter narrows GetAppointments results. Empty fields are wildcards; all
// supplied fields must match.
type Filter struct {
	PatientID string
	DoctorID  string
	Status    Status
}

func (f Filter) matches(a *Appointment) bool {
	if f.PatientID != "" && !strings.EqualFold(a.PatientID, f.PatientID) {
		return false
	}
	if f.DoctorID != "" && !strings.EqualFold(a.DoctorID, f.DoctorID) {
		return false
	}
	if f.Status != "" && a.Status != f.Status {
		return false
	}
	return true
}

// Service orchestrates the appointment lifecycle: scheduling, status
// transitions, outcome recording and slot availability.
type Service struct {
	appts   AppointmentRepository
	slots   SlotRepository
	records RecordUpdater
	step    int // slot enumeration granularity in minutes
	now     func() time.Time
	newID   func() string
	log     zerolog.Logger
}

func NewService(appts AppointmentRepository, slots SlotRepository, records RecordUpdater, stepMinutes int, log zerolog.Logger) *Service {
	return &Service{
		appts:   appts,
		slots:   slots,
		records: records,
		step:    stepMinutes,
		now:     time.Now,
		newID:   func() string { return fmt.Sprintf("APPT%d", time.Now().UnixMilli()) },
		log:     log,
	}
}

// WithClock overrides the time source, for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// WithIDGenerator overrides appointment ID generation, for tests.
func (s *Service) WithIDGenerator(gen func() string) *Service {
	s.newID = gen
	return s
}

// Schedule books a new PENDING appointment. The date and time must be
// strictly in the future.
func (s *Service) Schedule(patientID, doctorID string, date time.Time, tod TimeOfDay) (*Appointment, error) {
	if !tod.At(date).After(s.now()) {
		return nil, ErrNotInFuture
	}
	if err := s.timeAvailable(doctorID, date, tod, ""); err != nil {
		return nil, err
	}
	appt := &Appointment{
		ID:        s.newID(),
		PatientID: patientID,
		DoctorID:  doctorID,
		Date:      dateOnly(date),
		Time:      tod,
		Status:    StatusPending,
	}
	s.appts.Add(appt)
	if err := s.appts.Persist(); err != nil {
		return nil, fmt.Errorf("persist appointments: %w", err)
	}
	s.log.Info().Str("appointment_id", appt.ID).Str("patient_id", patientID).
		Str("doctor_id", doctorID).Msg("appointment scheduled")
	return appt, nil
}

// Reschedule moves an appointment to a new date and time and always resets
// its status to PENDING so the doctor reconfirms.
func (s *Service) Reschedule(id string, date time.Time, tod TimeOfDay) error {
	appt := s.find(id)
	if appt == nil {
		return ErrNotFound
	}
	if appt.Status.Terminal() {
		return ErrTerminalStatus
	}
	if !tod.At(date).After(s.now()) {
		return ErrNotInFuture
	}
	if err := s.timeAvailable(appt.DoctorID, date, tod, appt.ID); err != nil {
		return err
	}
	appt.Date = dateOnly(date)
	appt.Time = tod
	appt.Status = StatusPending
	if err := s.appts.Persist(); err != nil {
		return fmt.Errorf("persist appointments: %w", err)
	}
	s.log.Info().Str("appointment_id", id).Msg("appointment rescheduled")
	return nil
}

// Cancel marks an appointment CANCELLED.
func (s *Service) Cancel(id string) error {
	appt := s.find(id)
	if appt == nil {
		return ErrNotFound
	}
	if appt.Status.Terminal() {
		return ErrTerminalStatus
	}
	appt.Status = StatusCancelled
	if err := s.appts.Persist(); err != nil {
		return fmt.Errorf("persist appointments: %w", err)
	}
	s.log.Info().Str("appointment_id", id).Msg("appointment cancelled")
	return nil
}

// Confirm accepts a PENDING appointment. Any other status is rejected and
// left unchanged.
func (s *Service) Confirm(id string) error {
	appt := s.find(id)
	if appt == nil {
		return ErrNotFound
	}
	if appt.Status != StatusPending {
		return ErrNotPending
	}
	appt.Status = StatusAccepted
	if err := s.appts.Persist(); err != nil {
		return fmt.Errorf("persist appointments: %w", err)
	}
	s.log.Info().Str("appointment_id", id).Msg("appointment confirmed")
	return nil
}

// Update replaces an existing appointment wholesale, matched by ID.
func (s *Service) Update(updated *Appointment) error {
	if updated == nil || updated.ID == "" {
		return fmt.Errorf("updated appointment requires an ID")
	}
	all := s.appts.All()
	found := false
	for i, a := range all {
		if a.ID == updated.ID {
			all[i] = updated
			found = true
			break
		}
	}
	if !found {
		return ErrNotFound
	}
	s.appts.Replace(all)
	if err := s.appts.Persist(); err != nil {
		return fmt.Errorf("persist appointments: %w", err)
	}
	return nil
}

// Get returns every appointment matching the filter, by linear scan.
func (s *Service) Get(f Filter) []*Appointment {
	var out []*Appointment
	for _, a := range s.appts.All() {
		if f.matches(a) {
			out = append(out, a)
		}
	}
	return out
}

// GetByID returns a single appointment or ErrNotFound.
func (s *Service) GetByID(id string) (*Appointment, error) {
	appt := s.find(id)
	if appt == nil {
		return nil, ErrNotFound
	}
	return appt, nil
}

// Upcoming returns a doctor's appointments from today onward, sorted by date
// and time.
func (s *Service) Upcoming(doctorID string) []*Appointment {
	today := dateOnly(s.now())
	var out []*Appointment
	for _, a := range s.Get(Filter{DoctorID: doctorID}) {
		if !a.Date.Before(today) && !a.Status.Terminal() {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].StartsAt().Before(out[j].StartsAt())
	})
	return out
}

// RecordOutcome attaches a clinical outcome to an ACCEPTED appointment whose
// time has already passed, and transitions it to COMPLETED. The patient's
// medical record is updated with the service type and prescribed medications.
func (s *Service) RecordOutcome(id string, outcome *OutcomeRecord) error {
	if outcome == nil {
		return ErrNoOutcome
	}
	appt := s.find(id)
	if appt == nil {
		return ErrNotFound
	}
	if appt.Status != StatusAccepted {
		return ErrNotAccepted
	}
	if appt.StartsAt().After(s.now()) {
		return ErrNotYetHeld
	}
	appt.Outcome = outcome
	appt.Status = StatusCompleted
	if err := s.appts.Persist(); err != nil {
		return fmt.Errorf("persist appointments: %w", err)
	}

	if s.records != nil {
		meds := make([]string, len(outcome.Prescriptions))
		for i, p := range outcome.Prescriptions {
			meds[i] = p.Medication
		}
		if err := s.records.AppendOutcome(appt.PatientID, outcome.ServiceType, meds); err != nil {
			s.log.Error().Err(err).Str("patient_id", appt.PatientID).Msg("failed to update medical record")
		}
	}
	s.log.Info().Str("appointment_id", id).Msg("outcome recorded, appointment completed")
	return nil
}

// MarkPrescriptionDispensed flips one prescription in a completed
// appointment's outcome to DISPENSED and persists. The caller is responsible
// for the matching stock deduction.
func (s *Service) MarkPrescriptionDispensed(id, medication string) (Prescription, error) {
	appt := s.find(id)
	if appt == nil {
		return Prescription{}, ErrNotFound
	}
	if appt.Outcome == nil {
		return Prescription{}, ErrNoOutcome
	}
	var dispensed Prescription
	found := false
	for i := range appt.Outcome.Prescriptions {
		p := &appt.Outcome.Prescriptions[i]
		if strings.EqualFold(p.Medication, medication) && p.Status == PrescriptionPending {
			p.Status = PrescriptionDispensed
			dispensed = *p
			found = true
			break
		}
	}
	if !found {
		return Prescription{}, fmt.Errorf("no pending prescription for %q", medication)
	}
	if err := s.appts.Persist(); err != nil {
		return Prescription{}, fmt.Errorf("persist appointments: %w", err)
	}
	return dispensed, nil
}

// AddSlotDefinition registers availability for a doctor, rejecting overlaps.
func (s *Service) AddSlotDefinition(def *SlotDefinition) error {
	return s.slots.Add(def)
}

// SlotDefinitions returns a doctor's recurring availability.
func (s *Service) SlotDefinitions(doctorID string) []*SlotDefinition {
	return s.slots.ByDoctor(doctorID)
}

// AvailableTimes computes the bookable time points for a doctor on a date:
// every step-granularity point inside a slot definition covering that
// weekday, inclusive of both endpoints, minus times already booked by
// non-cancelled appointments on that date.
func (s *Service) AvailableTimes(doctorID string, date time.Time) ([]TimeOfDay, error) {
	defs := s.slots.ByDoctor(doctorID)
	if len(defs) == 0 {
		return nil, ErrNoAvailability
	}
	return EnumerateTimes(defs, date, s.bookedTimes(doctorID, date, ""), s.step), nil
}

// bookedTimes collects the times already held by non-cancelled appointments
// with the doctor on the given date. excludeID leaves one appointment out so
// a reschedule does not collide with itself.
func (s *Service) bookedTimes(doctorID string, date time.Time, excludeID string) map[TimeOfDay]bool {
	booked := map[TimeOfDay]bool{}
	day := dateOnly(date)
	for _, a := range s.Get(Filter{DoctorID: doctorID}) {
		if a.ID != excludeID && a.Status != StatusCancelled && a.Date.Equal(day) {
			booked[a.Time] = true
		}
	}
	return booked
}

func (s *Service) timeAvailable(doctorID string, date time.Time, tod TimeOfDay, excludeID string) error {
	defs := s.slots.ByDoctor(doctorID)
	if len(defs) == 0 {
		return ErrNoAvailability
	}
	for _, t := range EnumerateTimes(defs, date, s.bookedTimes(doctorID, date, excludeID), s.step) {
		if t == tod {
			return nil
		}
	}
	return ErrTimeNotAvailable
}

// EnumerateTimes is the pure slot arithmetic behind AvailableTimes.
func EnumerateTimes(defs []*SlotDefinition, date time.Time, booked map[TimeOfDay]bool, stepMinutes int) []TimeOfDay {
	var out []TimeOfDay
	weekday := date.Weekday()
	for _, def := range defs {
		if !def.CoversDay(weekday) {
			continue
		}
		startM := def.Start.Hour*60 + def.Start.Minute
		endM := def.End.Hour*60 + def.End.Minute
		for m := startM; m <= endM; m += stepMinutes {
			t := TimeOfDay{Hour: m / 60, Minute: m % 60}
			if !booked[t] {
				out = append(out, t)
			}
		}
	}
	return out
}

func (s *Service) find(id string) *Appointment {
	for _, a := range s.appts.All() {
		if strings.EqualFold(a.ID, id) {
			return a
		}
	}
	return nil
}
