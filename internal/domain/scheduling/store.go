package scheduling

import (
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/hms/hms/internal/platform/csvstore"
)

// AppointmentStore is the CSV-backed appointment repository. Unlike the
// generic store it never deduplicates, and every load runs the staleness
// cleanup: past-dated PENDING appointments are dropped outright, past-dated
// ACCEPTED ones are marked CANCELLED and retained.
type AppointmentStore struct {
	store *csvstore.Store[*Appointment]
	now   func() time.Time
	log   zerolog.Logger
	appts []*Appointment
}

func NewAppointmentStore(fs afero.Fs, path string, now func() time.Time, log zerolog.Logger) *AppointmentStore {
	if now == nil {
		now = time.Now
	}
	return &AppointmentStore{
		store: csvstore.New[*Appointment](fs, path, AppointmentCodec{}, csvstore.Options{}, log),
		now:   now,
		log:   log,
	}
}

// Reload replaces the in-memory collection from disk and applies the
// staleness cleanup. The cleaned collection is not written back until the
// next mutation persists.
func (s *AppointmentStore) Reload() error {
	loaded, err := s.store.Load()
	if err != nil {
		return err
	}

	today := dateOnly(s.now())
	kept := loaded[:0]
	for _, a := range loaded {
		if a.Date.Before(today) {
			switch a.Status {
			case StatusPending:
				s.log.Info().Str("appointment_id", a.ID).Msg("dropping outdated pending appointment")
				continue
			case StatusAccepted:
				s.log.Info().Str("appointment_id", a.ID).Msg("cancelling outdated accepted appointment")
				a.Status = StatusCancelled
			}
		}
		kept = append(kept, a)
	}
	s.appts = kept
	return nil
}

func (s *AppointmentStore) All() []*Appointment {
	out := make([]*Appointment, len(s.appts))
	copy(out, s.appts)
	return out
}

func (s *AppointmentStore) Add(a *Appointment) {
	s.appts = append(s.appts, a)
}

func (s *AppointmentStore) Replace(appts []*Appointment) {
	s.appts = appts
}

func (s *AppointmentStore) Persist() error {
	return s.store.Save(s.appts)
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SlotStore is the CSV-backed slot definition repository. Adding a
// definition that overlaps an existing one for the same doctor is rejected.
type SlotStore struct {
	store *csvstore.Store[*SlotDefinition]
	log   zerolog.Logger
	defs  []*SlotDefinition
}

func NewSlotStore(fs afero.Fs, path string, log zerolog.Logger) *SlotStore {
	return &SlotStore{
		store: csvstore.New[*SlotDefinition](fs, path, SlotCodec{}, csvstore.Options{Dedup: true}, log),
		log:   log,
	}
}

func (s *SlotStore) Reload() error {
	defs, err := s.store.Load()
	if err != nil {
		return err
	}
	s.defs = defs
	return nil
}

func (s *SlotStore) All() []*SlotDefinition {
	out := make([]*SlotDefinition, len(s.defs))
	copy(out, s.defs)
	return out
}

func (s *SlotStore) ByDoctor(doctorID string) []*SlotDefinition {
	var out []*SlotDefinition
	for _, d := range s.defs {
		if strings.EqualFold(d.DoctorID, doctorID) {
			out = append(out, d)
		}
	}
	return out
}

func (s *SlotStore) Add(def *SlotDefinition) error {
	for _, existing := range s.defs {
		if def.Overlaps(existing) {
			return ErrSlotOverlap
		}
	}
	s.defs = append(s.defs, def)
	return s.store.Save(s.defs)
}

// ReplaceForDoctor swaps out every definition belonging to the doctor. The
// replacements must not overlap each other or any other doctor's entries
// (the latter cannot happen, but the check is uniform).
func (s *SlotStore) ReplaceForDoctor(doctorID string, defs []*SlotDefinition) error {
	var next []*SlotDefinition
	for _, d := range s.defs {
		if !strings.EqualFold(d.DoctorID, doctorID) {
			next = append(next, d)
		}
	}
	for _, def := range defs {
		for _, existing := range next {
			if def.Overlaps(existing) {
				return ErrSlotOverlap
			}
		}
		next = append(next, def)
	}
	s.defs = next
	return s.store.Save(s.defs)
}
