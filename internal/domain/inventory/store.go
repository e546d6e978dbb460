package inventory

import (
	"errors"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/hms/hms/internal/platform/csvstore"
)

var (
	ErrMedicineNotFound = errors.New("medicine not found")
	ErrMedicineExists   = errors.New("medicine already exists")
	ErrRequestNotFound  = errors.New("replenishment request not found")
	ErrDuplicateRequest = errors.New("a pending request for this medicine by this requester already exists")
)

// MedicineRepository is the store surface for the medicine inventory.
type MedicineRepository interface {
	Reload() error
	All() []*Medicine
	FindByName(name string) (*Medicine, bool)
	Add(m *Medicine) error
	Update(m *Medicine) error
	Remove(name string) error
}

// RequestRepository is the store surface for replenishment requests.
type RequestRepository interface {
	Reload() error
	All() []*ReplenishmentRequest
	Pending() []*ReplenishmentRequest
	Find(medicineName, requestBy string) (*ReplenishmentRequest, bool)
	Append(r *ReplenishmentRequest) error
	Persist() error
}

// MedicineStore is the CSV-backed medicine inventory. Names are the
// identity, compared case-insensitively.
type MedicineStore struct {
	store     *csvstore.Store[*Medicine]
	medicines []*Medicine
}

func NewMedicineStore(fs afero.Fs, path string, log zerolog.Logger) *MedicineStore {
	return &MedicineStore{
		store: csvstore.New[*Medicine](fs, path, MedicineCodec{}, csvstore.Options{Dedup: true}, log),
	}
}

func (s *MedicineStore) Reload() error {
	medicines, err := s.store.Load()
	if err != nil {
		return err
	}
	s.medicines = medicines
	return nil
}

func (s *MedicineStore) All() []*Medicine {
	out := make([]*Medicine, len(s.medicines))
	copy(out, s.medicines)
	return out
}

func (s *MedicineStore) FindByName(name string) (*Medicine, bool) {
	for _, m := range s.medicines {
		if strings.EqualFold(m.Name, name) {
			return m, true
		}
	}
	return nil, false
}

func (s *MedicineStore) Add(m *Medicine) error {
	if _, ok := s.FindByName(m.Name); ok {
		return ErrMedicineExists
	}
	s.medicines = append(s.medicines, m)
	return s.store.Save(s.medicines)
}

func (s *MedicineStore) Update(m *Medicine) error {
	for i, existing := range s.medicines {
		if strings.EqualFold(existing.Name, m.Name) {
			s.medicines[i] = m
			return s.store.Save(s.medicines)
		}
	}
	return ErrMedicineNotFound
}

func (s *MedicineStore) Remove(name string) error {
	for i, m := range s.medicines {
		if strings.EqualFold(m.Name, name) {
			s.medicines = append(s.medicines[:i], s.medicines[i+1:]...)
			return s.store.Save(s.medicines)
		}
	}
	return ErrMedicineNotFound
}

// RequestStore is the CSV-backed replenishment request log. New requests are
// appended; status changes rewrite the file.
type RequestStore struct {
	store    *csvstore.Store[*ReplenishmentRequest]
	requests []*ReplenishmentRequest
}

func NewRequestStore(fs afero.Fs, path string, log zerolog.Logger) *RequestStore {
	return &RequestStore{
		store: csvstore.New[*ReplenishmentRequest](fs, path, RequestCodec{}, csvstore.Options{Dedup: true}, log),
	}
}

func (s *RequestStore) Reload() error {
	requests, err := s.store.Load()
	if err != nil {
		return err
	}
	s.requests = requests
	return nil
}

func (s *RequestStore) All() []*ReplenishmentRequest {
	out := make([]*ReplenishmentRequest, len(s.requests))
	copy(out, s.requests)
	return out
}

func (s *RequestStore) Pending() []*ReplenishmentRequest {
	var out []*ReplenishmentRequest
	for _, r := range s.requests {
		if r.Status == RequestPending {
			out = append(out, r)
		}
	}
	return out
}

// Find returns the request for a (medicine, requester) pair. A PENDING
// request wins over settled ones, so repeat requests for the same pair stay
// reachable after earlier cycles are fulfilled or cancelled.
func (s *RequestStore) Find(medicineName, requestBy string) (*ReplenishmentRequest, bool) {
	var settled *ReplenishmentRequest
	for _, r := range s.requests {
		if !strings.EqualFold(r.MedicineName, medicineName) || !strings.EqualFold(r.RequestBy, requestBy) {
			continue
		}
		if r.Status == RequestPending {
			return r, true
		}
		if settled == nil {
			settled = r
		}
	}
	return settled, settled != nil
}

func (s *RequestStore) Append(r *ReplenishmentRequest) error {
	s.requests = append(s.requests, r)
	return s.store.Append(r)
}

func (s *RequestStore) Persist() error {
	return s.store.Save(s.requests)
}
