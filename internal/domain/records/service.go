package records

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/hms/hms/internal/platform/csvstore"
)

var ErrRecordNotFound = errors.New("medical record not found")

// Repository is the store surface the service depends on.
type Repository interface {
	Reload() error
	All() []*MedicalRecord
	FindByPatient(patientID string) (*MedicalRecord, bool)
	Upsert(r *MedicalRecord) error
}

// Store is the CSV-backed medical record repository.
type Store struct {
	store   *csvstore.Store[*MedicalRecord]
	records []*MedicalRecord
}

func NewStore(fs afero.Fs, path string, log zerolog.Logger) *Store {
	return &Store{
		store: csvstore.New[*MedicalRecord](fs, path, Codec{}, csvstore.Options{Dedup: true}, log),
	}
}

func (s *Store) Reload() error {
	records, err := s.store.Load()
	if err != nil {
		return err
	}
	s.records = records
	return nil
}

func (s *Store) All() []*MedicalRecord {
	out := make([]*MedicalRecord, len(s.records))
	copy(out, s.records)
	return out
}

func (s *Store) FindByPatient(patientID string) (*MedicalRecord, bool) {
	for _, r := range s.records {
		if strings.EqualFold(r.PatientID, patientID) {
			return r, true
		}
	}
	return nil, false
}

// Upsert replaces the patient's record, or adds it when absent.
func (s *Store) Upsert(r *MedicalRecord) error {
	for i, existing := range s.records {
		if strings.EqualFold(existing.PatientID, r.PatientID) {
			s.records[i] = r
			return s.store.Save(s.records)
		}
	}
	s.records = append(s.records, r)
	return s.store.Save(s.records)
}

// Service exposes medical record reads and appends. Records are created
// lazily on first write for a patient.
type Service struct {
	repo Repository
	log  zerolog.Logger
}

func NewService(repo Repository, log zerolog.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// Get returns the patient's record or ErrRecordNotFound.
func (s *Service) Get(patientID string) (*MedicalRecord, error) {
	record, ok := s.repo.FindByPatient(patientID)
	if !ok {
		return nil, ErrRecordNotFound
	}
	return record, nil
}

// AddDiagnosis appends a diagnosis to the patient's record, creating the
// record when absent.
func (s *Service) AddDiagnosis(patientID, diagnosis string) error {
	record, err := s.getOrCreate(patientID)
	if err != nil {
		return err
	}
	record.AddDiagnosis(diagnosis)
	return s.repo.Upsert(record)
}

// AddTreatment appends a treatment to the patient's record, creating the
// record when absent.
func (s *Service) AddTreatment(patientID, treatment string) error {
	record, err := s.getOrCreate(patientID)
	if err != nil {
		return err
	}
	record.AddTreatment(treatment)
	return s.repo.Upsert(record)
}

// AppendOutcome folds a completed appointment into the patient's history:
// the service type becomes a diagnosis entry, each prescribed medication a
// treatment entry. Satisfies the scheduling layer's record updater.
func (s *Service) AppendOutcome(patientID, serviceType string, medications []string) error {
	record, err := s.getOrCreate(patientID)
	if err != nil {
		return err
	}
	record.AddDiagnosis(serviceType)
	for _, m := range medications {
		record.AddTreatment(m)
	}
	if err := s.repo.Upsert(record); err != nil {
		return fmt.Errorf("persist medical record: %w", err)
	}
	s.log.Info().Str("patient_id", patientID).Msg("medical record updated from appointment outcome")
	return nil
}

func (s *Service) getOrCreate(patientID string) (*MedicalRecord, error) {
	if record, ok := s.repo.FindByPatient(patientID); ok {
		return record, nil
	}
	return NewMedicalRecord(patientID)
}
