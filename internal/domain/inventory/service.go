package inventory

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

var (
	ErrUnknownMedicine   = errors.New("medicine is not in the inventory and was not confirmed as new")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrRequestNotPending = errors.New("replenishment request is not pending")
)

// Service manages the medicine inventory and the replenishment workflow.
// Stock only ever increases through an administrator approving a request.
type Service struct {
	medicines MedicineRepository
	requests  RequestRepository
	log       zerolog.Logger
}

func NewService(medicines MedicineRepository, requests RequestRepository, log zerolog.Logger) *Service {
	return &Service{medicines: medicines, requests: requests, log: log}
}

// Medicines lists the full inventory.
func (s *Service) Medicines() []*Medicine {
	return s.medicines.All()
}

// FindMedicine looks a medicine up by name, case-insensitively.
func (s *Service) FindMedicine(name string) (*Medicine, error) {
	m, ok := s.medicines.FindByName(name)
	if !ok {
		return nil, ErrMedicineNotFound
	}
	return m, nil
}

// LowStock lists medicines at or below their alert threshold.
func (s *Service) LowStock() []*Medicine {
	var out []*Medicine
	for _, m := range s.medicines.All() {
		if m.LowStock() {
			out = append(out, m)
		}
	}
	return out
}

// AddMedicine registers a new medicine.
func (s *Service) AddMedicine(name string, stock, lowStockThreshold int) (*Medicine, error) {
	m, err := NewMedicine(name, stock, lowStockThreshold)
	if err != nil {
		return nil, err
	}
	if err := s.medicines.Add(m); err != nil {
		return nil, err
	}
	s.log.Info().Str("medicine", m.Name).Int("stock", m.Stock).Msg("medicine added")
	return m, nil
}

// UpdateMedicine replaces a medicine's stock and threshold.
func (s *Service) UpdateMedicine(name string, stock, lowStockThreshold int) error {
	m, ok := s.medicines.FindByName(name)
	if !ok {
		return ErrMedicineNotFound
	}
	if stock < 0 || lowStockThreshold < 0 {
		return fmt.Errorf("stock and threshold must not be negative")
	}
	m.Stock = stock
	m.LowStockThreshold = lowStockThreshold
	return s.medicines.Update(m)
}

// RemoveMedicine deletes a medicine from the inventory.
func (s *Service) RemoveMedicine(name string) error {
	if err := s.medicines.Remove(name); err != nil {
		return err
	}
	s.log.Info().Str("medicine", name).Msg("medicine removed")
	return nil
}

// Dispense deducts the prescribed quantity from stock. A missing medicine is
// logged and skipped so the prescription handout itself is never blocked.
func (s *Service) Dispense(medicineName string, quantity int) error {
	m, ok := s.medicines.FindByName(medicineName)
	if !ok {
		s.log.Warn().Str("medicine", medicineName).Msg("dispensing a medicine that is not in the inventory; stock unchanged")
		return nil
	}
	if m.Stock < quantity {
		return fmt.Errorf("%w: %s has %d, need %d", ErrInsufficientStock, m.Name, m.Stock, quantity)
	}
	m.Stock -= quantity
	if err := s.medicines.Update(m); err != nil {
		return fmt.Errorf("persist inventory: %w", err)
	}
	if m.LowStock() {
		s.log.Warn().Str("medicine", m.Name).Int("stock", m.Stock).
			Int("threshold", m.LowStockThreshold).Msg("medicine at or below low-stock threshold")
	}
	return nil
}

// CreateRequest files a replenishment request. The medicine must already
// exist, or the requester must have confirmed it is new. Stock is not
// touched here; it changes only on approval. One pending request per
// (medicine, requester) pair.
func (s *Service) CreateRequest(medicineName string, quantity int, requestBy string, confirmedNew bool) (*ReplenishmentRequest, error) {
	_, exists := s.medicines.FindByName(medicineName)
	if !exists && !confirmedNew {
		return nil, ErrUnknownMedicine
	}
	if existing, ok := s.requests.Find(medicineName, requestBy); ok && existing.Status == RequestPending {
		return nil, ErrDuplicateRequest
	}
	req, err := NewReplenishmentRequest(medicineName, quantity, requestBy, !exists)
	if err != nil {
		return nil, err
	}
	if err := s.requests.Append(req); err != nil {
		return nil, fmt.Errorf("persist request: %w", err)
	}
	s.log.Info().Str("medicine", medicineName).Int("quantity", quantity).
		Str("request_by", requestBy).Msg("replenishment request created")
	return req, nil
}

// PendingRequests lists requests awaiting an administrator's decision.
func (s *Service) PendingRequests() []*ReplenishmentRequest {
	return s.requests.Pending()
}

// Approve fulfils a pending request and applies the stock increase. A
// confirmed-new medicine is added to the inventory with the requested stock.
func (s *Service) Approve(medicineName, requestBy string) error {
	req, ok := s.requests.Find(medicineName, requestBy)
	if !ok {
		return ErrRequestNotFound
	}
	if req.Status != RequestPending {
		return ErrRequestNotPending
	}

	if m, exists := s.medicines.FindByName(req.MedicineName); exists {
		m.Stock += req.RequestedStock
		if err := s.medicines.Update(m); err != nil {
			return fmt.Errorf("persist inventory: %w", err)
		}
	} else {
		added, err := NewMedicine(req.MedicineName, req.RequestedStock, 0)
		if err != nil {
			return err
		}
		if err := s.medicines.Add(added); err != nil {
			return fmt.Errorf("add new medicine: %w", err)
		}
	}

	req.Status = RequestFulfilled
	if err := s.requests.Persist(); err != nil {
		return fmt.Errorf("persist request: %w", err)
	}
	s.log.Info().Str("medicine", req.MedicineName).Int("quantity", req.RequestedStock).
		Msg("replenishment request approved")
	return nil
}

// Deny cancels a pending request without touching stock.
func (s *Service) Deny(medicineName, requestBy string) error {
	req, ok := s.requests.Find(medicineName, requestBy)
	if !ok {
		return ErrRequestNotFound
	}
	if req.Status != RequestPending {
		return ErrRequestNotPending
	}
	req.Status = RequestCancelled
	if err := s.requests.Persist(); err != nil {
		return fmt.Errorf("persist request: %w", err)
	}
	s.log.Info().Str("medicine", req.MedicineName).Msg("replenishment request denied")
	return nil
}
