package inventory

import (
	"fmt"
	"strings"
)

// Medicine is one inventory line: current stock plus the threshold at or
// below which the low-stock alert fires.
type Medicine struct {
	Name              string
	Stock             int
	LowStockThreshold int
}

func NewMedicine(name string, stock, lowStockThreshold int) (*Medicine, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("medicine name must not be empty")
	}
	if stock < 0 {
		return nil, fmt.Errorf("stock must not be negative")
	}
	if lowStockThreshold < 0 {
		return nil, fmt.Errorf("low stock threshold must not be negative")
	}
	return &Medicine{Name: name, Stock: stock, LowStockThreshold: lowStockThreshold}, nil
}

// LowStock reports whether the medicine is at or below its alert threshold.
func (m *Medicine) LowStock() bool {
	return m.Stock <= m.LowStockThreshold
}

// RequestStatus is the lifecycle of a replenishment request.
type RequestStatus string

const (
	RequestPending   RequestStatus = "PENDING"
	RequestFulfilled RequestStatus = "FULFILLED"
	RequestCancelled RequestStatus = "CANCELLED"
)

func ParseRequestStatus(s string) (RequestStatus, error) {
	switch RequestStatus(strings.ToUpper(strings.TrimSpace(s))) {
	case RequestPending:
		return RequestPending, nil
	case RequestFulfilled:
		return RequestFulfilled, nil
	case RequestCancelled:
		return RequestCancelled, nil
	}
	return "", fmt.Errorf("unknown request status %q", s)
}

// ReplenishmentRequest asks an administrator to raise a medicine's stock.
// Requests are identified by the (medicine, requester) pair.
type ReplenishmentRequest struct {
	MedicineName   string
	RequestedStock int
	Status         RequestStatus
	RequestBy      string
	IsNewMedicine  bool
}

func NewReplenishmentRequest(medicineName string, requestedStock int, requestBy string, isNewMedicine bool) (*ReplenishmentRequest, error) {
	if strings.TrimSpace(medicineName) == "" {
		return nil, fmt.Errorf("medicine name must not be empty")
	}
	if requestedStock <= 0 {
		return nil, fmt.Errorf("requested stock must be positive")
	}
	if strings.TrimSpace(requestBy) == "" {
		return nil, fmt.Errorf("requester must not be empty")
	}
	return &ReplenishmentRequest{
		MedicineName:   medicineName,
		RequestedStock: requestedStock,
		Status:         RequestPending,
		RequestBy:      requestBy,
		IsNewMedicine:  isNewMedicine,
	}, nil
}
