package inventory

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	medicineHeader = "Name,InitialStock,LowStockLevelAlert"
	requestHeader  = "MedicineName,RequestedQuantity,Status,RequestBy,IsNewMedicine"
)

type MedicineCodec struct{}

func (MedicineCodec) Header() string { return medicineHeader }

func (MedicineCodec) Parse(line string) (*Medicine, error) {
	fields := strings.Split(line, ",")
	if len(fields) != 3 {
		return nil, fmt.Errorf("expected 3 fields, got %d", len(fields))
	}
	stock, err := strconv.Atoi(strings.TrimSpace(fields[1]))
	if err != nil {
		return nil, fmt.Errorf("invalid stock %q", fields[1])
	}
	threshold, err := strconv.Atoi(strings.TrimSpace(fields[2]))
	if err != nil {
		return nil, fmt.Errorf("invalid low stock threshold %q", fields[2])
	}
	return NewMedicine(strings.TrimSpace(fields[0]), stock, threshold)
}

func (MedicineCodec) Format(m *Medicine) string {
	return strings.Join([]string{
		m.Name,
		strconv.Itoa(m.Stock),
		strconv.Itoa(m.LowStockThreshold),
	}, ",")
}

type RequestCodec struct{}

func (RequestCodec) Header() string { return requestHeader }

func (RequestCodec) Parse(line string) (*ReplenishmentRequest, error) {
	fields := strings.Split(line, ",")
	if len(fields) != 5 {
		return nil, fmt.Errorf("expected 5 fields, got %d", len(fields))
	}
	qty, err := strconv.Atoi(strings.TrimSpace(fields[1]))
	if err != nil {
		return nil, fmt.Errorf("invalid quantity %q", fields[1])
	}
	status, err := ParseRequestStatus(fields[2])
	if err != nil {
		return nil, err
	}
	isNew, err := strconv.ParseBool(strings.TrimSpace(fields[4]))
	if err != nil {
		return nil, fmt.Errorf("invalid new-medicine flag %q", fields[4])
	}
	req, err := NewReplenishmentRequest(strings.TrimSpace(fields[0]), qty,
		strings.TrimSpace(fields[3]), isNew)
	if err != nil {
		return nil, err
	}
	req.Status = status
	return req, nil
}

func (RequestCodec) Format(r *ReplenishmentRequest) string {
	return strings.Join([]string{
		r.MedicineName,
		strconv.Itoa(r.RequestedStock),
		string(r.Status),
		r.RequestBy,
		strconv.FormatBool(r.IsNewMedicine),
	}, ",")
}
