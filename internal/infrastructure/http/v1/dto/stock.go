package dto

import (
	"time"

	"github.com/FeliPerrelliACT/Almoxarifado/internal/core/apperror"
	"github.com/FeliPerrelliACT/Almoxarifado/internal/core/entity"
	"github.com/FeliPerrelliACT/Almoxarifado/internal/core/id"
	"github.com/FeliPerrelliACT/Almoxarifado/internal/core/types"
	"github.com/FeliPerrelliACT/Almoxarifado/internal/domain/ledger"
)

// --- Movement request DTOs ---

// MovementLineRequest is one product/quantity pair of a batch.
type MovementLineRequest struct {
	ProductID string `json:"productId" binding:"required,uuid"`
	Quantity  int64  `json:"quantity" binding:"required,gt=0"`
}

func toLines(in []MovementLineRequest) ([]ledger.Line, error) {
	lines := make([]ledger.Line, len(in))
	for i, l := range in {
		productID, err := id.Parse(l.ProductID)
		if err != nil {
			return nil, apperror.NewValidation("invalid productId format").
				WithDetail("line", i)
		}
		lines[i] = ledger.Line{ProductID: productID, Quantity: types.Quantity(l.Quantity)}
	}
	return lines, nil
}

// EntryRequest records an inbound batch: purchase arrival or employee return.
type EntryRequest struct {
	Location   string                `json:"location" binding:"required"`
	Kind       string                `json:"kind" binding:"required,oneof=purchase return"`
	EmployeeID *string               `json:"employeeId"`
	Lines      []MovementLineRequest `json:"lines" binding:"required,min=1"`
}

// ToInput converts DTO to domain input.
func (r *EntryRequest) ToInput() (ledger.EntryInput, error) {
	lines, err := toLines(r.Lines)
	if err != nil {
		return ledger.EntryInput{}, err
	}

	in := ledger.EntryInput{
		Location: r.Location,
		Kind:     entity.EntryKind(r.Kind),
		Lines:    lines,
	}

	if r.EmployeeID != nil && *r.EmployeeID != "" {
		employeeID, err := id.Parse(*r.EmployeeID)
		if err != nil {
			return ledger.EntryInput{}, apperror.NewValidation("invalid employeeId format")
		}
		in.EmployeeID = &employeeID
	}

	return in, nil
}

// ExitRequest records an outbound batch withdrawn by an employee.
type ExitRequest struct {
	Location     string                `json:"location" binding:"required"`
	EmployeeID   string                `json:"employeeId" binding:"required,uuid"`
	CostCenterID string                `json:"costCenterId" binding:"required,uuid"`
	Note         string                `json:"note"`
	Lines        []MovementLineRequest `json:"lines" binding:"required,min=1"`
}

// ToInput converts DTO to domain input.
func (r *ExitRequest) ToInput() (ledger.ExitInput, error) {
	lines, err := toLines(r.Lines)
	if err != nil {
		return ledger.ExitInput{}, err
	}

	employeeID, err := id.Parse(r.EmployeeID)
	if err != nil {
		return ledger.ExitInput{}, apperror.NewValidation("invalid employeeId format")
	}
	costCenterID, err := id.Parse(r.CostCenterID)
	if err != nil {
		return ledger.ExitInput{}, apperror.NewValidation("invalid costCenterId format")
	}

	return ledger.ExitInput{
		Location:     r.Location,
		EmployeeID:   employeeID,
		CostCenterID: costCenterID,
		Note:         r.Note,
		Lines:        lines,
	}, nil
}

// TransferRequest moves a batch between two locations.
type TransferRequest struct {
	Source      string                `json:"source" binding:"required"`
	Destination string                `json:"destination" binding:"required"`
	EmployeeID  *string               `json:"employeeId"`
	Note        string                `json:"note"`
	Lines       []MovementLineRequest `json:"lines" binding:"required,min=1"`
}

// ToInput converts DTO to domain input.
func (r *TransferRequest) ToInput() (ledger.TransferInput, error) {
	lines, err := toLines(r.Lines)
	if err != nil {
		return ledger.TransferInput{}, err
	}

	in := ledger.TransferInput{
		Source:      r.Source,
		Destination: r.Destination,
		Note:        r.Note,
		Lines:       lines,
	}

	if r.EmployeeID != nil && *r.EmployeeID != "" {
		employeeID, err := id.Parse(*r.EmployeeID)
		if err != nil {
			return ledger.TransferInput{}, apperror.NewValidation("invalid employeeId format")
		}
		in.EmployeeID = &employeeID
	}

	return in, nil
}

// --- Response DTOs ---

// MovementRecordResponse is one persisted ledger record.
type MovementRecordResponse struct {
	ID        string    `json:"id"`
	ProductID string    `json:"productId"`
	Quantity  int64     `json:"quantity"`
	ActorID   string    `json:"actorId"`
	CreatedAt time.Time `json:"createdAt"`
}

func fromMovementBase(m entity.MovementBase) MovementRecordResponse {
	return MovementRecordResponse{
		ID:        m.ID.String(),
		ProductID: m.ProductID.String(),
		Quantity:  m.Quantity.Int64(),
		ActorID:   m.ActorID,
		CreatedAt: m.CreatedAt,
	}
}

// MovementBatchResponse confirms a recorded batch.
type MovementBatchResponse struct {
	Records []MovementRecordResponse `json:"records"`
}

// FromEntryRecords builds a batch confirmation from entry records.
func FromEntryRecords(records []entity.EntryRecord) MovementBatchResponse {
	out := make([]MovementRecordResponse, len(records))
	for i, r := range records {
		out[i] = fromMovementBase(r.MovementBase)
	}
	return MovementBatchResponse{Records: out}
}

// FromExitRecords builds a batch confirmation from exit records.
func FromExitRecords(records []entity.ExitRecord) MovementBatchResponse {
	out := make([]MovementRecordResponse, len(records))
	for i, r := range records {
		out[i] = fromMovementBase(r.MovementBase)
	}
	return MovementBatchResponse{Records: out}
}

// FromTransferRecords builds a batch confirmation from transfer records.
func FromTransferRecords(records []entity.TransferRecord) MovementBatchResponse {
	out := make([]MovementRecordResponse, len(records))
	for i, r := range records {
		out[i] = fromMovementBase(r.MovementBase)
	}
	return MovementBatchResponse{Records: out}
}

// BalanceRowResponse is one row of the balances view.
type BalanceRowResponse struct {
	ProductID     string `json:"productId"`
	ProductName   string `json:"productName"`
	Unit          string `json:"unit"`
	Category      string `json:"category"`
	ProductActive bool   `json:"productActive"`
	Location      string `json:"location"`
	Quantity      int64  `json:"quantity"`
}

// FromBalanceRow converts the view projection to a response row.
func FromBalanceRow(b ledger.BalanceRow) BalanceRowResponse {
	return BalanceRowResponse{
		ProductID:     b.ProductID.String(),
		ProductName:   b.ProductName,
		Unit:          b.Unit,
		Category:      b.Category,
		ProductActive: b.ProductActive,
		Location:      b.Location,
		Quantity:      b.Quantity.Int64(),
	}
}

// HistoryRecordResponse is one movement in a mixed history listing.
type HistoryRecordResponse struct {
	Kind         string    `json:"kind"`
	ID           string    `json:"id"`
	ProductID    string    `json:"productId"`
	ProductName  string    `json:"productName"`
	Quantity     int64     `json:"quantity"`
	Location     string    `json:"location"`
	Destination  string    `json:"destination,omitempty"`
	EntryKind    string    `json:"entryKind,omitempty"`
	EmployeeID   string    `json:"employeeId,omitempty"`
	CostCenterID string    `json:"costCenterId,omitempty"`
	Note         string    `json:"note,omitempty"`
	ActorID      string    `json:"actorId"`
	CreatedAt    time.Time `json:"createdAt"`
}

// FromHistoryRecord converts a history projection to a response row.
func FromHistoryRecord(h ledger.HistoryRecord) HistoryRecordResponse {
	resp := HistoryRecordResponse{
		Kind:        string(h.Kind),
		ID:          h.ID.String(),
		ProductID:   h.ProductID.String(),
		ProductName: h.ProductName,
		Quantity:    h.Quantity.Int64(),
		Location:    h.Location,
		Destination: h.Destination,
		Note:        h.Note,
		ActorID:     h.ActorID,
		CreatedAt:   h.CreatedAt,
	}
	if h.EntryKind != nil {
		resp.EntryKind = string(*h.EntryKind)
	}
	if h.EmployeeID != nil {
		resp.EmployeeID = h.EmployeeID.String()
	}
	if h.CostCenterID != nil {
		resp.CostCenterID = h.CostCenterID.String()
	}
	return resp
}

// LocationsResponse lists locations holding positive stock.
type LocationsResponse struct {
	Locations []string `json:"locations"`
}
