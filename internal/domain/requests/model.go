// Package requests provides the purchase-request workflow: employees ask
// for items to be bought, quotations are collected, and an approver
// settles the outcome.
package requests

import (
	"context"
	"time"

	"github.com/FeliPerrelliACT/Almoxarifado/internal/core/apperror"
	"github.com/FeliPerrelliACT/Almoxarifado/internal/core/entity"
	"github.com/FeliPerrelliACT/Almoxarifado/internal/core/id"
	"github.com/FeliPerrelliACT/Almoxarifado/internal/core/types"
)

// Status is the workflow state of a purchase request. The set is closed:
// persistence and transport reject anything outside it.
type Status string

const (
	StatusDraft             Status = "draft"
	StatusSubmitted         Status = "submitted"
	StatusQuoting           Status = "quoting"
	StatusEvaluating        Status = "evaluating"
	StatusApproved          Status = "approved"
	StatusRejected          Status = "rejected"
	StatusStandby           Status = "standby"
	StatusRevisionRequested Status = "revision_requested"
	StatusCancelled         Status = "cancelled"
)

// transitions maps each status to the statuses it may move to.
// Cancellation from non-terminal states is handled separately.
var transitions = map[Status][]Status{
	StatusDraft:             {StatusSubmitted},
	StatusSubmitted:         {StatusQuoting},
	StatusQuoting:           {StatusEvaluating},
	StatusEvaluating:        {StatusApproved, StatusRejected, StatusStandby, StatusRevisionRequested},
	StatusStandby:           {StatusEvaluating},
	StatusRevisionRequested: {StatusSubmitted},
}

// IsValid reports whether s belongs to the closed status set.
func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusSubmitted, StatusQuoting, StatusEvaluating,
		StatusApproved, StatusRejected, StatusStandby,
		StatusRevisionRequested, StatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no further transitions are allowed.
func (s Status) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected || s == StatusCancelled
}

// CanTransitionTo reports whether the move from s to target is allowed.
func (s Status) CanTransitionTo(target Status) bool {
	if target == StatusCancelled {
		return !s.IsTerminal()
	}
	for _, allowed := range transitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// Editable reports whether the request body may still be changed.
func (s Status) Editable() bool {
	return s == StatusDraft || s == StatusRevisionRequested
}

// Request is a purchase request raised by an employee.
type Request struct {
	entity.BaseEntity
	entity.AuditFields

	// Number is the generated document number (e.g. REQ-2026-00042)
	Number string `db:"number" json:"number"`

	RequesterID     id.ID  `db:"requester_id" json:"requesterId"`
	CostCenterID    id.ID  `db:"cost_center_id" json:"costCenterId"`
	FinancialPlanID id.ID  `db:"financial_plan_id" json:"financialPlanId"`
	Justification   string `db:"justification" json:"justification"`

	Status Status `db:"status" json:"status"`

	// Lines are loaded with the request, stored separately
	Lines []RequestLine `db:"-" json:"lines"`
}

// RequestLine is one requested product.
type RequestLine struct {
	ID        id.ID          `db:"id" json:"id"`
	RequestID id.ID          `db:"request_id" json:"requestId"`
	ProductID id.ID          `db:"product_id" json:"productId"`
	Quantity  types.Quantity `db:"quantity" json:"quantity"`
	Detail    string         `db:"detail" json:"detail,omitempty"`
}

// Quotation is supplier pricing attached to a request. Only document
// metadata is stored; the file itself lives elsewhere.
type Quotation struct {
	ID           id.ID       `db:"id" json:"id"`
	RequestID    id.ID       `db:"request_id" json:"requestId"`
	SupplierName string      `db:"supplier_name" json:"supplierName"`
	Amount       types.Money `db:"amount" json:"amount"`
	FileName     string      `db:"file_name" json:"fileName,omitempty"`
	UploadedBy   string      `db:"uploaded_by" json:"uploadedBy"`
	UploadedAt   time.Time   `db:"uploaded_at" json:"uploadedAt"`
}

// NewRequest creates a draft request.
func NewRequest(requesterID, costCenterID, financialPlanID id.ID, justification string) *Request {
	return &Request{
		BaseEntity:      entity.NewBaseEntity(),
		AuditFields:     entity.NewAuditFields(),
		RequesterID:     requesterID,
		CostCenterID:    costCenterID,
		FinancialPlanID: financialPlanID,
		Justification:   justification,
		Status:          StatusDraft,
	}
}

// AddLine appends a product line.
func (r *Request) AddLine(productID id.ID, quantity types.Quantity, detail string) {
	r.Lines = append(r.Lines, RequestLine{
		ID:        id.New(),
		RequestID: r.ID,
		ProductID: productID,
		Quantity:  quantity,
		Detail:    detail,
	})
}

// Validate implements entity.Validatable interface.
func (r *Request) Validate(ctx context.Context) error {
	if id.IsNil(r.RequesterID) {
		return apperror.NewValidation("requester is required").WithDetail("field", "requesterId")
	}
	if id.IsNil(r.CostCenterID) {
		return apperror.NewValidation("cost center is required").WithDetail("field", "costCenterId")
	}
	if id.IsNil(r.FinancialPlanID) {
		return apperror.NewValidation("financial plan is required").WithDetail("field", "financialPlanId")
	}
	if !r.Status.IsValid() {
		return apperror.NewValidation("invalid status").
			WithDetail("field", "status").WithDetail("value", string(r.Status))
	}
	if len(r.Lines) == 0 {
		return apperror.NewValidation("at least one line is required").WithDetail("field", "lines")
	}
	for i, line := range r.Lines {
		if id.IsNil(line.ProductID) {
			return apperror.NewValidation("line product is required").WithDetail("line", i)
		}
		if !line.Quantity.IsPositive() {
			return apperror.NewValidation("line quantity must be positive").WithDetail("line", i)
		}
	}
	return nil
}

// Validate checks quotation invariants.
func (q *Quotation) Validate(ctx context.Context) error {
	if q.SupplierName == "" {
		return apperror.NewValidation("supplier name is required").WithDetail("field", "supplierName")
	}
	if q.Amount.IsNegative() {
		return apperror.NewValidation("amount cannot be negative").WithDetail("field", "amount")
	}
	return nil
}
