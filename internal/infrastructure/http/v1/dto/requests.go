package dto

import (
	"time"

	"github.com/FeliPerrelliACT/Almoxarifado/internal/core/apperror"
	"github.com/FeliPerrelliACT/Almoxarifado/internal/core/id"
	"github.com/FeliPerrelliACT/Almoxarifado/internal/core/types"
	"github.com/FeliPerrelliACT/Almoxarifado/internal/domain/requests"
)

// --- Request DTOs ---

// RequestLineRequest is one requested product line.
type RequestLineRequest struct {
	ProductID string `json:"productId" binding:"required,uuid"`
	Quantity  int64  `json:"quantity" binding:"required,gt=0"`
	Detail    string `json:"detail"`
}

// CreatePurchaseRequest is the request body for raising a purchase request.
type CreatePurchaseRequest struct {
	RequesterID     string               `json:"requesterId" binding:"required,uuid"`
	CostCenterID    string               `json:"costCenterId" binding:"required,uuid"`
	FinancialPlanID string               `json:"financialPlanId" binding:"required,uuid"`
	Justification   string               `json:"justification" binding:"required"`
	Lines           []RequestLineRequest `json:"lines" binding:"required,min=1"`
}

// ToEntity converts DTO to a draft request.
func (r *CreatePurchaseRequest) ToEntity() (*requests.Request, error) {
	requesterID, err := id.Parse(r.RequesterID)
	if err != nil {
		return nil, apperror.NewValidation("invalid requesterId format")
	}
	costCenterID, err := id.Parse(r.CostCenterID)
	if err != nil {
		return nil, apperror.NewValidation("invalid costCenterId format")
	}
	planID, err := id.Parse(r.FinancialPlanID)
	if err != nil {
		return nil, apperror.NewValidation("invalid financialPlanId format")
	}

	req := requests.NewRequest(requesterID, costCenterID, planID, r.Justification)
	for i, l := range r.Lines {
		productID, err := id.Parse(l.ProductID)
		if err != nil {
			return nil, apperror.NewValidation("invalid productId format").WithDetail("line", i)
		}
		req.AddLine(productID, types.Quantity(l.Quantity), l.Detail)
	}
	return req, nil
}

// UpdatePurchaseRequest replaces the editable body of a purchase request.
type UpdatePurchaseRequest struct {
	CostCenterID    string               `json:"costCenterId" binding:"required,uuid"`
	FinancialPlanID string               `json:"financialPlanId" binding:"required,uuid"`
	Justification   string               `json:"justification" binding:"required"`
	Lines           []RequestLineRequest `json:"lines" binding:"required,min=1"`
	Version         int                  `json:"version" binding:"required"`
}

// ApplyTo applies the update onto the loaded request.
func (r *UpdatePurchaseRequest) ApplyTo(req *requests.Request) error {
	costCenterID, err := id.Parse(r.CostCenterID)
	if err != nil {
		return apperror.NewValidation("invalid costCenterId format")
	}
	planID, err := id.Parse(r.FinancialPlanID)
	if err != nil {
		return apperror.NewValidation("invalid financialPlanId format")
	}

	req.CostCenterID = costCenterID
	req.FinancialPlanID = planID
	req.Justification = r.Justification
	req.Version = r.Version

	req.Lines = nil
	for i, l := range r.Lines {
		productID, err := id.Parse(l.ProductID)
		if err != nil {
			return apperror.NewValidation("invalid productId format").WithDetail("line", i)
		}
		req.AddLine(productID, types.Quantity(l.Quantity), l.Detail)
	}
	return nil
}

// TransitionRequest moves a purchase request to a new workflow status.
type TransitionRequest struct {
	Status  string `json:"status" binding:"required"`
	Comment string `json:"comment"`
}

// AddQuotationRequest attaches supplier pricing to a request.
type AddQuotationRequest struct {
	SupplierName string      `json:"supplierName" binding:"required"`
	Amount       types.Money `json:"amount" binding:"required"`
	FileName     string      `json:"fileName"`
}

// ToEntity converts DTO to domain quotation.
func (r *AddQuotationRequest) ToEntity() *requests.Quotation {
	return &requests.Quotation{
		SupplierName: r.SupplierName,
		Amount:       r.Amount,
		FileName:     r.FileName,
	}
}

// --- Response DTOs ---

// RequestLineResponse is one line of a purchase request.
type RequestLineResponse struct {
	ID        string `json:"id"`
	ProductID string `json:"productId"`
	Quantity  int64  `json:"quantity"`
	Detail    string `json:"detail,omitempty"`
}

// PurchaseRequestResponse is the response body for a purchase request.
type PurchaseRequestResponse struct {
	ID              string                `json:"id"`
	Number          string                `json:"number"`
	RequesterID     string                `json:"requesterId"`
	CostCenterID    string                `json:"costCenterId"`
	FinancialPlanID string                `json:"financialPlanId"`
	Justification   string                `json:"justification"`
	Status          string                `json:"status"`
	Lines           []RequestLineResponse `json:"lines,omitempty"`
	Version         int                   `json:"version"`
	CreatedAt       time.Time             `json:"createdAt"`
	UpdatedAt       time.Time             `json:"updatedAt"`
	CreatedBy       string                `json:"createdBy,omitempty"`
}

// FromRequest creates response DTO from domain entity.
func FromRequest(req *requests.Request) *PurchaseRequestResponse {
	lines := make([]RequestLineResponse, len(req.Lines))
	for i, l := range req.Lines {
		lines[i] = RequestLineResponse{
			ID:        l.ID.String(),
			ProductID: l.ProductID.String(),
			Quantity:  l.Quantity.Int64(),
			Detail:    l.Detail,
		}
	}

	return &PurchaseRequestResponse{
		ID:              req.ID.String(),
		Number:          req.Number,
		RequesterID:     req.RequesterID.String(),
		CostCenterID:    req.CostCenterID.String(),
		FinancialPlanID: req.FinancialPlanID.String(),
		Justification:   req.Justification,
		Status:          string(req.Status),
		Lines:           lines,
		Version:         req.Version,
		CreatedAt:       req.CreatedAt,
		UpdatedAt:       req.UpdatedAt,
		CreatedBy:       req.CreatedBy,
	}
}

// QuotationResponse is the response body for a quotation.
type QuotationResponse struct {
	ID           string      `json:"id"`
	RequestID    string      `json:"requestId"`
	SupplierName string      `json:"supplierName"`
	Amount       types.Money `json:"amount"`
	FileName     string      `json:"fileName,omitempty"`
	UploadedBy   string      `json:"uploadedBy"`
	UploadedAt   time.Time   `json:"uploadedAt"`
}

// FromQuotation creates response DTO from domain entity.
func FromQuotation(q requests.Quotation) QuotationResponse {
	return QuotationResponse{
		ID:           q.ID.String(),
		RequestID:    q.RequestID.String(),
		SupplierName: q.SupplierName,
		Amount:       q.Amount,
		FileName:     q.FileName,
		UploadedBy:   q.UploadedBy,
		UploadedAt:   q.UploadedAt,
	}
}
