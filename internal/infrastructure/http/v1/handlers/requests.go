package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/FeliPerrelliACT/Almoxarifado/internal/core/apperror"
	"github.com/FeliPerrelliACT/Almoxarifado/internal/core/id"
	"github.com/FeliPerrelliACT/Almoxarifado/internal/domain/requests"
	"github.com/FeliPerrelliACT/Almoxarifado/internal/infrastructure/http/v1/dto"
)

// RequestsHandler handles HTTP requests for the purchase request workflow.
type RequestsHandler struct {
	*BaseHandler
	service *requests.Service
}

// NewRequestsHandler creates a new purchase requests handler.
func NewRequestsHandler(base *BaseHandler, service *requests.Service) *RequestsHandler {
	return &RequestsHandler{
		BaseHandler: base,
		service:     service,
	}
}

// Create handles POST /purchase-requests
func (h *RequestsHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreatePurchaseRequest
	if !h.BindJSON(c, &req) {
		return
	}

	entity, err := req.ToEntity()
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := h.service.Create(ctx, h.GetUser(c), entity); err != nil {
		h.Error(c, err)
		return
	}

	resp := dto.FromRequest(entity)
	h.CompleteIdempotency(c, http.StatusCreated, "application/json", resp)
	c.JSON(http.StatusCreated, resp)
}

// GetByID handles GET /purchase-requests/:id
func (h *RequestsHandler) GetByID(c *gin.Context) {
	ctx := c.Request.Context()

	requestID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	req, err := h.service.GetByID(ctx, requestID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromRequest(req))
}

// List handles GET /purchase-requests
func (h *RequestsHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	filter := requests.Filter{
		Search: c.Query("search"),
		Limit:  h.ParseIntQuery(c, "limit", 50),
		Offset: h.ParseIntQuery(c, "offset", 0),
	}

	if sStr := c.Query("status"); sStr != "" {
		status := requests.Status(sStr)
		if !status.IsValid() {
			h.Error(c, apperror.NewValidation("invalid status"))
			return
		}
		filter.Status = &status
	}

	if rStr := c.Query("requesterId"); rStr != "" {
		parsed, err := id.Parse(rStr)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid requesterId format"))
			return
		}
		filter.RequesterID = &parsed
	}

	result, err := h.service.List(ctx, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]*dto.PurchaseRequestResponse, len(result.Items))
	for i, req := range result.Items {
		items[i] = dto.FromRequest(req)
	}

	c.JSON(http.StatusOK, dto.ListResponse{
		Items:      items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}

// Update handles PUT /purchase-requests/:id
func (h *RequestsHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()

	requestID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	var req dto.UpdatePurchaseRequest
	if !h.BindJSON(c, &req) {
		return
	}

	existing, err := h.service.GetByID(ctx, requestID)
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := req.ApplyTo(existing); err != nil {
		h.Error(c, err)
		return
	}

	if err := h.service.Update(ctx, h.GetUser(c), existing); err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromRequest(existing))
}

// Transition handles POST /purchase-requests/:id/transitions
func (h *RequestsHandler) Transition(c *gin.Context) {
	ctx := c.Request.Context()

	requestID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	var req dto.TransitionRequest
	if !h.BindJSON(c, &req) {
		return
	}

	to := requests.Status(req.Status)
	if !to.IsValid() {
		h.Error(c, apperror.NewValidation("invalid target status"))
		return
	}

	updated, err := h.service.Transition(ctx, h.GetUser(c), requestID, to, req.Comment)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromRequest(updated))
}

// Cancel handles POST /purchase-requests/:id/cancel
func (h *RequestsHandler) Cancel(c *gin.Context) {
	ctx := c.Request.Context()

	requestID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	var req dto.TransitionRequest
	// Body optional for cancellation; only the comment is read.
	_ = c.ShouldBindJSON(&req)

	updated, err := h.service.Cancel(ctx, h.GetUser(c), requestID, req.Comment)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromRequest(updated))
}

// AddQuotation handles POST /purchase-requests/:id/quotations
func (h *RequestsHandler) AddQuotation(c *gin.Context) {
	ctx := c.Request.Context()

	requestID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	var req dto.AddQuotationRequest
	if !h.BindJSON(c, &req) {
		return
	}

	quotation := req.ToEntity()
	if err := h.service.AddQuotation(ctx, h.GetUser(c), requestID, quotation); err != nil {
		h.Error(c, err)
		return
	}

	resp := dto.FromQuotation(*quotation)
	h.CompleteIdempotency(c, http.StatusCreated, "application/json", resp)
	c.JSON(http.StatusCreated, resp)
}

// ListQuotations handles GET /purchase-requests/:id/quotations
func (h *RequestsHandler) ListQuotations(c *gin.Context) {
	ctx := c.Request.Context()

	requestID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	quotations, err := h.service.Quotations(ctx, requestID)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]dto.QuotationResponse, len(quotations))
	for i, q := range quotations {
		items[i] = dto.FromQuotation(q)
	}

	c.JSON(http.StatusOK, dto.ListResponse{
		Items:      items,
		TotalCount: int64(len(items)),
	})
}

// RegisterRoutes registers purchase request routes.
func (h *RequestsHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
	rg.GET("/:id", h.GetByID)
	rg.PUT("/:id", h.Update)
	rg.POST("/:id/transitions", h.Transition)
	rg.POST("/:id/cancel", h.Cancel)
	rg.POST("/:id/quotations", h.AddQuotation)
	rg.GET("/:id/quotations", h.ListQuotations)
}
