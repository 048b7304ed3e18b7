package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/FeliPerrelliACT/Almoxarifado/internal/core/apperror"
	"github.com/FeliPerrelliACT/Almoxarifado/internal/core/entity"
	"github.com/FeliPerrelliACT/Almoxarifado/internal/core/id"
	"github.com/FeliPerrelliACT/Almoxarifado/internal/core/types"
	"github.com/FeliPerrelliACT/Almoxarifado/internal/domain/ledger"
	"github.com/FeliPerrelliACT/Almoxarifado/internal/infrastructure/http/v1/dto"
)

// StockHandler handles HTTP requests for the stock ledger.
type StockHandler struct {
	*BaseHandler
	service *ledger.Service
}

// NewStockHandler creates a new stock ledger handler.
func NewStockHandler(base *BaseHandler, service *ledger.Service) *StockHandler {
	return &StockHandler{
		BaseHandler: base,
		service:     service,
	}
}

// RecordEntry handles POST /stock/entries
func (h *StockHandler) RecordEntry(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.EntryRequest
	if !h.BindJSON(c, &req) {
		return
	}

	input, err := req.ToInput()
	if err != nil {
		h.Error(c, err)
		return
	}

	records, err := h.service.RecordEntry(ctx, h.GetUserID(c), input)
	if err != nil {
		h.Error(c, err)
		return
	}

	resp := dto.FromEntryRecords(records)
	h.CompleteIdempotency(c, http.StatusCreated, "application/json", resp)
	c.JSON(http.StatusCreated, resp)
}

// RecordExit handles POST /stock/exits
func (h *StockHandler) RecordExit(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.ExitRequest
	if !h.BindJSON(c, &req) {
		return
	}

	input, err := req.ToInput()
	if err != nil {
		h.Error(c, err)
		return
	}

	records, err := h.service.RecordExit(ctx, h.GetUserID(c), input)
	if err != nil {
		h.Error(c, err)
		return
	}

	resp := dto.FromExitRecords(records)
	h.CompleteIdempotency(c, http.StatusCreated, "application/json", resp)
	c.JSON(http.StatusCreated, resp)
}

// RecordTransfer handles POST /stock/transfers
func (h *StockHandler) RecordTransfer(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.TransferRequest
	if !h.BindJSON(c, &req) {
		return
	}

	input, err := req.ToInput()
	if err != nil {
		h.Error(c, err)
		return
	}

	records, err := h.service.RecordTransfer(ctx, h.GetUserID(c), input)
	if err != nil {
		h.Error(c, err)
		return
	}

	resp := dto.FromTransferRecords(records)
	h.CompleteIdempotency(c, http.StatusCreated, "application/json", resp)
	c.JSON(http.StatusCreated, resp)
}

// GetBalances handles GET /stock/balances
func (h *StockHandler) GetBalances(c *gin.Context) {
	ctx := c.Request.Context()

	filter, ok := h.parseBalanceFilter(c)
	if !ok {
		return
	}

	result, err := h.service.Balances(ctx, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]dto.BalanceRowResponse, len(result.Items))
	for i, row := range result.Items {
		items[i] = dto.FromBalanceRow(row)
	}

	c.JSON(http.StatusOK, dto.ListResponse{
		Items:      items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}

// GetLocations handles GET /stock/locations
func (h *StockHandler) GetLocations(c *gin.Context) {
	ctx := c.Request.Context()

	var productID *id.ID
	if pStr := c.Query("productId"); pStr != "" {
		parsed, err := id.Parse(pStr)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid productId format"))
			return
		}
		productID = &parsed
	}

	locations, err := h.service.LocationsWithStock(ctx, productID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.LocationsResponse{Locations: locations})
}

// GetLocationProducts handles GET /stock/locations/:location/products
func (h *StockHandler) GetLocationProducts(c *gin.Context) {
	ctx := c.Request.Context()

	location := c.Param("location")
	if location == "" {
		h.Error(c, apperror.NewValidation("location is required"))
		return
	}

	rows, err := h.service.ProductsAtLocation(ctx, location)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]dto.BalanceRowResponse, len(rows))
	for i, row := range rows {
		items[i] = dto.FromBalanceRow(row)
	}

	c.JSON(http.StatusOK, dto.ListResponse{
		Items:      items,
		TotalCount: int64(len(items)),
	})
}

// GetMovements handles GET /stock/movements
func (h *StockHandler) GetMovements(c *gin.Context) {
	ctx := c.Request.Context()

	filter, ok := h.parseHistoryFilter(c)
	if !ok {
		return
	}

	result, err := h.service.History(ctx, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]dto.HistoryRecordResponse, len(result.Items))
	for i, rec := range result.Items {
		items[i] = dto.FromHistoryRecord(rec)
	}

	c.JSON(http.StatusOK, dto.ListResponse{
		Items:      items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}

func (h *StockHandler) parseBalanceFilter(c *gin.Context) (ledger.BalanceFilter, bool) {
	filter := ledger.BalanceFilter{
		Search:   c.Query("search"),
		Location: c.Query("location"),
		Unit:     c.Query("unit"),
		Category: c.Query("category"),
		Limit:    h.ParseIntQuery(c, "limit", 100),
		Offset:   h.ParseIntQuery(c, "offset", 0),
	}

	if qStr := c.Query("quantity"); qStr != "" {
		parsed, err := strconv.ParseInt(qStr, 10, 64)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid quantity format"))
			return filter, false
		}
		q := types.Quantity(parsed)
		filter.Quantity = &q
	}

	if pStr := c.Query("productId"); pStr != "" {
		parsed, err := id.Parse(pStr)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid productId format"))
			return filter, false
		}
		filter.ProductID = &parsed
	}

	return filter, true
}

func (h *StockHandler) parseHistoryFilter(c *gin.Context) (ledger.HistoryFilter, bool) {
	filter := ledger.HistoryFilter{
		Location: c.Query("location"),
		Limit:    h.ParseIntQuery(c, "limit", 100),
		Offset:   h.ParseIntQuery(c, "offset", 0),
	}

	if pStr := c.Query("productId"); pStr != "" {
		parsed, err := id.Parse(pStr)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid productId format"))
			return filter, false
		}
		filter.ProductID = &parsed
	}

	if kStr := c.Query("kind"); kStr != "" {
		kind := entity.MovementKind(kStr)
		if !kind.IsValid() {
			h.Error(c, apperror.NewValidation("invalid kind, expected entry, exit or transfer"))
			return filter, false
		}
		filter.Kind = &kind
	}

	if fromStr := c.Query("from"); fromStr != "" {
		parsed, err := time.Parse(time.RFC3339, fromStr)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid from format, expected RFC3339"))
			return filter, false
		}
		filter.From = &parsed
	}

	if toStr := c.Query("to"); toStr != "" {
		parsed, err := time.Parse(time.RFC3339, toStr)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid to format, expected RFC3339"))
			return filter, false
		}
		filter.To = &parsed
	}

	return filter, true
}
