package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/FeliPerrelliACT/Almoxarifado/internal/domain/reports"
)

// ReportsHandler handles report export endpoints.
type ReportsHandler struct {
	*BaseHandler
	stock *StockHandler
	svc   *reports.Service
}

// NewReportsHandler creates a new report export handler.
func NewReportsHandler(base *BaseHandler, stock *StockHandler, svc *reports.Service) *ReportsHandler {
	return &ReportsHandler{
		BaseHandler: base,
		stock:       stock,
		svc:         svc,
	}
}

// ExportBalances handles GET /reports/balances
// Accepts the same filters as the balances listing plus format=xlsx|pdf.
func (h *ReportsHandler) ExportBalances(c *gin.Context) {
	ctx := c.Request.Context()

	filter, ok := h.stock.parseBalanceFilter(c)
	if !ok {
		return
	}

	doc, err := h.svc.BalanceSheet(ctx, filter, reports.Format(c.DefaultQuery("format", "xlsx")))
	if err != nil {
		h.Error(c, err)
		return
	}

	h.serveDocument(c, doc)
}

// ExportMovements handles GET /reports/movements
// Accepts the same filters as the movement listing plus format=xlsx|pdf.
func (h *ReportsHandler) ExportMovements(c *gin.Context) {
	ctx := c.Request.Context()

	filter, ok := h.stock.parseHistoryFilter(c)
	if !ok {
		return
	}

	doc, err := h.svc.MovementJournal(ctx, filter, reports.Format(c.DefaultQuery("format", "xlsx")))
	if err != nil {
		h.Error(c, err)
		return
	}

	h.serveDocument(c, doc)
}

func (h *ReportsHandler) serveDocument(c *gin.Context, doc *reports.Document) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.FileName))
	c.Data(http.StatusOK, doc.ContentType, doc.Data)
}

// RegisterRoutes registers report export routes.
func (h *ReportsHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/balances", h.ExportBalances)
	rg.GET("/movements", h.ExportMovements)
}
