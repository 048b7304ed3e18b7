package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/FeliPerrelliACT/Almoxarifado/internal/core/apperror"
	"github.com/FeliPerrelliACT/Almoxarifado/internal/domain/ledger"
)

// maxExportRows bounds a single export so one request cannot drag the
// whole history table into memory.
const maxExportRows = 10000

var contentTypes = map[Format]string{
	FormatExcel: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	FormatPDF:   "application/pdf",
}

// Service builds downloadable balance and movement reports.
type Service struct {
	ledger    LedgerQueries
	renderers map[Format]Renderer
}

// NewService creates a reports service. Renderers are registered per format.
func NewService(ledger LedgerQueries, renderers map[Format]Renderer) *Service {
	return &Service{ledger: ledger, renderers: renderers}
}

// BalanceSheet exports the balances view matching the filter.
func (s *Service) BalanceSheet(ctx context.Context, filter ledger.BalanceFilter, format Format) (*Document, error) {
	renderer, err := s.renderer(format)
	if err != nil {
		return nil, err
	}

	filter.Limit = maxExportRows
	filter.Offset = 0

	result, err := s.ledger.ListBalances(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("load balances: %w", err)
	}

	report := &BalanceReport{
		GeneratedAt: time.Now(),
		Rows:        result.Items,
		TotalRows:   result.TotalCount,
	}

	data, err := renderer.RenderBalances(report)
	if err != nil {
		return nil, fmt.Errorf("render balances: %w", err)
	}

	return s.document("stock-balances", format, report.GeneratedAt, data), nil
}

// MovementJournal exports the movement history matching the filter.
func (s *Service) MovementJournal(ctx context.Context, filter ledger.HistoryFilter, format Format) (*Document, error) {
	renderer, err := s.renderer(format)
	if err != nil {
		return nil, err
	}

	filter.Limit = maxExportRows
	filter.Offset = 0

	result, err := s.ledger.ListHistory(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}

	report := &MovementReport{
		GeneratedAt: time.Now(),
		From:        filter.From,
		To:          filter.To,
		Rows:        result.Items,
		TotalRows:   result.TotalCount,
	}

	data, err := renderer.RenderMovements(report)
	if err != nil {
		return nil, fmt.Errorf("render movements: %w", err)
	}

	return s.document("stock-movements", format, report.GeneratedAt, data), nil
}

func (s *Service) renderer(format Format) (Renderer, error) {
	if !format.IsValid() {
		return nil, apperror.NewValidation(fmt.Sprintf("unsupported export format: %s", format)).
			WithDetail("field", "format")
	}
	renderer, ok := s.renderers[format]
	if !ok {
		return nil, apperror.NewValidation(fmt.Sprintf("no renderer registered for format: %s", format)).
			WithDetail("field", "format")
	}
	return renderer, nil
}

func (s *Service) document(prefix string, format Format, at time.Time, data []byte) *Document {
	return &Document{
		FileName:    fmt.Sprintf("%s-%s.%s", prefix, at.Format("2006-01-02"), format),
		ContentType: contentTypes[format],
		Data:        data,
	}
}
