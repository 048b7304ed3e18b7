package reports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FeliPerrelliACT/Almoxarifado/internal/core/apperror"
	"github.com/FeliPerrelliACT/Almoxarifado/internal/core/entity"
	"github.com/FeliPerrelliACT/Almoxarifado/internal/core/id"
	"github.com/FeliPerrelliACT/Almoxarifado/internal/domain"
	"github.com/FeliPerrelliACT/Almoxarifado/internal/domain/ledger"
)

// --- Fakes ---

type fakeLedger struct {
	balances []ledger.BalanceRow
	history  []ledger.HistoryRecord

	lastBalanceFilter ledger.BalanceFilter
	lastHistoryFilter ledger.HistoryFilter
}

// ListBalances honors filter.Limit the way the real repo does.
func (f *fakeLedger) ListBalances(_ context.Context, filter ledger.BalanceFilter) (domain.ListResult[ledger.BalanceRow], error) {
	f.lastBalanceFilter = filter
	items := f.balances
	if filter.Limit > 0 && len(items) > filter.Limit {
		items = items[:filter.Limit]
	}
	return domain.ListResult[ledger.BalanceRow]{
		Items:      items,
		TotalCount: int64(len(f.balances)),
		Limit:      filter.Limit,
	}, nil
}

func (f *fakeLedger) ListHistory(_ context.Context, filter ledger.HistoryFilter) (domain.ListResult[ledger.HistoryRecord], error) {
	f.lastHistoryFilter = filter
	items := f.history
	if filter.Limit > 0 && len(items) > filter.Limit {
		items = items[:filter.Limit]
	}
	return domain.ListResult[ledger.HistoryRecord]{
		Items:      items,
		TotalCount: int64(len(f.history)),
		Limit:      filter.Limit,
	}, nil
}

type fakeRenderer struct {
	balanceReports  []*BalanceReport
	movementReports []*MovementReport
	output          []byte
}

func (f *fakeRenderer) RenderBalances(report *BalanceReport) ([]byte, error) {
	f.balanceReports = append(f.balanceReports, report)
	return f.output, nil
}

func (f *fakeRenderer) RenderMovements(report *MovementReport) ([]byte, error) {
	f.movementReports = append(f.movementReports, report)
	return f.output, nil
}

func newTestService(queries LedgerQueries, renderer Renderer) *Service {
	return NewService(queries, map[Format]Renderer{
		FormatExcel: renderer,
		FormatPDF:   renderer,
	})
}

// --- Tests ---

func TestBalanceSheet(t *testing.T) {
	queries := &fakeLedger{
		balances: []ledger.BalanceRow{
			{ProductID: id.New(), ProductName: "Papel A4", Unit: "un", Location: "Almoxarifado Central", Quantity: 120},
			{ProductID: id.New(), ProductName: "Capacete", Unit: "un", Location: "Sala de Ferramentas", Quantity: 8},
		},
	}
	renderer := &fakeRenderer{output: []byte("xlsx-bytes")}
	svc := newTestService(queries, renderer)

	doc, err := svc.BalanceSheet(context.Background(), ledger.BalanceFilter{Location: "Almoxarifado Central"}, FormatExcel)
	require.NoError(t, err)

	assert.Equal(t, []byte("xlsx-bytes"), doc.Data)
	assert.Equal(t, contentTypes[FormatExcel], doc.ContentType)
	assert.Contains(t, doc.FileName, "stock-balances-")
	assert.Contains(t, doc.FileName, ".xlsx")

	require.Len(t, renderer.balanceReports, 1)
	assert.Len(t, renderer.balanceReports[0].Rows, 2)
	assert.Equal(t, int64(2), renderer.balanceReports[0].TotalRows)

	// Caller filters pass through, but pagination is pinned to the export cap.
	assert.Equal(t, "Almoxarifado Central", queries.lastBalanceFilter.Location)
	assert.Equal(t, maxExportRows, queries.lastBalanceFilter.Limit)
	assert.Zero(t, queries.lastBalanceFilter.Offset)
}

func TestMovementJournal(t *testing.T) {
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 1, 31, 23, 59, 59, 0, time.UTC)

	queries := &fakeLedger{
		history: []ledger.HistoryRecord{
			{Kind: entity.MovementKindEntry, Location: "Almoxarifado Central", Quantity: 50},
			{Kind: entity.MovementKindExit, Location: "Almoxarifado Central", Quantity: 10},
			{Kind: entity.MovementKindTransfer, Location: "Almoxarifado Central", Destination: "Depósito Obra Norte", Quantity: 5},
		},
	}
	renderer := &fakeRenderer{output: []byte("%PDF-")}
	svc := newTestService(queries, renderer)

	doc, err := svc.MovementJournal(context.Background(), ledger.HistoryFilter{From: &from, To: &to}, FormatPDF)
	require.NoError(t, err)

	assert.Equal(t, contentTypes[FormatPDF], doc.ContentType)
	assert.Contains(t, doc.FileName, "stock-movements-")
	assert.Contains(t, doc.FileName, ".pdf")

	require.Len(t, renderer.movementReports, 1)
	report := renderer.movementReports[0]
	assert.Len(t, report.Rows, 3)
	assert.Equal(t, &from, report.From)
	assert.Equal(t, &to, report.To)

	assert.Equal(t, maxExportRows, queries.lastHistoryFilter.Limit)
}

func TestBalanceSheetIncludesAllRowsBeyondPageSize(t *testing.T) {
	// More rows than a single interactive page (500). The export must
	// contain every row, not a silently truncated page.
	queries := &fakeLedger{}
	for i := 0; i < 600; i++ {
		queries.balances = append(queries.balances, ledger.BalanceRow{
			ProductID:   id.New(),
			ProductName: "Luva de Raspa",
			Unit:        "par",
			Location:    "Almoxarifado Central",
			Quantity:    12,
		})
	}
	renderer := &fakeRenderer{output: []byte("xlsx-bytes")}
	svc := newTestService(queries, renderer)

	_, err := svc.BalanceSheet(context.Background(), ledger.BalanceFilter{}, FormatExcel)
	require.NoError(t, err)

	require.Len(t, renderer.balanceReports, 1)
	report := renderer.balanceReports[0]
	require.Len(t, report.Rows, 600)
	assert.Equal(t, int64(600), report.TotalRows)
}

func TestExportRejectsUnknownFormat(t *testing.T) {
	svc := newTestService(&fakeLedger{}, &fakeRenderer{})

	_, err := svc.BalanceSheet(context.Background(), ledger.BalanceFilter{}, Format("csv"))
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestExportRejectsMissingRenderer(t *testing.T) {
	svc := NewService(&fakeLedger{}, map[Format]Renderer{
		FormatExcel: &fakeRenderer{},
	})

	_, err := svc.MovementJournal(context.Background(), ledger.HistoryFilter{}, FormatPDF)
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}
