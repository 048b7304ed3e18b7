package export

import (
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/FeliPerrelliACT/Almoxarifado/internal/domain/reports"
)

var (
	colorHeader = &props.Color{Red: 40, Green: 60, Blue: 90}
	colorMuted  = &props.Color{Red: 110, Green: 110, Blue: 110}
)

// PDFRenderer implements reports.Renderer using Maroto v2.
type PDFRenderer struct{}

// NewPDFRenderer creates a PDF renderer.
func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{}
}

func newDocument(title string) core.Maroto {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(title, true).
		Build()
	return maroto.New(cfg)
}

func titleRow(title, subtitle string) core.Row {
	return row.New(14).Add(
		col.New(12).Add(
			text.New(title, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorHeader, Top: 1,
			}),
			text.New(subtitle, props.Text{
				Size: 8, Top: 9, Color: colorMuted,
			}),
		),
	)
}

func headerCell(label string, size int, a align.Type) core.Col {
	return col.New(size).Add(text.New(label, props.Text{
		Style: fontstyle.Bold, Size: 8, Align: a, Color: colorHeader, Top: 1,
	}))
}

func cell(value string, size int, a align.Type) core.Col {
	return col.New(size).Add(text.New(value, props.Text{
		Size: 8, Align: a, Top: 1,
	}))
}

// RenderBalances produces a balances table.
func (r *PDFRenderer) RenderBalances(report *reports.BalanceReport) ([]byte, error) {
	m := newDocument("Stock Balances")

	subtitle := fmt.Sprintf("Generated %s, %d rows", report.GeneratedAt.Format("2006-01-02 15:04"), report.TotalRows)
	m.AddRows(titleRow("Stock Balances", subtitle))
	m.AddRows(line.NewRow(1, props.Line{Color: colorHeader, Thickness: 0.4}))

	m.AddRows(row.New(8).Add(
		headerCell("Product", 5, align.Left),
		headerCell("Unit", 1, align.Center),
		headerCell("Category", 2, align.Left),
		headerCell("Location", 2, align.Left),
		headerCell("Qty", 2, align.Right),
	))

	for _, b := range report.Rows {
		m.AddRows(row.New(6).Add(
			cell(b.ProductName, 5, align.Left),
			cell(b.Unit, 1, align.Center),
			cell(b.Category, 2, align.Left),
			cell(b.Location, 2, align.Left),
			cell(fmt.Sprintf("%d", b.Quantity.Int64()), 2, align.Right),
		))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("generate pdf: %w", err)
	}
	return doc.GetBytes(), nil
}

// RenderMovements produces a movement journal table.
func (r *PDFRenderer) RenderMovements(report *reports.MovementReport) ([]byte, error) {
	m := newDocument("Stock Movements")

	subtitle := fmt.Sprintf("Generated %s, %d rows", report.GeneratedAt.Format("2006-01-02 15:04"), report.TotalRows)
	m.AddRows(titleRow("Stock Movements", subtitle))
	m.AddRows(line.NewRow(1, props.Line{Color: colorHeader, Thickness: 0.4}))

	m.AddRows(row.New(8).Add(
		headerCell("Date", 2, align.Left),
		headerCell("Kind", 1, align.Center),
		headerCell("Product", 4, align.Left),
		headerCell("Qty", 1, align.Right),
		headerCell("Location", 2, align.Left),
		headerCell("Destination", 2, align.Left),
	))

	for _, h := range report.Rows {
		m.AddRows(row.New(6).Add(
			cell(h.CreatedAt.Format("2006-01-02 15:04"), 2, align.Left),
			cell(string(h.Kind), 1, align.Center),
			cell(h.ProductName, 4, align.Left),
			cell(fmt.Sprintf("%d", h.Quantity.Int64()), 1, align.Right),
			cell(h.Location, 2, align.Left),
			cell(h.Destination, 2, align.Left),
		))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("generate pdf: %w", err)
	}
	return doc.GetBytes(), nil
}

var _ reports.Renderer = (*PDFRenderer)(nil)
