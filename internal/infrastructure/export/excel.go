// Package export renders ledger reports as Excel and PDF documents.
package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/FeliPerrelliACT/Almoxarifado/internal/domain/reports"
)

// ExcelRenderer implements reports.Renderer producing .xlsx workbooks.
type ExcelRenderer struct{}

// NewExcelRenderer creates an Excel renderer.
func NewExcelRenderer() *ExcelRenderer {
	return &ExcelRenderer{}
}

// RenderBalances writes the balances view to a single-sheet workbook.
func (r *ExcelRenderer) RenderBalances(report *reports.BalanceReport) ([]byte, error) {
	f := excelize.NewFile()
	sheet := "Balances"
	f.SetSheetName("Sheet1", sheet)

	f.SetCellValue(sheet, "A1", "Product")
	f.SetCellValue(sheet, "B1", "Unit")
	f.SetCellValue(sheet, "C1", "Category")
	f.SetCellValue(sheet, "D1", "Location")
	f.SetCellValue(sheet, "E1", "Quantity")

	for i, row := range report.Rows {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", i+2), row.ProductName)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", i+2), row.Unit)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", i+2), row.Category)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", i+2), row.Location)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", i+2), row.Quantity.Int64())
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderMovements writes the movement journal to a single-sheet workbook.
func (r *ExcelRenderer) RenderMovements(report *reports.MovementReport) ([]byte, error) {
	f := excelize.NewFile()
	sheet := "Movements"
	f.SetSheetName("Sheet1", sheet)

	f.SetCellValue(sheet, "A1", "Date")
	f.SetCellValue(sheet, "B1", "Kind")
	f.SetCellValue(sheet, "C1", "Product")
	f.SetCellValue(sheet, "D1", "Quantity")
	f.SetCellValue(sheet, "E1", "Location")
	f.SetCellValue(sheet, "F1", "Destination")
	f.SetCellValue(sheet, "G1", "Note")
	f.SetCellValue(sheet, "H1", "Recorded By")

	for i, row := range report.Rows {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", i+2), row.CreatedAt.Format("2006-01-02 15:04"))
		f.SetCellValue(sheet, fmt.Sprintf("B%d", i+2), string(row.Kind))
		f.SetCellValue(sheet, fmt.Sprintf("C%d", i+2), row.ProductName)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", i+2), row.Quantity.Int64())
		f.SetCellValue(sheet, fmt.Sprintf("E%d", i+2), row.Location)
		f.SetCellValue(sheet, fmt.Sprintf("F%d", i+2), row.Destination)
		f.SetCellValue(sheet, fmt.Sprintf("G%d", i+2), row.Note)
		f.SetCellValue(sheet, fmt.Sprintf("H%d", i+2), row.ActorID)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

var _ reports.Renderer = (*ExcelRenderer)(nil)
