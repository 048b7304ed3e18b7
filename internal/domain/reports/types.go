// Package reports turns ledger queries into downloadable documents.
package reports

import (
	"time"

	"github.com/FeliPerrelliACT/Almoxarifado/internal/domain/ledger"
)

// Format selects the output document type.
type Format string

const (
	FormatExcel Format = "xlsx"
	FormatPDF   Format = "pdf"
)

// IsValid reports whether the format is supported.
func (f Format) IsValid() bool {
	return f == FormatExcel || f == FormatPDF
}

// BalanceReport is a snapshot of the balances view prepared for rendering.
type BalanceReport struct {
	GeneratedAt time.Time
	Rows        []ledger.BalanceRow
	TotalRows   int64
}

// MovementReport is a slice of the movement history prepared for rendering.
type MovementReport struct {
	GeneratedAt time.Time
	From        *time.Time
	To          *time.Time
	Rows        []ledger.HistoryRecord
	TotalRows   int64
}

// Document is a rendered report ready to be sent to the client.
type Document struct {
	FileName    string
	ContentType string
	Data        []byte
}
