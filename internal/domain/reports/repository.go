package reports

import (
	"context"

	"github.com/FeliPerrelliACT/Almoxarifado/internal/domain"
	"github.com/FeliPerrelliACT/Almoxarifado/internal/domain/ledger"
)

// LedgerQueries is the slice of the stock ledger the report builder needs.
// It matches the ledger repository, not the ledger service: exports carry
// their own row cap and must not inherit the interactive page clamp.
type LedgerQueries interface {
	ListBalances(ctx context.Context, filter ledger.BalanceFilter) (domain.ListResult[ledger.BalanceRow], error)
	ListHistory(ctx context.Context, filter ledger.HistoryFilter) (domain.ListResult[ledger.HistoryRecord], error)
}

// Renderer turns a prepared report into a document of one format.
type Renderer interface {
	RenderBalances(report *BalanceReport) ([]byte, error)
	RenderMovements(report *MovementReport) ([]byte, error)
}
