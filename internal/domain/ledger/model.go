// Package ledger provides the stock ledger: per-(product, location)
// balances plus an immutable log of entries, exits and transfers.
package ledger

import (
	"time"

	"github.com/FeliPerrelliACT/Almoxarifado/internal/core/entity"
	"github.com/FeliPerrelliACT/Almoxarifado/internal/core/id"
	"github.com/FeliPerrelliACT/Almoxarifado/internal/core/types"
)

// Line is one product/quantity pair of a batch operation.
type Line struct {
	ProductID id.ID          `json:"productId"`
	Quantity  types.Quantity `json:"quantity"`
}

// EntryInput describes an inbound batch: purchase arrival or employee return.
type EntryInput struct {
	Location   string
	Kind       entity.EntryKind
	EmployeeID *id.ID
	Lines      []Line
}

// ExitInput describes an outbound batch withdrawn by an employee.
type ExitInput struct {
	Location     string
	EmployeeID   id.ID
	CostCenterID id.ID
	Note         string
	Lines        []Line
}

// TransferInput describes a batch moved between two locations.
type TransferInput struct {
	Source      string
	Destination string
	EmployeeID  *id.ID
	Note        string
	Lines       []Line
}

// BalanceRow is the balances view projection: one balance joined with
// its product's descriptive fields.
type BalanceRow struct {
	ProductID     id.ID          `db:"product_id" json:"productId"`
	ProductName   string         `db:"product_name" json:"productName"`
	Unit          string         `db:"unit" json:"unit"`
	Category      string         `db:"category" json:"category"`
	ProductActive bool           `db:"product_active" json:"productActive"`
	Location      string         `db:"location" json:"location"`
	Quantity      types.Quantity `db:"quantity" json:"quantity"`
}

// BalanceFilter narrows the balances view. All set fields must match
// (conjunctive); Search matches product name OR location, case-insensitive.
type BalanceFilter struct {
	Search    string
	Location  string
	Unit      string
	Category  string
	Quantity  *types.Quantity
	ProductID *id.ID

	Limit  int
	Offset int
}

// HistoryFilter narrows the movement history listing.
type HistoryFilter struct {
	ProductID *id.ID
	Location  string
	Kind      *entity.MovementKind
	From      *time.Time
	To        *time.Time

	Limit  int
	Offset int
}

// HistoryRecord is one movement of any kind in a mixed history listing.
// Location holds the entry/exit location or the transfer source;
// Destination is set for transfers only.
type HistoryRecord struct {
	Kind entity.MovementKind `db:"kind" json:"kind"`

	ID          id.ID          `db:"id" json:"id"`
	ProductID   id.ID          `db:"product_id" json:"productId"`
	ProductName string         `db:"product_name" json:"productName"`
	Quantity    types.Quantity `db:"quantity" json:"quantity"`

	Location    string `db:"location" json:"location"`
	Destination string `db:"destination" json:"destination,omitempty"`

	EntryKind    *entity.EntryKind `db:"entry_kind" json:"entryKind,omitempty"`
	EmployeeID   *id.ID            `db:"employee_id" json:"employeeId,omitempty"`
	CostCenterID *id.ID            `db:"cost_center_id" json:"costCenterId,omitempty"`
	Note         string            `db:"note" json:"note,omitempty"`

	ActorID   string    `db:"actor_id" json:"actorId"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}
