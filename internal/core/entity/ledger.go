package entity

import (
	"time"

	"github.com/FeliPerrelliACT/Almoxarifado/internal/core/id"
	"github.com/FeliPerrelliACT/Almoxarifado/internal/core/types"
)

// EntryKind classifies inbound movements.
type EntryKind string

const (
	// EntryKindPurchase is stock arriving from a supplier
	EntryKindPurchase EntryKind = "purchase"
	// EntryKindReturn is stock returned by an employee
	EntryKindReturn EntryKind = "return"
)

func (k EntryKind) IsValid() bool {
	return k == EntryKindPurchase || k == EntryKindReturn
}

// MovementKind identifies the record variant in mixed history listings.
type MovementKind string

const (
	MovementKindEntry    MovementKind = "entry"
	MovementKindExit     MovementKind = "exit"
	MovementKindTransfer MovementKind = "transfer"
)

func (k MovementKind) IsValid() bool {
	return k == MovementKindEntry || k == MovementKindExit || k == MovementKindTransfer
}

// StockBalance is the current quantity of one product at one location.
// One row per (product, location); created lazily at zero by the first
// inbound movement touching the pair.
type StockBalance struct {
	ProductID id.ID  `db:"product_id" json:"productId"`
	Location  string `db:"location" json:"location"`

	Quantity types.Quantity `db:"quantity" json:"quantity"`

	LastMovementAt time.Time `db:"last_movement_at" json:"lastMovementAt"`
	UpdatedAt      time.Time `db:"updated_at" json:"updatedAt"`
}

// MovementBase contains fields shared by all ledger records.
// Records are immutable: inserted once, never updated or deleted.
type MovementBase struct {
	// ID is unique identifier for this record (UUIDv7)
	ID id.ID `db:"id" json:"id"`

	ProductID id.ID `db:"product_id" json:"productId"`

	// Quantity moved; always positive, direction comes from the record kind
	Quantity types.Quantity `db:"quantity" json:"quantity"`

	// ActorID is the authenticated user who recorded the movement
	ActorID string `db:"actor_id" json:"actorId"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// NewMovementBase creates a movement base with generated ID.
func NewMovementBase(productID id.ID, quantity types.Quantity, actorID string) MovementBase {
	return MovementBase{
		ID:        id.New(),
		ProductID: productID,
		Quantity:  quantity,
		ActorID:   actorID,
		CreatedAt: time.Now().UTC(),
	}
}

// EntryRecord is an inbound movement: a purchase arrival or an employee return.
// EmployeeID is set exactly when Kind is EntryKindReturn.
type EntryRecord struct {
	MovementBase

	Location   string    `db:"location" json:"location"`
	Kind       EntryKind `db:"kind" json:"kind"`
	EmployeeID *id.ID    `db:"employee_id" json:"employeeId,omitempty"`
}

// ExitRecord is an outbound movement: an employee withdrawing stock
// against a cost center.
type ExitRecord struct {
	MovementBase

	Location     string `db:"location" json:"location"`
	EmployeeID   id.ID  `db:"employee_id" json:"employeeId"`
	CostCenterID id.ID  `db:"cost_center_id" json:"costCenterId"`
	Note         string `db:"note" json:"note,omitempty"`
}

// TransferRecord moves stock between two locations.
// Exactly one record per transferred line; Source never equals Destination.
type TransferRecord struct {
	MovementBase

	Source      string `db:"source" json:"source"`
	Destination string `db:"destination" json:"destination"`
	EmployeeID  *id.ID `db:"employee_id" json:"employeeId,omitempty"`
	Note        string `db:"note" json:"note,omitempty"`
}
