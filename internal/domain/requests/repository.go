package requests

import (
	"context"

	"github.com/FeliPerrelliACT/Almoxarifado/internal/core/id"
	"github.com/FeliPerrelliACT/Almoxarifado/internal/domain"
)

// Filter narrows request listings. All set fields must match.
type Filter struct {
	Status      *Status
	RequesterID *id.ID
	Search      string // matches number or justification

	Limit  int
	Offset int
}

// Repository defines persistence operations for purchase requests.
type Repository interface {
	// Create inserts the request and its lines.
	Create(ctx context.Context, req *Request) error

	// GetByID retrieves the request with its lines.
	GetByID(ctx context.Context, id id.ID) (*Request, error)

	// GetForUpdate retrieves the request with a row lock.
	GetForUpdate(ctx context.Context, id id.ID) (*Request, error)

	// Update rewrites the request and its lines (optimistic locking).
	Update(ctx context.Context, req *Request) error

	// UpdateStatus moves the request to a new status, guarded by the
	// expected version (optimistic locking).
	UpdateStatus(ctx context.Context, id id.ID, to Status, expectedVersion int) error

	// List retrieves requests with filtering and pagination.
	List(ctx context.Context, filter Filter) (domain.ListResult[*Request], error)

	// AddQuotation attaches a quotation to a request.
	AddQuotation(ctx context.Context, q *Quotation) error

	// ListQuotations returns the quotations of a request.
	ListQuotations(ctx context.Context, requestID id.ID) ([]Quotation, error)
}
