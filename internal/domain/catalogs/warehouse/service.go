package warehouse

import (
	"context"
	"fmt"

	"github.com/FeliPerrelliACT/Almoxarifado/internal/core/apperror"
	"github.com/FeliPerrelliACT/Almoxarifado/internal/core/tx"
	"github.com/FeliPerrelliACT/Almoxarifado/internal/domain"
)

// Service provides business logic for the Warehouse catalog.
// Uses composition with domain.CatalogService for common CRUD operations.
type Service struct {
	*domain.CatalogService[*Warehouse]
	repo Repository
}

// NewService creates a new Warehouse service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Warehouse]{
		Repo:       repo,
		TxManager:  txManager,
		EntityName: "warehouse",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
	}

	base.Hooks().On(domain.BeforeCreate, svc.checkUniqueName)

	return svc
}

// checkUniqueName rejects a second warehouse with the same name.
// Names are the ledger's location keys, so they must stay unique.
func (s *Service) checkUniqueName(ctx context.Context, w *Warehouse) error {
	existing, err := s.repo.GetByName(ctx, w.Name)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil
		}
		return fmt.Errorf("check warehouse name: %w", err)
	}
	if existing != nil && existing.ID != w.ID {
		return apperror.NewDuplicate("warehouse", "name", w.Name)
	}
	return nil
}

// GetByName resolves an active warehouse by its exact name.
func (s *Service) GetByName(ctx context.Context, name string) (*Warehouse, error) {
	wh, err := s.repo.GetByName(ctx, name)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("warehouse", name)
		}
		return nil, err
	}
	return wh, nil
}
