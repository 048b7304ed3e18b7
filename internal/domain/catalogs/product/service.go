package product

import (
	"context"
	"fmt"

	"github.com/FeliPerrelliACT/Almoxarifado/internal/core/apperror"
	"github.com/FeliPerrelliACT/Almoxarifado/internal/core/tx"
	"github.com/FeliPerrelliACT/Almoxarifado/internal/domain"
)

// Service provides business logic for the Product catalog.
// Uses composition with domain.CatalogService for common CRUD operations.
type Service struct {
	*domain.CatalogService[*Product]
	repo Repository
}

// NewService creates a new Product service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Product]{
		Repo:       repo,
		TxManager:  txManager,
		EntityName: "product",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
	}

	base.Hooks().On(domain.BeforeCreate, svc.checkUniqueCode)

	return svc
}

// checkUniqueCode rejects a duplicate product code before insert.
func (s *Service) checkUniqueCode(ctx context.Context, p *Product) error {
	if p.Code == "" {
		return nil
	}
	exists, err := s.repo.ExistsByCode(ctx, p.Code)
	if err != nil {
		return fmt.Errorf("check product code: %w", err)
	}
	if exists {
		return apperror.NewDuplicate("product", "code", p.Code)
	}
	return nil
}
