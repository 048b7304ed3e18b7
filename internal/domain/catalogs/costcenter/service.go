package costcenter

import (
	"context"
	"fmt"

	"github.com/FeliPerrelliACT/Almoxarifado/internal/core/apperror"
	"github.com/FeliPerrelliACT/Almoxarifado/internal/core/tx"
	"github.com/FeliPerrelliACT/Almoxarifado/internal/domain"
)

// Service provides business logic for the CostCenter catalog.
type Service struct {
	*domain.CatalogService[*CostCenter]
	repo Repository
}

// NewService creates a new CostCenter service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*CostCenter]{
		Repo:       repo,
		TxManager:  txManager,
		EntityName: "cost center",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
	}

	base.Hooks().On(domain.BeforeCreate, svc.checkUniqueCode)

	return svc
}

func (s *Service) checkUniqueCode(ctx context.Context, c *CostCenter) error {
	if c.Code == "" {
		return nil
	}
	exists, err := s.repo.ExistsByCode(ctx, c.Code)
	if err != nil {
		return fmt.Errorf("check cost center code: %w", err)
	}
	if exists {
		return apperror.NewDuplicate("cost center", "code", c.Code)
	}
	return nil
}
