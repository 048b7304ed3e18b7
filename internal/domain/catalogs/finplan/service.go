package finplan

import (
	"context"
	"fmt"

	"github.com/FeliPerrelliACT/Almoxarifado/internal/core/apperror"
	"github.com/FeliPerrelliACT/Almoxarifado/internal/core/tx"
	"github.com/FeliPerrelliACT/Almoxarifado/internal/domain"
)

// Service provides business logic for the FinancialPlan catalog.
type Service struct {
	*domain.CatalogService[*FinancialPlan]
	repo Repository
}

// NewService creates a new FinancialPlan service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*FinancialPlan]{
		Repo:       repo,
		TxManager:  txManager,
		EntityName: "financial plan",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
	}

	base.Hooks().On(domain.BeforeCreate, svc.checkUniqueCode)

	return svc
}

func (s *Service) checkUniqueCode(ctx context.Context, f *FinancialPlan) error {
	if f.Code == "" {
		return nil
	}
	exists, err := s.repo.ExistsByCode(ctx, f.Code)
	if err != nil {
		return fmt.Errorf("check financial plan code: %w", err)
	}
	if exists {
		return apperror.NewDuplicate("financial plan", "code", f.Code)
	}
	return nil
}
