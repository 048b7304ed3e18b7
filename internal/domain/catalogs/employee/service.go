package employee

import (
	"context"
	"fmt"

	"github.com/FeliPerrelliACT/Almoxarifado/internal/core/apperror"
	"github.com/FeliPerrelliACT/Almoxarifado/internal/core/tx"
	"github.com/FeliPerrelliACT/Almoxarifado/internal/domain"
)

// Service provides business logic for the Employee catalog.
type Service struct {
	*domain.CatalogService[*Employee]
	repo Repository
}

// NewService creates a new Employee service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Employee]{
		Repo:       repo,
		TxManager:  txManager,
		EntityName: "employee",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
	}

	base.Hooks().On(domain.BeforeCreate, svc.checkUniqueRegistration)

	return svc
}

// checkUniqueRegistration rejects a duplicate badge number before insert.
// The registration doubles as the catalog code.
func (s *Service) checkUniqueRegistration(ctx context.Context, e *Employee) error {
	if e.Code == "" {
		e.Code = e.Registration
	}
	exists, err := s.repo.ExistsByCode(ctx, e.Code)
	if err != nil {
		return fmt.Errorf("check employee registration: %w", err)
	}
	if exists {
		return apperror.NewDuplicate("employee", "registration", e.Registration)
	}
	return nil
}
