// Package main is the entry point for the warehouse API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/FeliPerrelliACT/Almoxarifado/internal/core/id"
	"github.com/FeliPerrelliACT/Almoxarifado/internal/domain/auth"
	"github.com/FeliPerrelliACT/Almoxarifado/internal/domain/catalogs/costcenter"
	"github.com/FeliPerrelliACT/Almoxarifado/internal/domain/catalogs/employee"
	"github.com/FeliPerrelliACT/Almoxarifado/internal/domain/catalogs/finplan"
	"github.com/FeliPerrelliACT/Almoxarifado/internal/domain/catalogs/product"
	"github.com/FeliPerrelliACT/Almoxarifado/internal/domain/catalogs/warehouse"
	"github.com/FeliPerrelliACT/Almoxarifado/internal/domain/ledger"
	"github.com/FeliPerrelliACT/Almoxarifado/internal/domain/reports"
	"github.com/FeliPerrelliACT/Almoxarifado/internal/domain/requests"
	"github.com/FeliPerrelliACT/Almoxarifado/internal/infrastructure/export"
	v1 "github.com/FeliPerrelliACT/Almoxarifado/internal/infrastructure/http/v1"
	"github.com/FeliPerrelliACT/Almoxarifado/internal/infrastructure/storage/postgres"
	"github.com/FeliPerrelliACT/Almoxarifado/internal/infrastructure/storage/postgres/auth_repo"
	"github.com/FeliPerrelliACT/Almoxarifado/internal/infrastructure/storage/postgres/catalog_repo"
	"github.com/FeliPerrelliACT/Almoxarifado/internal/infrastructure/storage/postgres/ledger_repo"
	"github.com/FeliPerrelliACT/Almoxarifado/internal/infrastructure/storage/postgres/request_repo"
	"github.com/FeliPerrelliACT/Almoxarifado/pkg/config"
	"github.com/FeliPerrelliACT/Almoxarifado/pkg/logger"
	"github.com/FeliPerrelliACT/Almoxarifado/pkg/numerator"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.Logger.Level,
		Development: cfg.Logger.Development,
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	log.Info("starting almoxarifado server")

	// --- Database ---
	poolCfg := postgres.DefaultPoolConfig(cfg.DB.ConnectionString())
	poolCfg.MaxConns = int32(cfg.DB.MaxConns)
	poolCfg.MinConns = int32(cfg.DB.MinConns)

	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	txManager := postgres.NewTxManager(pool)

	// --- Auth ---
	jwtService := auth.NewJWTService(auth.JWTConfig{
		Secret:         cfg.JWT.Secret,
		Issuer:         cfg.JWT.Issuer,
		AccessTokenTTL: cfg.JWT.AccessTTL,
	})

	authCfg := auth.DefaultServiceConfig()
	authCfg.RefreshTokenExpiry = cfg.JWT.RefreshTTL
	authService := auth.NewService(
		auth_repo.NewUserRepo(txManager),
		auth_repo.NewRoleRepo(txManager),
		auth_repo.NewPermissionRepo(txManager),
		auth_repo.NewTokenRepo(txManager),
		txManager,
		jwtService,
		authCfg,
	)

	// --- Catalogs ---
	productRepo := catalog_repo.NewProductRepo(txManager)
	employeeRepo := catalog_repo.NewEmployeeRepo(txManager)
	warehouseRepo := catalog_repo.NewWarehouseRepo(txManager)
	costCenterRepo := catalog_repo.NewCostCenterRepo(txManager)
	finPlanRepo := catalog_repo.NewFinancialPlanRepo(txManager)

	productService := product.NewService(productRepo, txManager)
	employeeService := employee.NewService(employeeRepo, txManager)
	warehouseService := warehouse.NewService(warehouseRepo, txManager)
	costCenterService := costcenter.NewService(costCenterRepo, txManager)
	finPlanService := finplan.NewService(finPlanRepo, txManager)

	// --- Stock ledger ---
	stockRepo := ledger_repo.NewStockRepo(txManager)
	ledgerService := ledger.NewService(
		stockRepo,
		txManager,
		productRepo,
		employeeRepo,
		costCenterRepo,
		warehouseRepo,
	)

	// --- Purchase requests ---
	auditService, err := postgres.NewAuditService(txManager)
	if err != nil {
		log.Fatalw("failed to initialize audit service", "error", err)
	}

	requestsService := requests.NewService(
		request_repo.NewRequestRepo(txManager),
		txManager,
		numerator.New(pool),
		&workflowAuditor{audit: auditService},
		employeeRepo,
		costCenterRepo,
		finPlanRepo,
	)

	// --- Reports ---
	// Exports read the repo directly so the export cap applies, not the
	// interactive page clamp of the ledger service.
	reportsService := reports.NewService(stockRepo, map[reports.Format]reports.Renderer{
		reports.FormatExcel: export.NewExcelRenderer(),
		reports.FormatPDF:   export.NewPDFRenderer(),
	})

	// --- Idempotency ---
	var idempotencyStore *postgres.IdempotencyStore
	if cfg.Idempotency.Enabled {
		idempotencyStore = postgres.NewIdempotencyStore(pool, txManager, cfg.Idempotency.TTL)
	}

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Pool:                 pool,
		Logger:               log,
		JWTValidator:         jwtService,
		AuthService:          authService,
		ProductService:       productService,
		EmployeeService:      employeeService,
		WarehouseService:     warehouseService,
		CostCenterService:    costCenterService,
		FinancialPlanService: finPlanService,
		LedgerService:        ledgerService,
		RequestsService:      requestsService,
		ReportsService:       reportsService,
		IdempotencyStore:     idempotencyStore,
	})

	// --- HTTP Server ---
	server := &http.Server{
		Addr:         cfg.HTTP.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	go func() {
		log.Infow("server starting", "addr", cfg.HTTP.Addr())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	// Give outstanding requests 30 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}

// workflowAuditor adapts the postgres audit trail to the workflow service.
type workflowAuditor struct {
	audit *postgres.AuditService
}

func (a *workflowAuditor) LogChange(
	ctx context.Context,
	entityType string,
	entityID id.ID,
	action string,
	changes map[string]any,
) error {
	return a.audit.LogChange(ctx, entityType, entityID, postgres.AuditAction(action), changes)
}
