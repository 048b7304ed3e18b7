package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/FeliPerrelliACT/Almoxarifado/internal/domain/auth"
	"github.com/FeliPerrelliACT/Almoxarifado/internal/domain/catalogs/costcenter"
	"github.com/FeliPerrelliACT/Almoxarifado/internal/domain/catalogs/employee"
	"github.com/FeliPerrelliACT/Almoxarifado/internal/domain/catalogs/finplan"
	"github.com/FeliPerrelliACT/Almoxarifado/internal/domain/catalogs/product"
	"github.com/FeliPerrelliACT/Almoxarifado/internal/domain/catalogs/warehouse"
	"github.com/FeliPerrelliACT/Almoxarifado/internal/domain/ledger"
	"github.com/FeliPerrelliACT/Almoxarifado/internal/domain/reports"
	"github.com/FeliPerrelliACT/Almoxarifado/internal/domain/requests"
	"github.com/FeliPerrelliACT/Almoxarifado/internal/infrastructure/http/v1/handlers"
	"github.com/FeliPerrelliACT/Almoxarifado/internal/infrastructure/http/v1/middleware"
	"github.com/FeliPerrelliACT/Almoxarifado/internal/infrastructure/storage/postgres"
	"github.com/FeliPerrelliACT/Almoxarifado/pkg/logger"
)

// RouterConfig holds everything the HTTP layer depends on.
// Services are constructed once at startup and shared across requests.
type RouterConfig struct {
	// Pool is the database connection (for health checks)
	Pool *postgres.Pool

	// Logger for request logging
	Logger *logger.Logger

	// JWTValidator for token validation
	JWTValidator middleware.JWTValidator

	// AuthService for authentication endpoints
	AuthService *auth.Service

	// Catalog services
	ProductService       *product.Service
	EmployeeService      *employee.Service
	WarehouseService     *warehouse.Service
	CostCenterService    *costcenter.Service
	FinancialPlanService *finplan.Service

	// LedgerService records movements and answers balance queries
	LedgerService *ledger.Service

	// RequestsService drives the purchase request workflow
	RequestsService *requests.Service

	// ReportsService renders balance and movement exports
	ReportsService *reports.Service

	// IdempotencyStore enables retry-safe mutating endpoints when set
	IdempotencyStore *postgres.IdempotencyStore
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	// Health endpoints (no auth required)
	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	// API v1
	v1 := router.Group("/api/v1")
	{
		registerAuthRoutes(v1, cfg)

		// Protected endpoints
		protected := v1.Group("")
		protected.Use(middleware.Auth(cfg.JWTValidator))
		protected.Use(middleware.UserContext())

		// Idempotency for mutating operations
		if cfg.IdempotencyStore != nil {
			protected.Use(middleware.Idempotency(cfg.IdempotencyStore))
		}

		registerCatalogRoutes(protected, cfg)
		registerStockRoutes(protected, cfg)
		registerRequestRoutes(protected, cfg)
		registerReportRoutes(protected, cfg)
	}

	return router
}

// registerAuthRoutes registers authentication endpoints.
func registerAuthRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	if cfg.AuthService == nil {
		return
	}

	baseHandler := handlers.NewBaseHandler()
	authHandler := handlers.NewAuthHandler(baseHandler, cfg.AuthService)

	// Public auth endpoints (no JWT required)
	publicAuth := rg.Group("/auth")

	// Protected auth endpoints (JWT required)
	protectedAuth := rg.Group("/auth")
	protectedAuth.Use(middleware.Auth(cfg.JWTValidator))

	authHandler.RegisterRoutes(publicAuth, protectedAuth)
}

// registerCatalogRoutes registers catalog endpoints.
func registerCatalogRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	catalogs := rg.Group("/catalog")
	baseHandler := handlers.NewBaseHandler()

	RegisterCatalogRoutes(catalogs.Group("/products"),
		handlers.NewProductHandler(baseHandler, cfg.ProductService), "catalog:product")
	RegisterCatalogRoutes(catalogs.Group("/employees"),
		handlers.NewEmployeeHandler(baseHandler, cfg.EmployeeService), "catalog:employee")
	RegisterCatalogRoutes(catalogs.Group("/warehouses"),
		handlers.NewWarehouseHandler(baseHandler, cfg.WarehouseService), "catalog:warehouse")
	RegisterCatalogRoutes(catalogs.Group("/cost-centers"),
		handlers.NewCostCenterHandler(baseHandler, cfg.CostCenterService), "catalog:cost_center")
	RegisterCatalogRoutes(catalogs.Group("/financial-plans"),
		handlers.NewFinancialPlanHandler(baseHandler, cfg.FinancialPlanService), "catalog:financial_plan")
}

// registerStockRoutes registers stock ledger endpoints.
func registerStockRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	baseHandler := handlers.NewBaseHandler()
	stockHandler := handlers.NewStockHandler(baseHandler, cfg.LedgerService)

	stock := rg.Group("/stock")
	stock.POST("/entries", middleware.RequirePermission("stock:record"), stockHandler.RecordEntry)
	stock.POST("/exits", middleware.RequirePermission("stock:record"), stockHandler.RecordExit)
	stock.POST("/transfers", middleware.RequirePermission("stock:record"), stockHandler.RecordTransfer)
	stock.GET("/balances", middleware.RequirePermission("stock:read"), stockHandler.GetBalances)
	stock.GET("/locations", middleware.RequirePermission("stock:read"), stockHandler.GetLocations)
	stock.GET("/locations/:location/products", middleware.RequirePermission("stock:read"), stockHandler.GetLocationProducts)
	stock.GET("/movements", middleware.RequirePermission("stock:read"), stockHandler.GetMovements)
}

// registerRequestRoutes registers purchase request endpoints.
func registerRequestRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	baseHandler := handlers.NewBaseHandler()
	requestsHandler := handlers.NewRequestsHandler(baseHandler, cfg.RequestsService)

	// Approve/reject authorization is enforced inside the workflow service,
	// which also blocks authors from settling their own requests.
	group := rg.Group("/purchase-requests")
	group.Use(middleware.RequirePermission("requests:access"))
	requestsHandler.RegisterRoutes(group)
}

// registerReportRoutes registers report export endpoints.
func registerReportRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	baseHandler := handlers.NewBaseHandler()
	stockHandler := handlers.NewStockHandler(baseHandler, cfg.LedgerService)
	reportsHandler := handlers.NewReportsHandler(baseHandler, stockHandler, cfg.ReportsService)

	group := rg.Group("/reports")
	group.Use(middleware.RequirePermission("reports:read"))
	reportsHandler.RegisterRoutes(group)
}
