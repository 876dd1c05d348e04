// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"stokpanel/internal/domain/auth"
	"stokpanel/internal/domain/catalogue"
	"stokpanel/internal/domain/product"
	"stokpanel/internal/domain/stockcount"
	"stokpanel/internal/importer"
	"stokpanel/internal/infrastructure/http/v1/handlers"
	"stokpanel/internal/infrastructure/http/v1/middleware"
	"stokpanel/internal/netstatus"
	"stokpanel/pkg/logger"
)

// RouterConfig holds everything the router wires together.
type RouterConfig struct {
	Logger *logger.Logger

	AuthService  *auth.Service
	JWTValidator middleware.JWTValidator
	Sessions     middleware.SessionChecker

	Catalogue   *catalogue.Controller
	ProductRepo product.Repository
	Pipeline    *importer.Pipeline
	StockCount  *stockcount.Service

	Monitor netstatus.Monitor
	DB      handlers.Pinger
	Redis   handlers.Pinger
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
	healthHandler := handlers.NewHealthHandler(cfg.DB, cfg.Redis, cfg.Monitor)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
	}

	base := handlers.NewBaseHandler()
	authHandler := handlers.NewAuthHandler(base, cfg.AuthService)
	productHandler := handlers.NewProductHandler(base, cfg.Catalogue, cfg.ProductRepo)
	importHandler := handlers.NewImportHandler(base, cfg.Pipeline, cfg.Catalogue)
	stockCountHandler := handlers.NewStockCountHandler(base, cfg.StockCount)

	apiV1 := router.Group("/api/v1")
	{
		public := apiV1.Group("/auth")

		protected := apiV1.Group("")
		protected.Use(middleware.Auth(cfg.JWTValidator, cfg.Sessions))

		authHandler.RegisterRoutes(public, protected.Group("/auth"))
		productHandler.RegisterRoutes(protected)
		importHandler.RegisterRoutes(protected)
		stockCountHandler.RegisterRoutes(protected)
	}

	return router
}
