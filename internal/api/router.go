package api

import (
	"context"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/importdesk/landing-cost/internal/api/handler"
	"github.com/importdesk/landing-cost/internal/api/middleware"
	"github.com/importdesk/landing-cost/internal/core/domain"
	"github.com/importdesk/landing-cost/internal/core/service"
	mongorepo "github.com/importdesk/landing-cost/internal/infrastructure/db/mongo"
	redisrepo "github.com/importdesk/landing-cost/internal/infrastructure/db/redis"
)

// RouterConfig carries everything the router needs to assemble the API.
type RouterConfig struct {
	JWTSecret         string
	ReportingCurrency string
	FXRateTTL         time.Duration
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, cfg RouterConfig, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("landingcost_http"))

	// --- Dependencies ---
	costRepo := mongorepo.NewCostRepository(db)
	cartonRepo := mongorepo.NewCartonRepository(db)
	rateStore := redisrepo.NewRateStore(rdb, cfg.FXRateTTL)

	// Index creation is best-effort; queries work without it, just slower.
	if err := costRepo.EnsureIndexes(context.Background()); err != nil {
		log.Warn().Err(err).Msg("cost index creation failed")
	}
	if err := cartonRepo.EnsureIndexes(context.Background()); err != nil {
		log.Warn().Err(err).Msg("carton index creation failed")
	}

	costService := service.NewCostService(costRepo, rateStore, cfg.ReportingCurrency, log)
	cartonService := service.NewCartonService(cartonRepo, log)
	engine := service.NewAllocationService(log)

	costHandler := handler.NewCostHandler(costService, log)
	cartonHandler := handler.NewCartonHandler(cartonService)
	allocationHandler := handler.NewAllocationHandler(engine, costService, cartonService, rateStore)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)          // liveness: is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness: are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	// --- Authenticated API ---
	v1 := e.Group("/v1", middleware.Auth(cfg.JWTSecret))
	readers := []string{domain.RoleAdmin, domain.RoleOps, domain.RoleViewer}
	writers := []string{domain.RoleAdmin, domain.RoleOps}

	shipments := v1.Group("/shipments/:shipment_id")

	shipments.GET("/costs", costHandler.List, middleware.RBAC(readers...))
	shipments.POST("/costs", costHandler.Create, middleware.RBAC(writers...))
	shipments.PUT("/costs/:cost_id", costHandler.Update, middleware.RBAC(writers...))
	shipments.DELETE("/costs/:cost_id", costHandler.Delete, middleware.RBAC(writers...))

	shipments.GET("/cartons", cartonHandler.List, middleware.RBAC(readers...))
	shipments.POST("/cartons", cartonHandler.Create, middleware.RBAC(writers...))
	shipments.PUT("/cartons/:carton_id", cartonHandler.Update, middleware.RBAC(writers...))
	shipments.DELETE("/cartons/:carton_id", cartonHandler.Delete, middleware.RBAC(writers...))
	shipments.POST("/cartons/dimensions", cartonHandler.BulkDimensions, middleware.RBAC(writers...))

	shipments.POST("/allocation/preview", allocationHandler.Preview, middleware.RBAC(readers...))
	shipments.POST("/allocation/export", allocationHandler.ExportCSV, middleware.RBAC(readers...))

	return e
}
