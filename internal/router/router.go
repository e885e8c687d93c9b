package router

import (
	"time"

	"myphone/internal/config"
	"myphone/internal/handler"
	"myphone/internal/infra"
	"myphone/internal/middleware"
	"myphone/internal/repository"
	"myphone/internal/service"
	"myphone/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Deps are the infrastructure handles built by the composition root.
type Deps struct {
	DB         *gorm.DB
	Redis      *redis.Client
	FXBreaker  *infra.CircuitBreaker
	FXCache    *infra.FXCache
	Dispatcher *worker.Dispatcher
}

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, deps Deps) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(cfg.RateLimit, time.Minute))

	// ── Repositories ─────────────────────────────────────────────────────────
	stockRepo := repository.NewStockItemRepository(deps.DB)
	movimientoStockRepo := repository.NewMovimientoStockRepository(deps.DB)
	ruleRepo := repository.NewRuleRepository(deps.DB)

	// ── Services ─────────────────────────────────────────────────────────────
	// A nil dispatcher would be a typed nil inside the interface.
	var publisher service.StockEventPublisher
	if deps.Dispatcher != nil {
		publisher = deps.Dispatcher
	}
	var fx service.FXRateSource
	if deps.FXCache != nil {
		fx = deps.FXCache
	}

	stockSvc := service.NewStockService(stockRepo, movimientoStockRepo, publisher)
	cotizadorSvc := service.NewCotizadorService(ruleRepo, fx, cfg.Installments())
	canjeSvc := service.NewCanjeService(ruleRepo, fx)
	reglasSvc := service.NewReglasService(ruleRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	stockH := handler.NewStockHandler(stockSvc)
	cotizadorH := handler.NewCotizadorHandler(cotizadorSvc, canjeSvc)
	reglasH := handler.NewReglasHandler(reglasSvc)

	todos := middleware.RequireRole(middleware.RolVendedor, middleware.RolSupervisor, middleware.RolAdministrador)
	encargados := middleware.RequireRole(middleware.RolSupervisor, middleware.RolAdministrador)
	admin := middleware.RequireRole(middleware.RolAdministrador)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(deps.DB, deps.Redis, deps.FXBreaker))

	// Protected routes
	v1 := r.Group("/v1", middleware.JWTAuth(cfg.JWTSecret))
	{
		stock := v1.Group("/stock")
		{
			stock.GET("", todos, stockH.Listar)
			stock.GET("/:id", todos, stockH.Obtener)
			stock.GET("/:id/movimientos", todos, stockH.Movimientos)
			// Sellers move units between drawer, service and the floor.
			stock.PATCH("/:id/estado", todos, stockH.CambiarEstado)
			stock.POST("/:id/vender", todos, stockH.Vender)
			// Intake and promo pricing: supervisor or administrador
			stock.POST("", encargados, stockH.Crear)
			stock.PATCH("/:id/promo", encargados, stockH.CambiarPromo)
		}

		v1.POST("/cotizador/cuotas", todos, cotizadorH.Cuotas)
		v1.POST("/canje/valuar", todos, cotizadorH.ValuarCanje)

		// Reglas: all authenticated can read, administrador can write
		reglas := v1.Group("/reglas")
		{
			reglas.GET("/pricing", todos, reglasH.ListarPricing)
			reglas.GET("/plan-canje", todos, reglasH.ListarPlanCanje)
			reglas.POST("/pricing", admin, reglasH.CrearPricing)
			reglas.DELETE("/pricing/:id", admin, reglasH.EliminarPricing)
			reglas.POST("/plan-canje", admin, reglasH.CrearPlanCanje)
			reglas.DELETE("/plan-canje/:id", admin, reglasH.EliminarPlanCanje)
		}
	}

	// Swagger UI, only outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
