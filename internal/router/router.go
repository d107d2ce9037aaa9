package router

import (
	"time"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/dev-two-inmatmex/modulo-PyAP/internal/biometria"
	"github.com/dev-two-inmatmex/modulo-PyAP/internal/chequeo"
	"github.com/dev-two-inmatmex/modulo-PyAP/internal/config"
	"github.com/dev-two-inmatmex/modulo-PyAP/internal/handler"
	"github.com/dev-two-inmatmex/modulo-PyAP/internal/infra"
	"github.com/dev-two-inmatmex/modulo-PyAP/internal/middleware"
	"github.com/dev-two-inmatmex/modulo-PyAP/internal/repository"
	"github.com/dev-two-inmatmex/modulo-PyAP/internal/service"
	"github.com/dev-two-inmatmex/modulo-PyAP/internal/worker"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, dispatcher *worker.Dispatcher) *gin.Engine {
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
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Infrastructure ───────────────────────────────────────────────────────
	motor := infra.MotorFacial(cfg.MotorFacialURL)
	matcher := biometria.NewMatcher(biometria.Umbrales{
		Coincidencia: cfg.UmbralCoincidencia,
		Vida:         cfg.UmbralVida,
		VidaGesto:    cfg.UmbralVidaGesto,
	})
	reglas := chequeo.Reglas{PermitirSalidaAnticipada: cfg.PermitirSalidaAnticipada}

	// ── Repositories ─────────────────────────────────────────────────────────
	empleadoRepo := repository.NewEmpleadoRepository(db)
	chequeoRepo := repository.NewChequeoRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(empleadoRepo, cfg)
	empleadoSvc := service.NewEmpleadoService(empleadoRepo)
	chequeoSvc := service.NewChequeoService(
		empleadoRepo, chequeoRepo, matcher, rdb, dispatcher,
		cfg.ToleranciaRetardoMin, reglas,
	)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	adminH := handler.NewAdminEmpleadosHandler(authSvc)
	empleadosH := handler.NewEmpleadosHandler(empleadoSvc)
	chequeosH := handler.NewChequeosHandler(chequeoSvc)
	reportesH := handler.NewReportesHandler(chequeoSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb, motor))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		// Roles: empleado, rh, administrador — declared per-endpoint
		chequeos := v1.Group("/chequeos", middleware.RequireRole("empleado", "rh", "administrador"))
		{
			chequeos.POST("", chequeosH.Registrar)
			chequeos.GET("/hoy", chequeosH.Hoy)
			chequeos.GET("/historial", chequeosH.Historial)
		}

		v1.GET("/empleados/me/asignaciones",
			middleware.RequireRole("empleado", "rh", "administrador"), empleadosH.Asignaciones)

		// Enrollment is an HR-supervised act, never self-service
		v1.POST("/empleados/:id/descriptor",
			middleware.RequireRole("rh", "administrador"), empleadosH.EnrolarDescriptor)

		v1.POST("/reportes/diario",
			middleware.RequireRole("rh", "administrador"), reportesH.Diario)

		empleados := v1.Group("/empleados", middleware.RequireRole("administrador"))
		{
			empleados.POST("", adminH.Crear)
			empleados.GET("", adminH.Listar)
			empleados.PUT("/:id", adminH.Actualizar)
			empleados.DELETE("/:id", adminH.Desactivar)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
