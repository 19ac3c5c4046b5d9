package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sim-backend/internal/account"
	"sim-backend/internal/analyses"
	googleauth "sim-backend/internal/auth"
	"sim-backend/internal/initiatives"
	"sim-backend/internal/members"
	"sim-backend/internal/organizations"
	"sim-backend/internal/services/health"
	"sim-backend/internal/shared/config"
	"sim-backend/internal/shared/metrics"
	"sim-backend/internal/shared/server/middleware"
	"sim-backend/internal/shared/server/respond"
	"sim-backend/internal/uploads"
	"sim-backend/internal/usage"
)

// RouterDeps lists the handlers mounted under /api/v1. Nil handlers are skipped.
type RouterDeps struct {
	Config              config.Config
	Health              *health.Service
	OrganizationHandler *organizations.Handler
	InitiativeHandler   *initiatives.Handler
	AnalysisHandler     *analyses.Handler
	UsageHandler        *usage.Handler
	MemberHandler       *members.Handler
	AccountHandler      *account.Handler
	UploadHandler       *uploads.Handler
	GoogleAuth          *googleauth.GoogleService
	RateLimiter         *middleware.RateLimiter
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)

	r.GET("/healthz", healthHandler(deps.Health))
	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	api.Use(
		middleware.Auth("/api/v1/health", "/api/v1/auth/"),
		middleware.RateLimit(middleware.RateLimitConfig{
			Rules:    middleware.DefaultRateLimitRules(),
			GroupFor: middleware.RouteGroupFor,
			Limiter:  deps.RateLimiter,
		}),
	)
	api.GET("/health", healthHandler(deps.Health))

	if deps.GoogleAuth != nil {
		deps.GoogleAuth.RegisterRoutes(api)
	}
	if deps.MemberHandler != nil {
		deps.MemberHandler.RegisterRoutes(api)
	}
	if deps.AccountHandler != nil {
		deps.AccountHandler.RegisterRoutes(api)
	}
	if deps.OrganizationHandler != nil {
		deps.OrganizationHandler.RegisterRoutes(api)
	}
	if deps.InitiativeHandler != nil {
		deps.InitiativeHandler.RegisterRoutes(api)
	}
	if deps.AnalysisHandler != nil {
		deps.AnalysisHandler.RegisterRoutes(api)
	}
	if deps.UploadHandler != nil {
		deps.UploadHandler.RegisterRoutes(api)
	}
	if deps.UsageHandler != nil {
		deps.UsageHandler.RegisterRoutes(api)
		if deps.Config.IsDevLike() {
			deps.UsageHandler.RegisterDevRoutes(api.Group("/dev"))
		}
	}

	r.NoRoute(func(c *gin.Context) {
		respond.Error(c, http.StatusNotFound, "not_found", "route not found", nil)
	})
	return r
}

func healthHandler(svc *health.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		status, ok := svc.Status(c.Request.Context())
		code := http.StatusOK
		if !ok {
			code = http.StatusServiceUnavailable
		}
		respond.JSON(c, code, status)
	}
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
