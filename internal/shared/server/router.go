package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ritual-backend/internal/assistant"
	googleauth "ritual-backend/internal/auth"
	"ritual-backend/internal/content"
	"ritual-backend/internal/diagnostic"
	"ritual-backend/internal/leads"
	"ritual-backend/internal/media"
	"ritual-backend/internal/rituals"
	"ritual-backend/internal/services/health"
	"ritual-backend/internal/shared/config"
	"ritual-backend/internal/shared/metrics"
	"ritual-backend/internal/shared/server/middleware"
	"ritual-backend/internal/shared/server/respond"
	"ritual-backend/internal/users"
)

const (
	rateGroupLeads     = "LEADS"
	rateGroupAssistant = "ASSISTANT"
)

// RouterDeps carries the handlers mounted by NewRouter. Nil handlers are skipped.
type RouterDeps struct {
	Config            config.Config
	Health            *health.Service
	DiagnosticHandler *diagnostic.Handler
	RitualHandler     *rituals.Handler
	LeadHandler       *leads.Handler
	ContentHandler    *content.Handler
	MediaHandler      *media.Handler
	AssistantHandler  *assistant.Handler
	UserHandler       *users.Handler
	GoogleAuth        *googleauth.GoogleService
	RateLimiter       *middleware.RateLimiter
}

// DefaultRateLimits caps public writes and model-backed endpoints per visitor.
func DefaultRateLimits() map[string]middleware.RateLimitRule {
	return map[string]middleware.RateLimitRule{
		"DEFAULT":          {Rate: 10, Burst: 40},
		rateGroupLeads:     {Rate: 1.0 / 60, Burst: 5},
		rateGroupAssistant: {Rate: 0.5, Burst: 10},
	}
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	cfg := deps.Config

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSAllowOrigin),
		middleware.Auth(),
		middleware.RateLimit(middleware.RateLimitConfig{
			Rules:        DefaultRateLimits(),
			DefaultGroup: "DEFAULT",
			GroupFor: middleware.RouteGroups(map[string]string{
				"POST /api/v1/leads": rateGroupLeads,
				"POST /api/v1/chat":  rateGroupAssistant,
				"POST /api/v1/quiz":  rateGroupAssistant,
			}),
			Limiter: deps.RateLimiter,
		}),
	)

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		status := deps.Health.Status(c.Request.Context())
		code := http.StatusOK
		if !status.OK {
			code = http.StatusServiceUnavailable
		}
		respond.JSON(c, code, status)
	})
	api.GET("/metrics", metrics.Handler())

	if deps.GoogleAuth != nil {
		deps.GoogleAuth.RegisterRoutes(api)
	}
	if deps.DiagnosticHandler != nil {
		deps.DiagnosticHandler.RegisterRoutes(api)
	}
	if deps.RitualHandler != nil {
		deps.RitualHandler.RegisterRoutes(api)
	}
	if deps.LeadHandler != nil {
		deps.LeadHandler.RegisterRoutes(api)
	}
	if deps.ContentHandler != nil {
		deps.ContentHandler.RegisterRoutes(api)
	}
	if deps.MediaHandler != nil {
		deps.MediaHandler.RegisterRoutes(api)
	}
	if deps.AssistantHandler != nil {
		deps.AssistantHandler.RegisterRoutes(api)
	}

	requireAdmin := middleware.RequireAdmin(cfg.AdminEmails)
	if deps.UserHandler != nil {
		deps.UserHandler.RegisterRoutes(api.Group("", requireAdmin))
	}

	admin := api.Group("/admin", requireAdmin)
	if deps.DiagnosticHandler != nil {
		deps.DiagnosticHandler.RegisterAdminRoutes(admin)
	}
	if deps.RitualHandler != nil {
		deps.RitualHandler.RegisterAdminRoutes(admin)
	}
	if deps.LeadHandler != nil {
		deps.LeadHandler.RegisterAdminRoutes(admin)
	}
	if deps.ContentHandler != nil {
		deps.ContentHandler.RegisterAdminRoutes(admin)
	}
	if deps.MediaHandler != nil {
		deps.MediaHandler.RegisterAdminRoutes(admin)
	}
	if deps.UserHandler != nil {
		deps.UserHandler.RegisterAdminRoutes(admin)
	}

	r.NoRoute(func(c *gin.Context) {
		respond.Error(c, http.StatusNotFound, "not_found", "route not found", nil)
	})

	return r
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
