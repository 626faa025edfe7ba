package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/adarshsingh05/paperly-backend/internal/billing"
	"github.com/adarshsingh05/paperly-backend/internal/documents"
	"github.com/adarshsingh05/paperly-backend/internal/invoices"
	"github.com/adarshsingh05/paperly-backend/internal/letters"
	"github.com/adarshsingh05/paperly-backend/internal/shared/config"
	"github.com/adarshsingh05/paperly-backend/internal/shared/metrics"
	"github.com/adarshsingh05/paperly-backend/internal/shared/server/middleware"
	"github.com/adarshsingh05/paperly-backend/internal/shared/server/respond"
	"github.com/adarshsingh05/paperly-backend/internal/users"
)

// RouterDeps carries the handlers the router mounts.
type RouterDeps struct {
	Config           config.Config
	UsersHandler     *users.Handler
	DocumentsHandler *documents.Handler
	InvoicesHandler  *invoices.Handler
	BillingHandler   *billing.Handler
	LettersHandler   *letters.Handler
	BillingService   *billing.Service
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	cfg := deps.Config
	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(strings.Split(cfg.CORSAllowOrigin, ",")),
	)

	r.GET("/metrics", metrics.Handler())

	// Public surface: registration, login, the counterparty signing flow and
	// the legacy invoice upload.
	public := r.Group("/api/v1")
	public.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	if deps.UsersHandler != nil {
		deps.UsersHandler.RegisterPublicRoutes(public)
	}
	if deps.DocumentsHandler != nil {
		deps.DocumentsHandler.RegisterPublicRoutes(public)
	}
	if deps.InvoicesHandler != nil {
		uploads := public.Group("")
		uploads.Use(middleware.RateLimit(middleware.RateLimitConfig{
			Rules: map[string]middleware.RateLimitRule{
				"DEFAULT": {Rate: 1, Burst: 5},
			},
		}))
		deps.InvoicesHandler.RegisterPublicRoutes(uploads)
	}

	// Everything else requires a bearer token.
	authed := r.Group("/api/v1")
	authed.Use(middleware.Auth([]byte(cfg.JWTSecret)))
	if deps.UsersHandler != nil {
		deps.UsersHandler.RegisterRoutes(authed)
	}
	if deps.DocumentsHandler != nil {
		deps.DocumentsHandler.RegisterRoutes(authed)
	}
	if deps.InvoicesHandler != nil {
		deps.InvoicesHandler.RegisterRoutes(authed)
	}
	if deps.BillingHandler != nil {
		deps.BillingHandler.RegisterRoutes(authed)
	}
	if deps.LettersHandler != nil && deps.BillingService != nil {
		premium := authed.Group("")
		premium.Use(billing.RequireSubscription(deps.BillingService))
		deps.LettersHandler.RegisterRoutes(premium)
	}

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
