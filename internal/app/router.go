// internal/app/router.go
package app

import (
	"fmt"

	authHandler "plus-service/internal/handlers/auth"
	healthHandler "plus-service/internal/handlers/health"
	newsletterHandler "plus-service/internal/handlers/newsletter"
	settingsHandler "plus-service/internal/handlers/settings"
	whoamiHandler "plus-service/internal/handlers/whoami"
	"plus-service/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handlers struct {
	AuthHandler       *authHandler.AuthHandler
	WhoamiHandler     *whoamiHandler.WhoamiHandler
	SettingsHandler   *settingsHandler.SettingsHandler
	NewsletterHandler *newsletterHandler.NewsletterHandler
	HealthHandler     *healthHandler.HealthHandler
	SessionMiddleware *middleware.SessionMiddleware
}

// NewEngine returns a bare engine whose ClientIP honours X-Forwarded-For
// only from trustedProxies (IPs or CIDRs). With none, the peer address is used.
func NewEngine(trustedProxies []string) (*gin.Engine, error) {
	engine := gin.New()
	if err := engine.SetTrustedProxies(trustedProxies); err != nil {
		return nil, fmt.Errorf("invalid trusted proxies: %w", err)
	}
	return engine, nil
}

func SetupRouter(r *gin.Engine, logger *zap.Logger, h *Handlers) {
	r.Use(middleware.LoggingMiddleware(logger), middleware.RecoveryMiddleware(logger))

	// ==================== Health Check ====================
	r.GET("/healthz", h.HealthHandler.Health)

	api := r.Group("/api/v1")
	api.Use(h.SessionMiddleware.Resolve())

	// ==================== Identity ====================
	api.GET("/whoami", h.WhoamiHandler.Get)

	// ==================== Auth Routes ====================
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/login", h.AuthHandler.Login)
		authGroup.POST("/logout", h.AuthHandler.Logout)
	}

	// ==================== Public Newsletter ====================
	api.POST("/newsletter", h.NewsletterHandler.Signup)

	// ==================== Plus (authenticated) ====================
	plus := api.Group("/plus")
	plus.Use(h.SessionMiddleware.RequireAuth())
	{
		plus.GET("/settings/", h.SettingsHandler.GetSettings)
		plus.POST("/settings/", h.SettingsHandler.UpdateSettings)

		plus.GET("/newsletter/", h.NewsletterHandler.GetStatus)
		plus.POST("/newsletter/", h.NewsletterHandler.Subscribe)
		plus.DELETE("/newsletter/", h.NewsletterHandler.Unsubscribe)
	}
}
