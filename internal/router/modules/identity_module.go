package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/voltshop/backend/internal/container"
	handlers "github.com/voltshop/backend/internal/interface/http"
	"github.com/voltshop/backend/internal/interface/middleware"
)

type IdentityModule struct {
	Handler *handlers.IdentityHandler
}

func NewIdentityModule(h *handlers.IdentityHandler) *IdentityModule {
	return &IdentityModule{Handler: h}
}

func (m *IdentityModule) Register(rg *gin.RouterGroup) {
	// Public endpoints with IP-based rate limits. Credential endpoints
	// get the tightest budget; refresh runs on every session renewal so
	// it gets more headroom.
	registerLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIPAndPath(), nil)
	loginLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIPAndPath(), nil)
	refreshLimiter := middleware.RateLimit(container.GetRedis(), 60, time.Minute, middleware.KeyByIPAndPath(), nil)

	rg.POST("/identity/register", registerLimiter, m.Handler.Register)
	rg.POST("/identity/login", loginLimiter, m.Handler.Login)
	rg.POST("/identity/refresh-token", refreshLimiter, m.Handler.Refresh)
	rg.POST("/identity/logout", m.Handler.Logout)

	// Password recovery is entered unauthenticated but is not available.
	rg.POST("/identity/forgot-password", loginLimiter, m.Handler.NotImplemented)
	rg.POST("/identity/reset-password", loginLimiter, m.Handler.NotImplemented)

	// Session administration requires a valid access token.
	auth := rg.Group("/")
	auth.Use(middleware.Auth(container.GetIssuer()))
	{
		auth.GET("/identity/sessions/:userId", m.Handler.GetSessions)
		auth.POST("/identity/sessions/revoke/:userId", m.Handler.RevokeSession)

		auth.GET("/identity/profile/:userId", m.Handler.NotImplemented)
		auth.PUT("/identity/profile/:userId", m.Handler.NotImplemented)
		auth.POST("/identity/change-password", m.Handler.NotImplemented)
		auth.POST("/identity/2fa/setup", m.Handler.NotImplemented)
		auth.POST("/identity/2fa/verify", m.Handler.NotImplemented)
		auth.POST("/identity/verify-email", m.Handler.NotImplemented)
		auth.POST("/identity/verify-phone", m.Handler.NotImplemented)
		auth.POST("/identity/role", m.Handler.NotImplemented)
		auth.POST("/identity/role/assign", m.Handler.NotImplemented)
	}

	// External login is entered unauthenticated but is not available.
	rg.POST("/identity/external-login", m.Handler.NotImplemented)
}
