package gateway

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/voltshop/backend/config"
	"github.com/voltshop/backend/internal/container"
	"github.com/voltshop/backend/internal/interface/middleware"
)

// identityPolicy is the named rate-limit policy applied to identity
// routes; other traffic falls under the global default.
const identityPolicy = "/api/identity"

// NewEngine assembles the gateway: CORS, request identity and logging,
// rate limiting, health endpoints, and the catch-all reverse proxy.
func NewEngine(cfg *config.Config, proxy *Proxy) *gin.Engine {
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	logger := container.GetLogger()

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	engine.Use(middleware.RealIP())
	engine.Use(middleware.RequestID())
	if cfg.GatewayHTTPLog {
		engine.Use(RequestLogger(logger))
	}
	engine.Use(AuditLogger(container.GetES(), cfg.ESAuditIndex, logger))

	global := NewFixedWindowLimiter(cfg.RateLimitMax, cfg.RateLimitWindow)
	identity := NewFixedWindowLimiter(cfg.IdentityRateMax, cfg.IdentityRateWindow)
	engine.Use(policyRateLimit(global, identity))

	go pruneLoop(cfg.RateLimitWindow, global, identity)

	health := NewHealthHandler(container.GetRedis(), cfg.IdentityHealthURL, proxy.Upstreams())
	engine.GET("/health", health.Live)
	engine.GET("/health/infrastructure", health.Infrastructure)
	engine.GET("/health/services", health.Services)

	engine.NoRoute(proxy.Handler)
	return engine
}

func policyRateLimit(global, identity *FixedWindowLimiter) gin.HandlerFunc {
	globalMW := RateLimit(global)
	identityMW := RateLimit(identity)
	return func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, identityPolicy) {
			identityMW(c)
			return
		}
		globalMW(c)
	}
}

func pruneLoop(window time.Duration, limiters ...*FixedWindowLimiter) {
	t := time.NewTicker(window)
	defer t.Stop()
	for range t.C {
		for _, l := range limiters {
			l.Prune()
		}
	}
}
