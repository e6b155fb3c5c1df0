package gateway

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const healthProbeTimeout = 3 * time.Second

// HealthHandler aggregates gateway, shared-infrastructure, and upstream
// service health into JSON reports.
type HealthHandler struct {
	Redis             *redis.Client
	IdentityHealthURL string
	Upstreams         map[string]*url.URL
	HTTP              *http.Client
}

func NewHealthHandler(rdb *redis.Client, identityHealthURL string, upstreams map[string]*url.URL) *HealthHandler {
	return &HealthHandler{
		Redis:             rdb,
		IdentityHealthURL: identityHealthURL,
		Upstreams:         upstreams,
		HTTP:              &http.Client{Timeout: healthProbeTimeout},
	}
}

// Live reports that the gateway process itself is serving.
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "pass"})
}

// Infrastructure checks the shared backing stores: Redis directly, and
// the identity service's own health endpoint, which covers its database.
func (h *HealthHandler) Infrastructure(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthProbeTimeout)
	defer cancel()

	checks := gin.H{}
	healthy := true

	if h.Redis != nil {
		if err := h.Redis.Ping(ctx).Err(); err != nil {
			checks["redis"] = "fail: " + err.Error()
			healthy = false
		} else {
			checks["redis"] = "pass"
		}
	}

	if h.IdentityHealthURL != "" {
		if err := h.probe(ctx, h.IdentityHealthURL); err != nil {
			checks["identity"] = "fail: " + err.Error()
			healthy = false
		} else {
			checks["identity"] = "pass"
		}
	}

	h.report(c, healthy, checks)
}

// Services pings every configured upstream cluster.
func (h *HealthHandler) Services(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthProbeTimeout)
	defer cancel()

	checks := gin.H{}
	healthy := true

	for prefix, u := range h.Upstreams {
		if err := h.probe(ctx, u.String()); err != nil {
			checks[prefix] = "fail: " + err.Error()
			healthy = false
		} else {
			checks[prefix] = "pass"
		}
	}

	h.report(c, healthy, checks)
}

func (h *HealthHandler) probe(ctx context.Context, target string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return err
	}
	res, err := h.HTTP.Do(req)
	if err != nil {
		return err
	}
	_ = res.Body.Close()
	return nil
}

func (h *HealthHandler) report(c *gin.Context, healthy bool, checks gin.H) {
	status := http.StatusOK
	overall := "pass"
	if !healthy {
		status = http.StatusServiceUnavailable
		overall = "fail"
	}
	c.JSON(status, gin.H{"status": overall, "checks": checks})
}
