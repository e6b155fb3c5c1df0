package middleware

import (
	"github.com/gin-gonic/gin"
)

// Context keys set by DeviceInfo.
const (
	ContextDeviceInfo = "device_info"
)

// DeviceInfo captures the caller's user agent and IP so the identity
// service can record which device a refresh token was issued to. The
// stored value reads "<user-agent> | IP: <ip>".
func DeviceInfo() gin.HandlerFunc {
	return func(c *gin.Context) {
		ua := c.Request.UserAgent()
		if ua == "" {
			ua = "unknown"
		}
		c.Set(ContextDeviceInfo, ua+" | IP: "+ipFromCtx(c))
		c.Next()
	}
}
