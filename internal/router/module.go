package router

import "github.com/gin-gonic/gin"

// Module is a routable feature area of the service. Implementations
// attach their endpoints, along with any per-route middleware such as
// rate limits, to the group they are handed.
type Module interface {
	Register(rg *gin.RouterGroup)
}
