package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/voltshop/backend/pkg/helpers"
	"github.com/voltshop/backend/pkg/problem"
	"github.com/voltshop/backend/pkg/tokens"
)

// Auth validates the bearer access token and puts the caller's identity
// into the gin context. The Authorization header takes precedence; the
// AccessToken cookie is the fallback for browser clients.
func Auth(issuer *tokens.Issuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			problem.New(http.StatusUnauthorized, "Unauthorized").
				WithDetail("missing access token").
				Write(c)
			return
		}
		claims, err := issuer.ParseAccessToken(token)
		if err != nil {
			problem.New(http.StatusUnauthorized, "Unauthorized").
				WithDetail("invalid access token").
				Write(c)
			return
		}
		c.Set("userID", claims.Subject)
		c.Set("userName", claims.Username)
		c.Set("userEmail", claims.Email)
		c.Set("userRoles", claims.Roles)
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); h != "" {
		if t, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(t)
		}
		return ""
	}
	if t, err := c.Cookie(helpers.AccessTokenCookie); err == nil {
		return t
	}
	return ""
}
