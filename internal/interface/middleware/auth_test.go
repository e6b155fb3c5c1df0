package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voltshop/backend/internal/domain/entity"
	"github.com/voltshop/backend/pkg/helpers"
	"github.com/voltshop/backend/pkg/tokens"
)

func signedToken(t *testing.T, issuer *tokens.Issuer) (string, string) {
	t.Helper()
	email, err := entity.NewEmail("alice@example.com")
	require.NoError(t, err)
	u, err := entity.NewUser("alice", email, "hash", "")
	require.NoError(t, err)
	signed, _, err := issuer.GenerateAccessToken(u)
	require.NoError(t, err)
	return signed, u.ID()
}

func authEngine(issuer *tokens.Issuer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.GET("/protected", Auth(issuer), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("userID"))
	})
	return engine
}

func TestAuthBearerHeader(t *testing.T) {
	issuer := tokens.NewIssuer("secret", "voltshop", "clients", time.Hour, 7)
	signed, userID := signedToken(t, issuer)
	engine := authEngine(issuer)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, userID, w.Body.String())
}

func TestAuthCookieFallback(t *testing.T) {
	issuer := tokens.NewIssuer("secret", "voltshop", "clients", time.Hour, 7)
	signed, _ := signedToken(t, issuer)
	engine := authEngine(issuer)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: helpers.AccessTokenCookie, Value: signed})
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthRejections(t *testing.T) {
	issuer := tokens.NewIssuer("secret", "voltshop", "clients", time.Hour, 7)
	other := tokens.NewIssuer("other-secret", "voltshop", "clients", time.Hour, 7)
	forged, _ := signedToken(t, other)
	engine := authEngine(issuer)

	cases := map[string]func(*http.Request){
		"no credentials": func(r *http.Request) {},
		"malformed header": func(r *http.Request) {
			r.Header.Set("Authorization", "Basic dXNlcjpwdw==")
		},
		"wrong signature": func(r *http.Request) {
			r.Header.Set("Authorization", "Bearer "+forged)
		},
	}
	for name, prep := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			prep(req)
			w := httptest.NewRecorder()
			engine.ServeHTTP(w, req)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}
