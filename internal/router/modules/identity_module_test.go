package modules

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voltshop/backend/internal/container"
	"github.com/voltshop/backend/internal/domain/entity"
	handlers "github.com/voltshop/backend/internal/interface/http"
	"github.com/voltshop/backend/pkg/helpers"
	"github.com/voltshop/backend/pkg/tokens"
)

func identityTestEngine(t *testing.T) (*gin.Engine, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	issuer := tokens.NewIssuer("route-test-secret", "voltshop", "voltshop-clients", time.Hour, 7)
	container.SetIssuer(issuer)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	h := handlers.NewIdentityHandler(nil, logger, helpers.NewCookieManager("", false), true)
	engine := gin.New()
	NewIdentityModule(h).Register(engine.Group("/api"))

	email, err := entity.NewEmail("route@example.com")
	require.NoError(t, err)
	user := entity.RehydrateUser("u-1", "router", email, "hash", "",
		false, false, false, false, nil, 0, time.Now())
	access, _, err := issuer.GenerateAccessToken(user)
	require.NoError(t, err)

	return engine, access
}

func TestUnavailableMembersAnswerNotImplemented(t *testing.T) {
	engine, access := identityTestEngine(t)

	authRoutes := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/identity/profile/u-1"},
		{http.MethodPut, "/api/identity/profile/u-1"},
		{http.MethodPost, "/api/identity/change-password"},
		{http.MethodPost, "/api/identity/role"},
		{http.MethodPost, "/api/identity/role/assign"},
	}
	for _, rt := range authRoutes {
		req := httptest.NewRequest(rt.method, rt.path, nil)
		req.Header.Set("Authorization", "Bearer "+access)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)
		assert.Equalf(t, http.StatusNotImplemented, w.Code, "%s %s", rt.method, rt.path)
	}

	for _, path := range []string{
		"/api/identity/forgot-password",
		"/api/identity/reset-password",
	} {
		req := httptest.NewRequest(http.MethodPost, path, nil)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)
		assert.Equalf(t, http.StatusNotImplemented, w.Code, "POST %s", path)
	}
}

func TestProfileRoutesRequireAccessToken(t *testing.T) {
	engine, _ := identityTestEngine(t)

	req := httptest.NewRequest(http.MethodGet, "/api/identity/profile/u-1", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
