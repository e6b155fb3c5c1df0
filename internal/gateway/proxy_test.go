package gateway

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voltshop/backend/pkg/helpers"
)

// closeNotifyRecorder adds CloseNotify so httputil.ReverseProxy (which on
// Go <1.22 requires http.CloseNotifier) can serve into an httptest recorder.
type closeNotifyRecorder struct {
	*httptest.ResponseRecorder
}

func (c *closeNotifyRecorder) CloseNotify() <-chan bool { return make(chan bool) }

func newRecorder() *closeNotifyRecorder {
	return &closeNotifyRecorder{httptest.NewRecorder()}
}

func testProxy(t *testing.T, upstream *httptest.Server) *gin.Engine {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	p, err := NewProxy(map[string]string{"/api/identity": upstream.URL}, logger)
	require.NoError(t, err)

	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.NoRoute(p.Handler)
	return engine
}

func TestCredentialRelayHeaderWins(t *testing.T) {
	var seen string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.Header.Get("Authorization")
	}))
	defer upstream.Close()
	engine := testProxy(t, upstream)

	req := httptest.NewRequest(http.MethodGet, "/api/identity/sessions/u1", nil)
	req.Header.Set("Authorization", "Bearer header-token")
	req.AddCookie(&http.Cookie{Name: helpers.AccessTokenCookie, Value: "cookie-token"})

	w := newRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Bearer header-token", seen,
		"the inbound Authorization header is relayed verbatim, the cookie is ignored")
}

func TestCredentialRelayCookieFallback(t *testing.T) {
	var seen string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.Header.Get("Authorization")
	}))
	defer upstream.Close()
	engine := testProxy(t, upstream)

	req := httptest.NewRequest(http.MethodGet, "/api/identity/sessions/u1", nil)
	req.AddCookie(&http.Cookie{Name: helpers.AccessTokenCookie, Value: "cookie-token"})

	w := newRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, "Bearer cookie-token", seen,
		"without an Authorization header the AccessToken cookie becomes a bearer header")
}

func TestCredentialRelayNoCredentials(t *testing.T) {
	var seen string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.Header.Get("Authorization")
	}))
	defer upstream.Close()
	engine := testProxy(t, upstream)

	w := newRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/identity/login", nil))

	assert.Empty(t, seen)
}

func TestProxyUnknownPrefix(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer upstream.Close()
	engine := testProxy(t, upstream)

	w := newRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/catalog/items", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProxyUpstreamDown(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	upstream.Close() // deliberately unreachable
	engine := testProxy(t, upstream)

	w := newRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/identity/login", nil))

	assert.Equal(t, http.StatusBadGateway, w.Code)
}
