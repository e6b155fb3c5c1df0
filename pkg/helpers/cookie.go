package helpers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Cookie names shared by the identity service (which sets them) and the
// gateway (which relays AccessToken when the Authorization header is
// absent).
const (
	AccessTokenCookie  = "AccessToken"
	RefreshTokenCookie = "RefreshToken"
)

// CookieManager writes the auth cookie pair: HttpOnly, SameSite=Strict,
// Secure per config, expiries matching the tokens they carry.
type CookieManager struct {
	Domain string
	Secure bool
}

func NewCookieManager(domain string, secure bool) *CookieManager {
	return &CookieManager{Domain: domain, Secure: secure}
}

// SetPair sets both auth cookies with max-ages derived from the token
// expiries.
func (m *CookieManager) SetPair(c *gin.Context, access string, accessExp time.Time, refresh string, refreshExp time.Time) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(AccessTokenCookie, access, maxAgeFrom(accessExp), "/", m.Domain, m.Secure, true)
	c.SetCookie(RefreshTokenCookie, refresh, maxAgeFrom(refreshExp), "/", m.Domain, m.Secure, true)
}

// Clear expires both auth cookies.
func (m *CookieManager) Clear(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(AccessTokenCookie, "", -1, "/", m.Domain, m.Secure, true)
	c.SetCookie(RefreshTokenCookie, "", -1, "/", m.Domain, m.Secure, true)
}

func maxAgeFrom(exp time.Time) int {
	sec := int(time.Until(exp).Seconds())
	if sec < 0 {
		return 0
	}
	return sec
}
