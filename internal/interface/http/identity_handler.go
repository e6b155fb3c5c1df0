package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/voltshop/backend/internal/application"
	"github.com/voltshop/backend/internal/interface/middleware"
	"github.com/voltshop/backend/pkg/helpers"
	"github.com/voltshop/backend/pkg/problem"
	"github.com/voltshop/backend/pkg/validation"
)

// IdentityHandler exposes the identity service over HTTP. It owns the
// auth cookies: login and refresh set them, logout clears them.
type IdentityHandler struct {
	Svc     *application.IdentityService
	Logger  *logrus.Logger
	Cookies *helpers.CookieManager
	DevMode bool
}

func NewIdentityHandler(svc *application.IdentityService, logger *logrus.Logger, cookies *helpers.CookieManager, devMode bool) *IdentityHandler {
	return &IdentityHandler{Svc: svc, Logger: logger, Cookies: cookies, DevMode: devMode}
}

type registerRequest struct {
	Username    string `json:"username" binding:"required,username"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,pwd"`
	PhoneNumber string `json:"phoneNumber" binding:"omitempty,phone"`
}

type loginRequest struct {
	UserNameOrEmail string `json:"userNameOrEmail" binding:"required"`
	Password        string `json:"password" binding:"required"`
}

type tokenRequest struct {
	RefreshToken string `json:"refreshToken"`
}

func (h *IdentityHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		problem.New(http.StatusBadRequest, "Bad Request").
			WithErrors(validation.ToDetails(err)).
			Write(c)
		return
	}

	user, err := h.Svc.Register(c.Request.Context(), req.Username, req.Email, req.Password, req.PhoneNumber)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "user": user})
}

func (h *IdentityHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		problem.New(http.StatusBadRequest, "Bad Request").
			WithErrors(validation.ToDetails(err)).
			Write(c)
		return
	}

	pair, err := h.Svc.Login(c.Request.Context(),
		req.UserNameOrEmail, req.Password,
		c.GetString(middleware.ContextDeviceInfo),
		c.GetString(middleware.ContextRealIP))
	if err != nil {
		h.fail(c, err)
		return
	}

	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessExpiresAt, pair.RefreshToken, pair.RefreshExpiresAt)
	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"message":      "login successful",
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	})
}

func (h *IdentityHandler) Refresh(c *gin.Context) {
	token, ok := h.refreshTokenFrom(c)
	if !ok {
		return
	}

	pair, err := h.Svc.Refresh(c.Request.Context(), token)
	if err != nil {
		h.fail(c, err)
		return
	}

	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessExpiresAt, pair.RefreshToken, pair.RefreshExpiresAt)
	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"message":      "token refreshed",
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	})
}

func (h *IdentityHandler) Logout(c *gin.Context) {
	token, ok := h.refreshTokenFrom(c)
	if !ok {
		return
	}

	if err := h.Svc.Logout(c.Request.Context(), token); err != nil {
		h.fail(c, err)
		return
	}

	h.Cookies.Clear(c)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "logged out"})
}

func (h *IdentityHandler) GetSessions(c *gin.Context) {
	sessions, err := h.Svc.GetSessions(c.Request.Context(), c.Param("userId"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "sessions": sessions})
}

func (h *IdentityHandler) RevokeSession(c *gin.Context) {
	var req tokenRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.RefreshToken == "" {
		problem.New(http.StatusBadRequest, "Bad Request").
			WithErrors(map[string]string{"refreshToken": "refreshToken is required"}).
			Write(c)
		return
	}

	if err := h.Svc.RevokeSession(c.Request.Context(), c.Param("userId"), req.RefreshToken); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "session revoked"})
}

// NotImplemented answers for the identity interface members that exist
// on the surface but have no behavior yet (2FA, verification, external
// login, password change).
func (h *IdentityHandler) NotImplemented(c *gin.Context) {
	problem.New(http.StatusNotImplemented, "Not Implemented").
		WithDetail("this operation is not available").
		Write(c)
}

// refreshTokenFrom reads the refresh token from the JSON body, falling
// back to the RefreshToken cookie for browser clients.
func (h *IdentityHandler) refreshTokenFrom(c *gin.Context) (string, bool) {
	var req tokenRequest
	_ = c.ShouldBindJSON(&req)
	if req.RefreshToken != "" {
		return req.RefreshToken, true
	}
	if t, err := c.Cookie(helpers.RefreshTokenCookie); err == nil && t != "" {
		return t, true
	}
	problem.New(http.StatusUnauthorized, "Unauthorized").
		WithDetail("missing refresh token").
		Write(c)
	return "", false
}

func (h *IdentityHandler) fail(c *gin.Context, err error) {
	d := problem.FromError(err, h.DevMode)
	if d.Status >= http.StatusInternalServerError {
		h.Logger.WithFields(logrus.Fields{
			"request_id": c.GetString("request_id"),
			"path":       c.Request.URL.Path,
		}).WithError(err).Error("identity request failed")
	}
	d.Write(c)
}
