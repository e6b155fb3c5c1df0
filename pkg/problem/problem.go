// Package problem writes RFC 7807-flavored error bodies and maps domain
// errors onto HTTP status codes.
package problem

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/voltshop/backend/internal/domain"
)

// Details is the error body shape shared by the gateway and the identity
// service: {type, title, status, detail?, errors?}.
type Details struct {
	Type   string            `json:"type"`
	Title  string            `json:"title"`
	Status int               `json:"status"`
	Detail string            `json:"detail,omitempty"`
	Errors map[string]string `json:"errors,omitempty"`
}

const typeBase = "https://voltshop.example.com/problems/"

// New builds a Details for a status code and title.
func New(status int, title string) Details {
	return Details{
		Type:   typeBase + slugFor(status),
		Title:  title,
		Status: status,
	}
}

// WithDetail attaches a developer-facing detail string. Callers must only
// do this outside production.
func (d Details) WithDetail(detail string) Details {
	d.Detail = detail
	return d
}

// WithErrors attaches a field -> message map for validation failures.
func (d Details) WithErrors(errs map[string]string) Details {
	d.Errors = errs
	return d
}

// Write sends the body with its status and aborts the gin chain.
func (d Details) Write(c *gin.Context) {
	c.AbortWithStatusJSON(d.Status, d)
}

// FromError translates a domain error to a Details per the taxonomy:
// validation/conflict -> 400, authentication/token errors -> 401,
// not-found -> 404, not-implemented -> 501, everything else -> 500.
func FromError(err error, includeDetail bool) Details {
	switch {
	case domain.IsValidation(err):
		return New(http.StatusBadRequest, "Validation failed").WithDetail(err.Error())
	case errors.Is(err, domain.ErrConflict):
		return New(http.StatusBadRequest, "Resource already exists")
	case errors.Is(err, domain.ErrAuthentication):
		return New(http.StatusUnauthorized, "Invalid username or password")
	case errors.Is(err, domain.ErrInvalidToken):
		return New(http.StatusUnauthorized, "Invalid refresh token")
	case errors.Is(err, domain.ErrRevokedToken):
		return New(http.StatusUnauthorized, "Refresh token has been revoked")
	case errors.Is(err, domain.ErrExpiredToken):
		return New(http.StatusUnauthorized, "Refresh token has expired")
	case errors.Is(err, domain.ErrNotFound):
		return New(http.StatusNotFound, "Not found")
	case errors.Is(err, domain.ErrNotImplemented):
		return New(http.StatusNotImplemented, "Not implemented")
	}
	d := New(http.StatusInternalServerError, "An unexpected error occurred")
	if includeDetail {
		d = d.WithDetail(err.Error())
	}
	return d
}

func slugFor(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "bad-request"
	case http.StatusUnauthorized:
		return "unauthorized"
	case http.StatusNotFound:
		return "not-found"
	case http.StatusTooManyRequests:
		return "rate-limited"
	case http.StatusNotImplemented:
		return "not-implemented"
	case http.StatusServiceUnavailable:
		return "unavailable"
	default:
		return "internal"
	}
}
