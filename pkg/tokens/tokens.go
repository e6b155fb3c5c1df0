package tokens

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/voltshop/backend/internal/domain/entity"
)

// Issuer builds signed access tokens and opaque refresh tokens.
type Issuer struct {
	SecretKey         []byte
	Issuer            string
	Audience          string
	AccessTTL         time.Duration
	RefreshExpiryDays int
}

// NewIssuer constructs an Issuer from configuration values.
func NewIssuer(secret, issuer, audience string, accessTTL time.Duration, refreshExpiryDays int) *Issuer {
	return &Issuer{
		SecretKey:         []byte(secret),
		Issuer:            issuer,
		Audience:          audience,
		AccessTTL:         accessTTL,
		RefreshExpiryDays: refreshExpiryDays,
	}
}

// AccessClaims are the claims carried by an access token.
type AccessClaims struct {
	Email    string   `json:"email"`
	Username string   `json:"name"`
	Roles    []string `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

// GenerateAccessToken signs an HS256 token for the user: sub, email, name,
// a unique jti, and one role entry per assigned role.
func (i *Issuer) GenerateAccessToken(u *entity.User) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(i.AccessTTL)
	claims := &AccessClaims{
		Email:    u.Email().String(),
		Username: u.Username(),
		Roles:    u.RoleNames(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID(),
			Issuer:    i.Issuer,
			Audience:  jwt.ClaimStrings{i.Audience},
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := t.SignedString(i.SecretKey)
	return s, exp, err
}

// GenerateRefreshToken returns a new opaque refresh token value.
func (i *Issuer) GenerateRefreshToken() string {
	return uuid.NewString()
}

// RefreshExpiry computes the expiry for a refresh token issued now.
func (i *Issuer) RefreshExpiry() time.Time {
	return time.Now().UTC().AddDate(0, 0, i.RefreshExpiryDays)
}

// ParseAccessToken validates signature, expiry, issuer and audience.
func (i *Issuer) ParseAccessToken(tokenStr string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	tkn, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return i.SecretKey, nil
	}, jwt.WithIssuer(i.Issuer), jwt.WithAudience(i.Audience))
	if err != nil {
		return nil, err
	}
	if !tkn.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
