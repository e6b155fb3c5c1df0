package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "8000", cfg.GatewayPort)
	assert.Equal(t, time.Hour, cfg.AccessTTL)
	assert.Equal(t, 7, cfg.RefreshExpiryDays)
	assert.Equal(t, "User", cfg.DefaultRegisterRole)
	assert.Equal(t, 100, cfg.RateLimitMax)
	assert.Equal(t, time.Minute, cfg.RateLimitWindow)
}

func TestValidateRequiresSecretOutsideDevelopment(t *testing.T) {
	cfg := Load()
	cfg.Env = "production"
	cfg.JWTSecretKey = ""
	assert.Error(t, cfg.Validate(), "production must refuse to start without a JWT secret")

	cfg.JWTSecretKey = "an-actual-secret"
	assert.NoError(t, cfg.Validate())
}

func TestValidateFallsBackInDevelopment(t *testing.T) {
	cfg := Load()
	cfg.Env = "development"
	cfg.JWTSecretKey = ""
	require.NoError(t, cfg.Validate())
	assert.NotEmpty(t, cfg.JWTSecretKey)
}

func TestValidateRejectsNonPositiveExpiry(t *testing.T) {
	cfg := Load()
	cfg.RefreshExpiryDays = 0
	assert.Error(t, cfg.Validate())
}

func TestRoutesParsing(t *testing.T) {
	cfg := Load()
	cfg.GatewayRoutes = "/api/identity=http://localhost:8080,/api/catalog=http://localhost:8081"

	routes := cfg.Routes()
	require.Len(t, routes, 2)
	assert.Equal(t, "http://localhost:8080", routes["/api/identity"])
	assert.Equal(t, "http://localhost:8081", routes["/api/catalog"])
}

func TestPostgresDSN(t *testing.T) {
	cfg := Load()
	cfg.DBUser = "svc"
	cfg.DBPassword = "pw"
	cfg.DBHost = "db"
	cfg.DBPort = "5432"
	cfg.DBName = "identity"
	cfg.DBSSLMode = "disable"

	assert.Equal(t, "postgres://svc:pw@db:5432/identity?sslmode=disable", cfg.PostgresDSN())
}
