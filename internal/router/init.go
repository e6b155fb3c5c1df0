package router

import (
	"github.com/voltshop/backend/internal/application"
	"github.com/voltshop/backend/internal/container"
	pginfra "github.com/voltshop/backend/internal/infrastructure/postgres"
	handlers "github.com/voltshop/backend/internal/interface/http"
	"github.com/voltshop/backend/internal/router/modules"
	"github.com/voltshop/backend/pkg/helpers"
)

func buildIdentityHandler() *handlers.IdentityHandler {
	pool := container.GetPGPool()
	cfg := container.GetConfig()

	var dispatcher application.EventDispatcher
	if pub := container.GetRabbitPub(); pub != nil {
		dispatcher = application.NewRabbitDispatcher(pub)
	}

	svc := application.NewIdentityService(
		pginfra.NewUserRepository(pool),
		pginfra.NewRoleRepository(pool),
		pginfra.NewRefreshTokenRepository(pool),
		container.GetIssuer(),
		dispatcher,
		container.GetLogger(),
		cfg.DefaultRegisterRole,
	)

	return handlers.NewIdentityHandler(
		svc,
		container.GetLogger(),
		helpers.NewCookieManager(cfg.CookieDomain, cfg.CookieSecure),
		cfg.IsDevelopment(),
	)
}

// InitModules wires up all feature modules and registers them with the
// router registry. Called once during startup.
func InitModules(r *Registry) {
	r.Add(modules.NewIdentityModule(buildIdentityHandler()))
	r.Add(modules.NewDebugModule())
}
