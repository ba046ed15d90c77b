package tenancy_fx

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"cogniseguros/internal/config"
	"cogniseguros/internal/infra"
	"cogniseguros/internal/repositories"
	"cogniseguros/internal/schema"
	"cogniseguros/internal/services"
	"cogniseguros/pkg/middleware"
)

var Module = fx.Provide(
	provideRegistry,
	provideDatabaseCreator,
	provideTenantService,
	func(s *services.TenantService) services.TenantServiceInterface { return s },
	func(s *services.TenantService) services.TenantProvisioner { return s },
	func(s *services.TenantService) middleware.TenantDatabases { return s },
	func(r *infra.TenantRegistry) services.PoolCounter { return r },
)

func provideRegistry(lc fx.Lifecycle, cfg *config.Config, logger *zap.Logger) *infra.TenantRegistry {
	registry := infra.NewTenantRegistry(infra.PostgresOpener(cfg.Database), 2*cfg.Database.ConnectTimeout, logger)
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return registry.Close()
		},
	})
	return registry
}

func provideDatabaseCreator(lc fx.Lifecycle, cfg *config.Config) *infra.DatabaseCreator {
	creator := infra.NewDatabaseCreator(infra.PostgresOpener(cfg.Database), cfg.Database.MaintenanceDB)
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return creator.Close()
		},
	})
	return creator
}

func provideTenantService(
	accounts repositories.AccountRepository,
	registry *infra.TenantRegistry,
	creator *infra.DatabaseCreator,
	provisioner *schema.Provisioner,
	cfg *config.Config,
	logger *zap.Logger,
) *services.TenantService {
	return services.NewTenantService(accounts, registry, creator, provisioner, services.TenantServiceConfig{
		Prefix:      cfg.Database.TenantDBPrefix,
		AutoCreate:  cfg.Database.TenantAutoCreate,
		Concurrency: cfg.Migration.Concurrency,
		// room to connect twice and run the schema statements
		ProvisionTimeout: 2*cfg.Database.ConnectTimeout + cfg.Database.StatementTimeout,
	}, logger)
}
