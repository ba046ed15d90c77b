package main

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"cogniseguros/cmd/fx/account_fx"
	"cogniseguros/cmd/fx/config_fx"
	"cogniseguros/cmd/fx/db_fx"
	"cogniseguros/cmd/fx/logger_fx"
	"cogniseguros/cmd/fx/mail_fx"
	"cogniseguros/cmd/fx/memcache_fx"
	"cogniseguros/cmd/fx/tenancy_fx"
	"cogniseguros/internal/schema"
	"cogniseguros/internal/services"
)

type deps struct {
	fx.In

	Logger      *zap.Logger
	DB          *gorm.DB
	Provisioner *schema.Provisioner
	Tenants     services.TenantServiceInterface
	Accounts    services.AccountServiceInterface
}

// withApp starts the same dependency graph as the API server, minus HTTP,
// runs fn and stops everything again.
func withApp(ctx context.Context, fn func(ctx context.Context, d deps) error) (err error) {
	var d deps
	app := fx.New(
		fx.NopLogger,
		config_fx.Module,
		logger_fx.Module("tenantctl"),
		db_fx.Module,
		tenancy_fx.Module,
		memcache_fx.Module,
		mail_fx.Module,
		account_fx.Module,
		fx.Populate(&d),
	)
	if err := app.Err(); err != nil {
		return err
	}

	if err := app.Start(ctx); err != nil {
		return err
	}
	defer func() {
		if stopErr := app.Stop(context.Background()); err == nil {
			err = stopErr
		}
	}()

	return fn(ctx, d)
}
