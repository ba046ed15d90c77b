package db_fx

import (
	"context"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"cogniseguros/internal/config"
	"cogniseguros/internal/infra"
	"cogniseguros/internal/schema"
)

const defaultConnectTimeout = 5 * time.Second

var Module = fx.Provide(
	provideDB, provideProvisioner)

// EnsureMasterSchema brings the master database schema up to date on start.
var EnsureMasterSchema = fx.Invoke(registerMasterSchema)

func provideDB(lc fx.Lifecycle, cfg *config.Config, logger *zap.Logger) (*gorm.DB, error) {
	ctx, cancel := connectContext(cfg.Database.ConnectTimeout)
	defer cancel()

	db, err := infra.InitPostgresql(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			infra.ClosePostgresql(db, logger)
			return nil
		},
	})
	return db, nil
}

// connectContext bounds the master connect. A zero timeout, which DSN also
// treats as unbounded, falls back to defaultConnectTimeout.
func connectContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		timeout = defaultConnectTimeout
	}
	return context.WithTimeout(context.Background(), 2*timeout)
}

func provideProvisioner(logger *zap.Logger) *schema.Provisioner {
	return schema.NewProvisioner(logger)
}

func registerMasterSchema(lc fx.Lifecycle, db *gorm.DB, provisioner *schema.Provisioner, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := provisioner.Ensure(ctx, db, schema.MasterSchema()); err != nil {
				logger.Error("Master schema provisioning failed", zap.Error(err))
				return err
			}
			return nil
		},
	})
}
