package logger_fx

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"cogniseguros/internal/config"
	"cogniseguros/internal/infra"
)

// Module provides the application logger.
func Module(serviceName string) fx.Option {
	return fx.Provide(func(lc fx.Lifecycle, cfg *config.Config) (*zap.Logger, error) {
		logger, err := infra.NewLogger(cfg.Log.Level, cfg.Log.Format, serviceName)
		if err != nil {
			return nil, err
		}
		lc.Append(fx.Hook{
			OnStop: func(context.Context) error {
				_ = logger.Sync()
				return nil
			},
		})
		return logger, nil
	})
}

// EventLogger routes fx lifecycle events to the application logger.
var EventLogger = fx.WithLogger(func(logger *zap.Logger) fxevent.Logger {
	return &fxevent.ZapLogger{Logger: logger.Named("fx")}
})
