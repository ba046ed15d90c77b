package memcache_fx

import (
	"context"
	"time"

	"go.uber.org/fx"

	"cogniseguros/internal/config"
	mem "cogniseguros/pkg/memcache"
)

var Module = fx.Provide(provideVerificationCodes)

func provideVerificationCodes(lc fx.Lifecycle, cfg *config.Config) mem.VerificationCodeStore {
	codes := mem.NewVerificationCodes(cfg.Auth.CodeTTL)

	ctx, cancel := context.WithCancel(context.Background())
	var done <-chan struct{}
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			done = codes.StartJanitor(ctx, time.Minute)
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			if done == nil {
				return nil
			}
			select {
			case <-done:
				return nil
			case <-stopCtx.Done():
				return stopCtx.Err()
			}
		},
	})
	return codes
}
