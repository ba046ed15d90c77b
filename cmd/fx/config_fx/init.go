package config_fx

import (
	"go.uber.org/fx"

	"cogniseguros/internal/config"
)

var Module = fx.Provide(config.Load)
