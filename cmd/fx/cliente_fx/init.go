package cliente_fx

import (
	"go.uber.org/fx"

	"cogniseguros/internal/services"
)

var Module = fx.Provide(services.NewClienteService)
