package controllers_fx

import (
	"go.uber.org/fx"

	"cogniseguros/internal/api/controllers"
)

var Module = fx.Options(
	fx.Provide(controllers.NewAccountController),
	fx.Provide(controllers.NewAdminController),
	fx.Provide(controllers.NewClienteController),
	fx.Provide(controllers.NewPlanController),
	fx.Provide(controllers.NewDashboardController))
