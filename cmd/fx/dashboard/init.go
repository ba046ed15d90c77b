package dashboard

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	"cogniseguros/internal/repositories"
	"cogniseguros/internal/services"
)

var Module = fx.Provide(
	provideDashboardRepo, services.NewDashboardService,
)

func provideDashboardRepo(db *gorm.DB) repositories.DashboardRepository {
	return repositories.NewDashboardRepository(db)
}
