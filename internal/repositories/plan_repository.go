package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"cogniseguros/internal/models/db_models"
	"cogniseguros/pkg/utils"
)

type IPlanRepository interface {
	FindByName(ctx context.Context, name string) (*db_models.Plan, error)
	GetAllPlans(ctx context.Context) ([]db_models.Plan, error)
}

type PlanRepository struct {
	db *gorm.DB
}

func NewPlanRepository(db *gorm.DB) IPlanRepository {
	return &PlanRepository{db: db}
}

func (p PlanRepository) FindByName(ctx context.Context, name string) (*db_models.Plan, error) {
	var plan db_models.Plan
	err := p.db.WithContext(ctx).First(&plan, "upper(nombre) = upper(?)", name).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, utils.WrapDBError("find plan", err)
	}

	return &plan, nil
}

func (p PlanRepository) GetAllPlans(ctx context.Context) ([]db_models.Plan, error) {
	var plans []db_models.Plan
	err := p.db.WithContext(ctx).
		Where("activo = ?", true).
		Order("precio_mensual ASC, id ASC").
		Find(&plans).Error

	if err != nil {
		return nil, utils.WrapDBError("list plans", err)
	}

	return plans, nil
}
