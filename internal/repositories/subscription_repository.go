package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"cogniseguros/internal/models/db_models"
	"cogniseguros/pkg/utils"
)

type SubscriptionRepository interface {
	WithTx(tx *gorm.DB) SubscriptionRepository
	FindByAccountID(ctx context.Context, accountID int64) (*db_models.Subscription, error)
	// Upsert creates or replaces the single subscription of an account.
	Upsert(ctx context.Context, sub *db_models.Subscription) error
}

type subscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func (r *subscriptionRepository) WithTx(tx *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: tx}
}

func (r *subscriptionRepository) FindByAccountID(ctx context.Context, accountID int64) (*db_models.Subscription, error) {
	var sub db_models.Subscription
	err := r.db.WithContext(ctx).
		Preload("Plan").
		First(&sub, "aseguradora_id = ?", accountID).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, utils.WrapDBError("find subscription", err)
	}
	return &sub, nil
}

func (r *subscriptionRepository) Upsert(ctx context.Context, sub *db_models.Subscription) error {
	err := r.db.WithContext(ctx).
		Omit("Plan").
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "aseguradora_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"plan_id", "status", "fecha_inicio", "fecha_fin", "fecha_proximo_pago", "updated_at"}),
		}).
		Create(sub).Error
	return utils.WrapDBError("upsert subscription", err)
}
