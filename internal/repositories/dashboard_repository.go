package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	dbm "cogniseguros/internal/models/db_models"
	"cogniseguros/pkg/utils"
)

type DashboardRepository interface {
	CountTotalAccounts(ctx context.Context) (int64, error)
	CountAccountsByRole(ctx context.Context, role dbm.Role) (int64, error)
	CountBlockedAccounts(ctx context.Context) (int64, error)
	CountExpiredTrials(ctx context.Context, now time.Time) (int64, error)
	CountNewAccounts(ctx context.Context, since time.Time) (int64, error)
	CountSubscriptionsByStatus(ctx context.Context, statuses ...dbm.SubscriptionStatus) (int64, error)
	PlanMix(ctx context.Context) ([]PlanMixRow, error)
}

type dashboardRepository struct {
	db *gorm.DB
}

func NewDashboardRepository(db *gorm.DB) DashboardRepository {
	return &dashboardRepository{db: db}
}

type PlanMixRow struct {
	Plan  string `gorm:"column:plan"`
	Count int64  `gorm:"column:count"`
}

func (r *dashboardRepository) count(ctx context.Context, model any, query string, args ...any) (int64, error) {
	var n int64
	q := r.db.WithContext(ctx).Model(model)
	if query != "" {
		q = q.Where(query, args...)
	}
	err := q.Count(&n).Error
	return n, utils.WrapDBError("dashboard count", err)
}

func (r *dashboardRepository) CountTotalAccounts(ctx context.Context) (int64, error) {
	return r.count(ctx, &dbm.Account{}, "")
}

func (r *dashboardRepository) CountAccountsByRole(ctx context.Context, role dbm.Role) (int64, error) {
	return r.count(ctx, &dbm.Account{}, "role = ?", role)
}

func (r *dashboardRepository) CountBlockedAccounts(ctx context.Context) (int64, error) {
	return r.count(ctx, &dbm.Account{}, "blocked_at IS NOT NULL")
}

func (r *dashboardRepository) CountExpiredTrials(ctx context.Context, now time.Time) (int64, error) {
	return r.count(ctx, &dbm.Account{}, "role = ? AND trial_expires_at < ?", dbm.RoleAseguradora, now)
}

func (r *dashboardRepository) CountNewAccounts(ctx context.Context, since time.Time) (int64, error) {
	return r.count(ctx, &dbm.Account{}, "created_at >= ?", since)
}

func (r *dashboardRepository) CountSubscriptionsByStatus(ctx context.Context, statuses ...dbm.SubscriptionStatus) (int64, error) {
	return r.count(ctx, &dbm.Subscription{}, "upper(status) IN ?", statuses)
}

// PlanMix counts subscriptions per plan; subscriptions without a plan are
// reported under an empty name.
func (r *dashboardRepository) PlanMix(ctx context.Context) ([]PlanMixRow, error) {
	var rows []PlanMixRow
	err := r.db.WithContext(ctx).
		Table("suscripciones s").
		Select("coalesce(p.nombre, '') AS plan, COUNT(*) AS count").
		Joins("LEFT JOIN planes p ON p.id = s.plan_id").
		Group("coalesce(p.nombre, '')").
		Order("count DESC").
		Find(&rows).Error
	return rows, utils.WrapDBError("plan mix", err)
}
