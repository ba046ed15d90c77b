package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dbm "cogniseguros/internal/models/db_models"
	"cogniseguros/internal/repositories"
)

type stubDashboardRepo struct {
	byRole   map[dbm.Role]int64
	byStatus map[dbm.SubscriptionStatus]int64
	since    time.Time
	failMix  bool
}

func (s *stubDashboardRepo) CountTotalAccounts(ctx context.Context) (int64, error) { return 12, nil }

func (s *stubDashboardRepo) CountAccountsByRole(ctx context.Context, role dbm.Role) (int64, error) {
	return s.byRole[role], nil
}

func (s *stubDashboardRepo) CountBlockedAccounts(ctx context.Context) (int64, error) { return 1, nil }

func (s *stubDashboardRepo) CountExpiredTrials(ctx context.Context, now time.Time) (int64, error) {
	return 3, nil
}

func (s *stubDashboardRepo) CountNewAccounts(ctx context.Context, since time.Time) (int64, error) {
	s.since = since
	return 4, nil
}

func (s *stubDashboardRepo) CountSubscriptionsByStatus(ctx context.Context, statuses ...dbm.SubscriptionStatus) (int64, error) {
	var n int64
	for _, st := range statuses {
		n += s.byStatus[st]
	}
	return n, nil
}

func (s *stubDashboardRepo) PlanMix(ctx context.Context) ([]repositories.PlanMixRow, error) {
	if s.failMix {
		return nil, errors.New("boom")
	}
	return []repositories.PlanMixRow{{Plan: "FREE", Count: 8}, {Plan: "ENTERPRISE", Count: 2}}, nil
}

type poolCount int

func (p poolCount) Len() int { return int(p) }

func TestDashboardService_BuildDashboard(t *testing.T) {
	repo := &stubDashboardRepo{
		byRole: map[dbm.Role]int64{dbm.RoleAseguradora: 10, dbm.RoleAdmin: 2},
		byStatus: map[dbm.SubscriptionStatus]int64{
			dbm.SubStatusActive:    2,
			dbm.SubStatusTrial:     6,
			dbm.SubStatusSuspended: 1,
			dbm.SubStatusCanceled:  1,
		},
	}
	svc := NewDashboardService(repo, poolCount(5)).(*dashboardService)
	now := time.Date(2025, 5, 31, 0, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	report, err := svc.BuildDashboard(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(12), report.KPIs.TotalAccounts)
	assert.Equal(t, int64(10), report.KPIs.Aseguradoras)
	assert.Equal(t, int64(2), report.KPIs.Admins)
	assert.Equal(t, int64(2), report.KPIs.ActiveSubscriptions)
	assert.Equal(t, int64(6), report.KPIs.TrialSubscriptions)
	assert.Equal(t, int64(2), report.KPIs.SuspendedOrCanceled)
	assert.Zero(t, report.KPIs.ExpiredSubscriptions)
	assert.Equal(t, now.AddDate(0, 0, -30), repo.since)
	assert.Len(t, report.PlanMix, 2)
	assert.Equal(t, 5, report.OpenTenantPools)
}

func TestDashboardService_PropagatesErrors(t *testing.T) {
	svc := NewDashboardService(&stubDashboardRepo{failMix: true}, poolCount(0))
	_, err := svc.BuildDashboard(context.Background())
	assert.Error(t, err)
}
