package services

import (
	"context"
	"time"

	dbm "cogniseguros/internal/models/db_models"
	resp "cogniseguros/internal/models/response_models"
	"cogniseguros/internal/repositories"
)

type DashboardService interface {
	BuildDashboard(ctx context.Context) (*resp.DashboardReport, error)
}

// PoolCounter reports how many tenant pools are open.
type PoolCounter interface {
	Len() int
}

type dashboardService struct {
	repo  repositories.DashboardRepository
	pools PoolCounter
	now   func() time.Time
}

func NewDashboardService(repo repositories.DashboardRepository, pools PoolCounter) DashboardService {
	return &dashboardService{repo: repo, pools: pools, now: time.Now}
}

func (s *dashboardService) BuildDashboard(ctx context.Context) (*resp.DashboardReport, error) {
	now := s.now().UTC()
	var kpis resp.KPIBlock

	// ---------- Accounts ----------
	counts := []struct {
		dst *int64
		fn  func() (int64, error)
	}{
		{&kpis.TotalAccounts, func() (int64, error) { return s.repo.CountTotalAccounts(ctx) }},
		{&kpis.Aseguradoras, func() (int64, error) { return s.repo.CountAccountsByRole(ctx, dbm.RoleAseguradora) }},
		{&kpis.Admins, func() (int64, error) { return s.repo.CountAccountsByRole(ctx, dbm.RoleAdmin) }},
		{&kpis.BlockedAccounts, func() (int64, error) { return s.repo.CountBlockedAccounts(ctx) }},
		{&kpis.TrialsExpired, func() (int64, error) { return s.repo.CountExpiredTrials(ctx, now) }},
		{&kpis.NewAccountsLast30d, func() (int64, error) { return s.repo.CountNewAccounts(ctx, now.AddDate(0, 0, -30)) }},

		// ---------- Subscriptions ----------
		{&kpis.ActiveSubscriptions, func() (int64, error) {
			return s.repo.CountSubscriptionsByStatus(ctx, dbm.SubStatusActive)
		}},
		{&kpis.TrialSubscriptions, func() (int64, error) {
			return s.repo.CountSubscriptionsByStatus(ctx, dbm.SubStatusTrial)
		}},
		{&kpis.SuspendedOrCanceled, func() (int64, error) {
			return s.repo.CountSubscriptionsByStatus(ctx, dbm.SubStatusSuspended, dbm.SubStatusCanceled)
		}},
		{&kpis.ExpiredSubscriptions, func() (int64, error) {
			return s.repo.CountSubscriptionsByStatus(ctx, dbm.SubStatusExpired)
		}},
	}
	for _, c := range counts {
		n, err := c.fn()
		if err != nil {
			return nil, err
		}
		*c.dst = n
	}

	// ---------- Plan mix ----------
	rows, err := s.repo.PlanMix(ctx)
	if err != nil {
		return nil, err
	}
	mix := make([]resp.PlanMixItem, 0, len(rows))
	for _, r := range rows {
		mix = append(mix, resp.PlanMixItem{Plan: r.Plan, Count: r.Count})
	}

	return &resp.DashboardReport{
		KPIs:            kpis,
		PlanMix:         mix,
		OpenTenantPools: s.pools.Len(),
	}, nil
}
