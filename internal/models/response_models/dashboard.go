package response_models

type KPIBlock struct {
	TotalAccounts        int64 `json:"total_accounts"`
	Aseguradoras         int64 `json:"aseguradoras"`
	Admins               int64 `json:"admins"`
	BlockedAccounts      int64 `json:"blocked_accounts"`
	TrialsExpired        int64 `json:"trials_expired"`
	NewAccountsLast30d   int64 `json:"new_accounts_last_30d"`
	ActiveSubscriptions  int64 `json:"active_subscriptions"`
	TrialSubscriptions   int64 `json:"trial_subscriptions"`
	SuspendedOrCanceled  int64 `json:"suspended_or_canceled"`
	ExpiredSubscriptions int64 `json:"expired_subscriptions"`
}

type PlanMixItem struct {
	Plan  string `json:"plan"`
	Count int64  `json:"count"`
}

type DashboardReport struct {
	KPIs    KPIBlock      `json:"kpis"`
	PlanMix []PlanMixItem `json:"plan_mix"`
	// tenant pools currently open in this process
	OpenTenantPools int `json:"open_tenant_pools"`
}
