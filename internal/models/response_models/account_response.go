package response_models

import "time"

type AccountLoginResponse struct {
	Token     string `json:"token"`
	AccountID int64  `json:"account_id"`
	Role      string `json:"role"`
	// false for aseguradoras on trial without an active subscription
	HasActiveSubscription bool `json:"has_active_subscription"`
}

type AccountResponse struct {
	ID             int64                 `json:"id"`
	Name           string                `json:"nombre"`
	Email          string                `json:"email"`
	Role           string                `json:"role"`
	TenantDB       string                `json:"tenant_db,omitempty"`
	TrialExpiresAt *time.Time            `json:"trial_expires_at,omitempty"`
	BlockedAt      *time.Time            `json:"blocked_at,omitempty"`
	BlockedReason  string                `json:"blocked_reason,omitempty"`
	Subscription   *SubscriptionResponse `json:"subscription,omitempty"`
	CreatedAt      time.Time             `json:"created_at"`
}

type SubscriptionResponse struct {
	AccountID     int64      `json:"aseguradora_id"`
	Plan          string     `json:"plan"`
	Status        string     `json:"status"`
	StartsAt      time.Time  `json:"fecha_inicio"`
	EndsAt        *time.Time `json:"fecha_fin,omitempty"`
	NextPaymentAt *time.Time `json:"fecha_proximo_pago,omitempty"`
}

type PlanResponse struct {
	ID           int64          `json:"id"`
	Name         string         `json:"nombre"`
	Description  string         `json:"descripcion"`
	MonthlyPrice float64        `json:"precio_mensual"`
	MaxClientes  int            `json:"max_clientes"`
	Features     map[string]any `json:"features,omitempty"`
}
