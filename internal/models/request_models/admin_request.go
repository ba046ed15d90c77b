package request_models

type ChangeRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=admin aseguradora"`
}

type BlockAccountRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

type UpsertSubscriptionRequest struct {
	Plan   string `json:"plan" binding:"required"`
	Status string `json:"status" binding:"required"`
	// RFC 3339; empty means open-ended
	EndsAt string `json:"fecha_fin"`
	// RFC 3339; empty means no payment is scheduled
	NextPaymentAt string `json:"fecha_proximo_pago"`
}

type MigrateRequest struct {
	// Raw SQL applied instead of the declared tenant schema.
	SQL string `json:"sql"`
	// Create missing tenant databases first.
	CreateMissing bool `json:"create_missing"`
}
