package utils

import "errors"

var (
	ErrInvalidPage     = errors.New("invalid page parameter")
	ErrInvalidPageSize = errors.New("invalid page size parameter")
	ErrDatabaseError   = errors.New("database error")

	ErrAccountNotFound    = errors.New("account not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrAccountBlocked     = errors.New("account blocked")
	ErrTrialExpired       = errors.New("trial period expired")
	ErrInvalidRole        = errors.New("invalid role")
	ErrNoTenant           = errors.New("account has no tenant database")

	ErrNoPendingCode = errors.New("no pending verification code")
	ErrCodeExpired   = errors.New("verification code expired")
	ErrCodeMismatch  = errors.New("verification code mismatch")

	ErrPlanNotFound         = errors.New("plan not found")
	ErrSubscriptionNotFound = errors.New("subscription not found")
	ErrInvalidStatus        = errors.New("invalid subscription status")

	ErrClienteNotFound   = errors.New("cliente not found")
	ErrClienteDuplicado  = errors.New("cliente already exists for pais and documento")
	ErrInvalidCountry    = errors.New("invalid country code")
	ErrConfigKeyNotFound = errors.New("configuration key not found")

	ErrInvalidDatabaseName = errors.New("invalid database name")
	ErrTenantUnavailable   = errors.New("tenant database unavailable")
	ErrSchemaConflict      = errors.New("schema conflict")
	ErrTransientConnection = errors.New("database connection failed")
)
