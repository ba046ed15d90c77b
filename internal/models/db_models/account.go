package db_models

import (
	"strings"
	"time"
)

type Role string

const (
	RoleAdmin       Role = "admin"
	RoleAseguradora Role = "aseguradora"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleAseguradora
}

// Account is an identity in the master database. Every aseguradora owns one
// tenant database.
type Account struct {
	BaseModel
	Email          string     `gorm:"column:email"`
	PasswordHash   *string    `gorm:"column:password_hash"`
	Name           string     `gorm:"column:nombre"`
	Role           Role       `gorm:"column:role"`
	TenantDB       *string    `gorm:"column:tenant_db"`
	TrialStartedAt *time.Time `gorm:"column:trial_started_at"`
	TrialExpiresAt *time.Time `gorm:"column:trial_expires_at"`
	BlockedAt      *time.Time `gorm:"column:blocked_at"`
	BlockedReason  *string    `gorm:"column:blocked_reason"`
}

func (Account) TableName() string { return "usuarios" }

func (a *Account) IsBlocked() bool {
	return a.BlockedAt != nil
}

func (a *Account) TrialExpired(now time.Time) bool {
	return a.TrialExpiresAt != nil && now.After(*a.TrialExpiresAt)
}

// TenantOverride returns the explicit tenant database name, or "" when the
// account uses the default naming rule.
func (a *Account) TenantOverride() string {
	if a.TenantDB == nil {
		return ""
	}
	return strings.TrimSpace(*a.TenantDB)
}

// TenantRef is the slice of an account needed to find its tenant database.
type TenantRef struct {
	ID       int64   `gorm:"column:id"`
	Email    string  `gorm:"column:email"`
	TenantDB *string `gorm:"column:tenant_db"`
}
