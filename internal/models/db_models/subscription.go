package db_models

import (
	"strings"
	"time"
)

type SubscriptionStatus string

const (
	SubStatusActive    SubscriptionStatus = "ACTIVA"
	SubStatusTrial     SubscriptionStatus = "PRUEBA"
	SubStatusSuspended SubscriptionStatus = "SUSPENDIDA"
	SubStatusCanceled  SubscriptionStatus = "CANCELADA"
	SubStatusExpired   SubscriptionStatus = "VENCIDA"
)

var subscriptionStatuses = []SubscriptionStatus{
	SubStatusActive, SubStatusTrial, SubStatusSuspended, SubStatusCanceled, SubStatusExpired,
}

// ParseSubscriptionStatus accepts any casing of a known status.
func ParseSubscriptionStatus(s string) (SubscriptionStatus, bool) {
	for _, st := range subscriptionStatuses {
		if strings.EqualFold(strings.TrimSpace(s), string(st)) {
			return st, true
		}
	}
	return "", false
}

// Subscription links an aseguradora to a plan. There is at most one per
// account.
type Subscription struct {
	BaseModel
	AccountID     int64              `gorm:"column:aseguradora_id"`
	PlanID        *int64             `gorm:"column:plan_id"`
	Status        SubscriptionStatus `gorm:"column:status"`
	StartsAt      time.Time          `gorm:"column:fecha_inicio"`
	EndsAt        *time.Time         `gorm:"column:fecha_fin"`
	NextPaymentAt *time.Time         `gorm:"column:fecha_proximo_pago"`

	Plan *Plan `gorm:"foreignKey:PlanID"`
}

func (Subscription) TableName() string { return "suscripciones" }

// IsActive reports an ACTIVA subscription that has not ended and has no
// overdue payment at now.
func (s *Subscription) IsActive(now time.Time) bool {
	if !strings.EqualFold(string(s.Status), string(SubStatusActive)) {
		return false
	}
	if s.EndsAt != nil && !now.Before(*s.EndsAt) {
		return false
	}
	return s.NextPaymentAt == nil || !now.After(*s.NextPaymentAt)
}
