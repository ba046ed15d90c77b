package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cogniseguros/internal/models/db_models"
	"cogniseguros/internal/models/request_models"
	"cogniseguros/internal/models/response_models"
	"cogniseguros/internal/repositories"
	"cogniseguros/pkg/utils"
)

type SubscriptionServiceInterface interface {
	Get(ctx context.Context, accountID int64) (*response_models.SubscriptionResponse, error)
	Upsert(ctx context.Context, accountID int64, request request_models.UpsertSubscriptionRequest) (*response_models.SubscriptionResponse, error)
}

type SubscriptionService struct {
	accounts repositories.AccountRepository
	subs     repositories.SubscriptionRepository
	plans    repositories.IPlanRepository
	now      func() time.Time
}

func NewSubscriptionService(
	accounts repositories.AccountRepository,
	subs repositories.SubscriptionRepository,
	plans repositories.IPlanRepository,
) SubscriptionServiceInterface {
	return &SubscriptionService{accounts: accounts, subs: subs, plans: plans, now: time.Now}
}

func (s *SubscriptionService) Get(ctx context.Context, accountID int64) (*response_models.SubscriptionResponse, error) {
	sub, err := s.subs.FindByAccountID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, utils.ErrSubscriptionNotFound
	}
	return toSubscriptionResponse(sub), nil
}

// Upsert sets the single subscription of an aseguradora.
func (s *SubscriptionService) Upsert(ctx context.Context, accountID int64, request request_models.UpsertSubscriptionRequest) (*response_models.SubscriptionResponse, error) {
	status, ok := db_models.ParseSubscriptionStatus(request.Status)
	if !ok {
		return nil, utils.ErrInvalidStatus
	}

	endsAt, err := parseOptionalTime("fecha_fin", request.EndsAt)
	if err != nil {
		return nil, err
	}
	nextPaymentAt, err := parseOptionalTime("fecha_proximo_pago", request.NextPaymentAt)
	if err != nil {
		return nil, err
	}

	account, err := s.accounts.FindByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account == nil || account.Role != db_models.RoleAseguradora {
		return nil, utils.ErrAccountNotFound
	}

	plan, err := s.plans.FindByName(ctx, request.Plan)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, utils.ErrPlanNotFound
	}

	sub := &db_models.Subscription{
		AccountID:     accountID,
		PlanID:        &plan.ID,
		Plan:          plan,
		Status:        status,
		StartsAt:      s.now().UTC(),
		EndsAt:        endsAt,
		NextPaymentAt: nextPaymentAt,
	}
	if err := s.subs.Upsert(ctx, sub); err != nil {
		return nil, err
	}
	return toSubscriptionResponse(sub), nil
}

func parseOptionalTime(field, v string) (*time.Time, error) {
	if v = strings.TrimSpace(v); v == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be RFC 3339", utils.ErrInvalidStatus, field)
	}
	return &t, nil
}
