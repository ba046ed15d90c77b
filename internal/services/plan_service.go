package services

import (
	"context"
	"encoding/json"

	"cogniseguros/internal/models/db_models"
	"cogniseguros/internal/models/response_models"
	"cogniseguros/internal/repositories"
)

type PlanServiceInterface interface {
	GetPlans(ctx context.Context) ([]response_models.PlanResponse, error)
}

func NewPlanService(planRepo repositories.IPlanRepository) PlanServiceInterface {
	return &PlanService{
		planRepo: planRepo,
	}
}

type PlanService struct {
	planRepo repositories.IPlanRepository
}

func (p *PlanService) GetPlans(ctx context.Context) ([]response_models.PlanResponse, error) {
	plans, err := p.planRepo.GetAllPlans(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]response_models.PlanResponse, 0, len(plans))
	for _, plan := range plans {
		result = append(result, toPlanResponse(plan))
	}
	return result, nil
}

func toPlanResponse(plan db_models.Plan) response_models.PlanResponse {
	var features map[string]any
	if len(plan.Features) > 0 {
		// malformed feature blobs are served without features
		_ = json.Unmarshal(plan.Features, &features)
	}
	return response_models.PlanResponse{
		ID:           plan.ID,
		Name:         plan.Name,
		Description:  plan.Description,
		MonthlyPrice: plan.MonthlyPrice,
		MaxClientes:  plan.MaxClientes,
		Features:     features,
	}
}
