package ports

import (
	"context"

	"maintenance-route-service/internal/domain"
)

// Port: persistence for computed maintenance plans.
type PlanRepository interface {
	SavePlan(ctx context.Context, plan *domain.MaintenancePlan) error
	// Return domain.ErrPlanNotFound when no plan has the given id.
	GetPlan(ctx context.Context, id string) (*domain.MaintenancePlan, error)
	// Return the most recent plans first.
	ListPlans(ctx context.Context, limit int) ([]*domain.MaintenancePlan, error)
}
