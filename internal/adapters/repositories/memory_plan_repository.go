package repositories

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"maintenance-route-service/internal/domain"
)

// In-memory PlanRepository. Safe for concurrent use.
type MemoryPlanRepository struct {
	mu    sync.RWMutex
	plans map[string]*domain.MaintenancePlan
	order []string
}

func NewMemoryPlanRepository() *MemoryPlanRepository {
	return &MemoryPlanRepository{plans: make(map[string]*domain.MaintenancePlan)}
}

func (m *MemoryPlanRepository) SavePlan(_ context.Context, plan *domain.MaintenancePlan) error {
	if plan == nil || plan.ID == "" {
		return errors.New("save plan: plan id must be non-empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.plans[plan.ID]; !ok {
		m.order = append(m.order, plan.ID)
	}
	cp := *plan
	m.plans[plan.ID] = &cp
	return nil
}

func (m *MemoryPlanRepository) GetPlan(_ context.Context, id string) (*domain.MaintenancePlan, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.plans[id]
	if !ok {
		return nil, fmt.Errorf("get plan %q: %w", id, domain.ErrPlanNotFound)
	}
	cp := *p
	return &cp, nil
}

// Return the most recently saved plans first.
func (m *MemoryPlanRepository) ListPlans(_ context.Context, limit int) ([]*domain.MaintenancePlan, error) {
	if limit <= 0 {
		limit = 20
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := slices.Clone(m.order)
	slices.Reverse(ids)
	if len(ids) > limit {
		ids = ids[:limit]
	}

	out := make([]*domain.MaintenancePlan, 0, len(ids))
	for _, id := range ids {
		cp := *m.plans[id]
		out = append(out, &cp)
	}
	return out, nil
}
