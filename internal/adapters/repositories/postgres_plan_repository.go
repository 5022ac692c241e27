package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"maintenance-route-service/internal/domain"
	"maintenance-route-service/internal/platform/obs"
)

// Postgres-backed implementation of the PlanRepository port.
// Plans are stored as a JSONB body with a few columns lifted out for listing.
type PostgresPlanRepository struct{ DB *sql.DB }

func NewPostgresPlanRepository(db *sql.DB) *PostgresPlanRepository {
	return &PostgresPlanRepository{DB: db}
}

func (p *PostgresPlanRepository) SavePlan(ctx context.Context, plan *domain.MaintenancePlan) (err error) {
	defer obs.Time(ctx, "plans.postgres.SavePlan")(&err)

	if p.DB == nil {
		return errors.New("postgres plan repository: DB is nil")
	}
	if plan == nil || plan.ID == "" {
		return errors.New("save plan: plan id must be non-empty")
	}

	body, err := json.Marshal(toPlanRecord(plan))
	if err != nil {
		return fmt.Errorf("save plan: encode plan_id=%s: %w", plan.ID, err)
	}

	_, err = p.DB.ExecContext(ctx, `
	INSERT INTO maintenance_plans (plan_id, created_at, stops, total_distance_km, body)
	VALUES ($1, $2, $3, $4, $5::jsonb)
	ON CONFLICT (plan_id) DO UPDATE
	SET created_at = EXCLUDED.created_at,
		stops = EXCLUDED.stops,
		total_distance_km = EXCLUDED.total_distance_km,
		body = EXCLUDED.body;
	`, plan.ID, plan.CreatedAt, len(plan.Route), plan.TotalDistanceKm, string(body))
	if err != nil {
		return fmt.Errorf("save plan: insert plan_id=%s: %w", plan.ID, err)
	}

	return nil
}

func (p *PostgresPlanRepository) GetPlan(ctx context.Context, id string) (_ *domain.MaintenancePlan, err error) {
	defer obs.Time(ctx, "plans.postgres.GetPlan")(&err)

	if p.DB == nil {
		return nil, errors.New("postgres plan repository: DB is nil")
	}

	var body []byte
	err = p.DB.QueryRowContext(ctx, `SELECT body FROM maintenance_plans WHERE plan_id = $1;`, id).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get plan %q: %w", id, domain.ErrPlanNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get plan %q: query: %w", id, err)
	}

	return decodePlan(body)
}

func (p *PostgresPlanRepository) ListPlans(ctx context.Context, limit int) (_ []*domain.MaintenancePlan, err error) {
	defer obs.Time(ctx, "plans.postgres.ListPlans")(&err)

	if p.DB == nil {
		return nil, errors.New("postgres plan repository: DB is nil")
	}
	if limit <= 0 {
		limit = 20
	}

	rows, err := p.DB.QueryContext(ctx, `
	SELECT body
	FROM maintenance_plans
	ORDER BY created_at DESC, plan_id
	LIMIT $1;
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list plans: query maintenance_plans table: %w", err)
	}
	defer rows.Close()

	plans := make([]*domain.MaintenancePlan, 0, limit)
	for rows.Next() {
		var body []byte
		if err := rows.Scan(&body); err != nil {
			return nil, fmt.Errorf("list plans: scan row: %w", err)
		}
		plan, err := decodePlan(body)
		if err != nil {
			return nil, fmt.Errorf("list plans: %w", err)
		}
		plans = append(plans, plan)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list plans: row iteration: %w", err)
	}

	return plans, nil
}

func decodePlan(body []byte) (*domain.MaintenancePlan, error) {
	var rec planRecord
	if err := json.Unmarshal(body, &rec); err != nil {
		return nil, fmt.Errorf("decode plan: %w", err)
	}
	return rec.toDomain(), nil
}
