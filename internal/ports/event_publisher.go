package ports

import (
	"context"

	"maintenance-route-service/internal/domain"
)

// Contract for announcing planning outcomes to downstream consumers.
type EventPublisher interface {
	Publish(ctx context.Context, evt domain.PlanEvent) error
}
