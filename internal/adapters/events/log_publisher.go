package events

import (
	"context"
	"log"

	"maintenance-route-service/internal/domain"
	"maintenance-route-service/internal/platform/obs"
)

// LogPublisher writes plan events to the process log. Used when no
// broker is configured.
type LogPublisher struct{}

func (LogPublisher) Publish(ctx context.Context, evt domain.PlanEvent) error {
	log.Printf("req_id=%s event=%s plan_id=%s stops=%d suggestions=%d distance_km=%.2f",
		obs.RequestID(ctx), evt.Type, evt.PlanID, evt.Stops, evt.Suggestions, evt.DistanceKm)
	recordPublish(evt.Type, nil)
	return nil
}

func (LogPublisher) Close() error { return nil }
