package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"maintenance-route-service/internal/domain"
	"maintenance-route-service/internal/platform/obs"
)

// messageWriter is the subset of *kafka.Writer the publisher needs.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher publishes plan events to a Kafka topic, keyed by plan id
// so every event of one plan lands on the same partition.
type KafkaPublisher struct {
	w     messageWriter
	topic string
}

func NewKafkaPublisher(brokers []string, topic string) (*KafkaPublisher, error) {
	if len(brokers) == 0 {
		return nil, errors.New("kafka publisher: no brokers configured")
	}
	if topic == "" {
		return nil, errors.New("kafka publisher: topic is empty")
	}

	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 50 * time.Millisecond,
		Async:        false,
	}
	return &KafkaPublisher{w: w, topic: topic}, nil
}

func (p *KafkaPublisher) Publish(ctx context.Context, evt domain.PlanEvent) (err error) {
	defer obs.Time(ctx, "events.kafka.Publish")(&err)
	defer func() { recordPublish(evt.Type, err) }()

	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("publish %s plan_id=%s: encode: %w", evt.Type, evt.PlanID, err)
	}

	msg := kafka.Message{
		Key:   []byte(evt.PlanID),
		Value: payload,
		Time:  evt.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(evt.Type)},
		},
	}
	if err := p.w.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish %s plan_id=%s to topic %s: %w", evt.Type, evt.PlanID, p.topic, err)
	}

	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.w.Close()
}

func recordPublish(eventType string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	obs.EventsPublished.WithLabelValues(eventType, status).Inc()
}
