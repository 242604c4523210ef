package events

import (
	"context"
	"encoding/json"
	"log/slog"

	contractsv1 "aegis/contracts/gen/events/v1"
	"aegis/internal/platform/messaging"
)

// Topic carries every avatar notification on the bus.
const Topic = "avatar-events"

// Publisher forwards drained outbox payloads to the in-process bus.
type Publisher struct {
	bus    *messaging.Bus
	logger *slog.Logger
}

func NewPublisher(bus *messaging.Bus, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{bus: bus, logger: logger}
}

func (p Publisher) Publish(ctx context.Context, eventType string, payload []byte) error {
	var envelope contractsv1.Envelope
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return err
	}
	if err := p.bus.Publish(ctx, Topic, envelope); err != nil {
		return err
	}
	p.logger.Debug("avatar event published",
		"event", "avatar_event_published",
		"module", "delegation-core/avatar-service",
		"layer", "adapter",
		"event_id", envelope.EventID,
		"event_type", eventType,
	)
	return nil
}
