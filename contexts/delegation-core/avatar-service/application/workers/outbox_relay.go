package workers

import (
	"context"
	"log/slog"
	"time"

	application "aegis/contexts/delegation-core/avatar-service/application"
	"aegis/contexts/delegation-core/avatar-service/ports"
)

// OutboxRelay drains pending avatar notifications to the event bus.
type OutboxRelay struct {
	Outbox    ports.OutboxRepository
	Publisher ports.EventPublisher
	Clock     ports.Clock
	BatchSize int
	Logger    *slog.Logger
}

// RunOnce publishes up to BatchSize pending rows and acknowledges each one.
// The first failure stops the batch; unacknowledged rows are retried on the
// next run.
func (r OutboxRelay) RunOnce(ctx context.Context) error {
	logger := application.ResolveLogger(r.Logger)
	limit := r.BatchSize
	if limit <= 0 {
		limit = 100
	}

	pending, err := r.Outbox.ListPendingOutbox(ctx, limit)
	if err != nil {
		logger.Error("avatar outbox list failed",
			"event", "avatar_outbox_list_failed",
			"module", "delegation-core/avatar-service",
			"layer", "worker",
			"error", err.Error(),
		)
		return err
	}

	now := time.Now().UTC()
	if r.Clock != nil {
		now = r.Clock.Now().UTC()
	}

	for _, row := range pending {
		if err := r.Publisher.Publish(ctx, row.EventType, row.Payload); err != nil {
			logger.Error("avatar outbox publish failed",
				"event", "avatar_outbox_publish_failed",
				"module", "delegation-core/avatar-service",
				"layer", "worker",
				"outbox_id", row.OutboxID,
				"event_type", row.EventType,
				"error", err.Error(),
			)
			return err
		}
		if err := r.Outbox.MarkOutboxPublished(ctx, row.OutboxID, now); err != nil {
			return err
		}
	}
	return nil
}
