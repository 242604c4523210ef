package workers

import (
	"context"
	"errors"
	"testing"
	"time"

	"aegis/contexts/delegation-core/avatar-service/adapters/memory"
	"aegis/contexts/delegation-core/avatar-service/ports"
)

type capturingPublisher struct {
	published []string
	failAfter int
}

func (p *capturingPublisher) Publish(_ context.Context, eventType string, _ []byte) error {
	if p.failAfter > 0 && len(p.published) >= p.failAfter {
		return errors.New("bus unavailable")
	}
	p.published = append(p.published, eventType)
	return nil
}

func seedOutbox(t *testing.T, store *memory.Store, count int) {
	t.Helper()
	base := time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC)
	messages := make([]ports.OutboxMessage, 0, count)
	for i := 0; i < count; i++ {
		messages = append(messages, ports.OutboxMessage{
			OutboxID:  string(rune('a' + i)),
			EventType: "avatar.module_enabled",
			Payload:   []byte(`{}`),
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		})
	}
	record := ports.AvatarRecord{AvatarID: "avatar_1", OwningAuthority: "owner_1", UpdatedAt: base}
	if err := store.SaveAvatar(context.Background(), record, messages); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
}

func TestRunOnceDrainsPendingRows(t *testing.T) {
	store := memory.NewStore()
	seedOutbox(t, store, 3)
	publisher := &capturingPublisher{}

	relay := OutboxRelay{Outbox: store, Publisher: publisher, Clock: store, BatchSize: 10}
	if err := relay.RunOnce(context.Background()); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if len(publisher.published) != 3 {
		t.Fatalf("expected 3 published events, got %d", len(publisher.published))
	}
	if store.PendingOutboxCount() != 0 {
		t.Fatalf("expected drained outbox, got %d pending", store.PendingOutboxCount())
	}
}

func TestRunOnceStopsBatchOnPublishFailure(t *testing.T) {
	store := memory.NewStore()
	seedOutbox(t, store, 3)
	publisher := &capturingPublisher{failAfter: 1}

	relay := OutboxRelay{Outbox: store, Publisher: publisher, Clock: store, BatchSize: 10}
	if err := relay.RunOnce(context.Background()); err == nil {
		t.Fatal("expected publish failure to surface")
	}

	// The acknowledged row stays acknowledged; the rest are retried later.
	if store.PendingOutboxCount() != 2 {
		t.Fatalf("expected 2 rows left for retry, got %d", store.PendingOutboxCount())
	}

	publisher.failAfter = 0
	if err := relay.RunOnce(context.Background()); err != nil {
		t.Fatalf("retry run failed: %v", err)
	}
	if store.PendingOutboxCount() != 0 {
		t.Fatalf("expected drained outbox after retry, got %d pending", store.PendingOutboxCount())
	}
}

func TestRunOnceRespectsBatchSize(t *testing.T) {
	store := memory.NewStore()
	seedOutbox(t, store, 5)
	publisher := &capturingPublisher{}

	relay := OutboxRelay{Outbox: store, Publisher: publisher, Clock: store, BatchSize: 2}
	if err := relay.RunOnce(context.Background()); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if len(publisher.published) != 2 {
		t.Fatalf("expected batch of 2, got %d", len(publisher.published))
	}
	if store.PendingOutboxCount() != 3 {
		t.Fatalf("expected 3 rows pending, got %d", store.PendingOutboxCount())
	}
}
