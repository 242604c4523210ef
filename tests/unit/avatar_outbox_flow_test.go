package unit

import (
	"context"
	"testing"
	"time"

	avatarservice "aegis/contexts/delegation-core/avatar-service"
	avatarevents "aegis/contexts/delegation-core/avatar-service/adapters/events"
	workerapp "aegis/contexts/delegation-core/avatar-service/application/workers"
	"aegis/contexts/delegation-core/avatar-service/domain/entities"
	contractsv1 "aegis/contracts/gen/events/v1"
	"aegis/internal/platform/messaging"
)

func TestAdministrativeChangesFlowThroughOutboxToBus(t *testing.T) {
	module := avatarservice.NewInMemoryModule(nil)
	ctx := context.Background()

	if err := module.Service.CreateAvatar(ctx, "avatar_1", "owner_1"); err != nil {
		t.Fatalf("create avatar failed: %v", err)
	}
	if err := module.Service.EnableModule(ctx, "avatar_1", "owner_1", "mod_1"); err != nil {
		t.Fatalf("enable failed: %v", err)
	}
	if err := module.Service.DisableModule(ctx, "avatar_1", "owner_1", entities.SentinelHandle, "mod_1"); err != nil {
		t.Fatalf("disable failed: %v", err)
	}
	if module.Store.PendingOutboxCount() != 3 {
		t.Fatalf("expected 3 pending rows, got %d", module.Store.PendingOutboxCount())
	}

	bus := messaging.NewBus(nil)
	received := make(chan contractsv1.Envelope, 8)
	subCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	err := bus.Subscribe(subCtx, avatarevents.Topic, "test-cg", func(_ context.Context, event contractsv1.Envelope) error {
		received <- event
		return nil
	})
	if err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}

	relay := workerapp.OutboxRelay{
		Outbox:    module.Store,
		Publisher: avatarevents.NewPublisher(bus, nil),
		Clock:     module.Store,
		BatchSize: 10,
	}
	if err := relay.RunOnce(ctx); err != nil {
		t.Fatalf("relay run failed: %v", err)
	}
	if module.Store.PendingOutboxCount() != 0 {
		t.Fatalf("expected drained outbox, got %d pending", module.Store.PendingOutboxCount())
	}

	want := map[string]bool{
		"avatar.created":         false,
		"avatar.module_enabled":  false,
		"avatar.module_disabled": false,
	}
	for i := 0; i < len(want); i++ {
		select {
		case event := <-received:
			seen, expected := want[event.EventType]
			if !expected {
				t.Fatalf("unexpected event type %s", event.EventType)
			}
			if seen {
				t.Fatalf("event type %s delivered twice", event.EventType)
			}
			want[event.EventType] = true
			if event.EntityID != "avatar_1" {
				t.Fatalf("expected entity avatar_1, got %s", event.EntityID)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for bus delivery, got %v", want)
		}
	}
}
