package application

import (
	"context"
	"encoding/json"
	"time"

	"aegis/contexts/delegation-core/avatar-service/domain/entities"
	"aegis/contexts/delegation-core/avatar-service/ports"
	contractsv1 "aegis/contracts/gen/events/v1"
)

const sourceService = "delegation-core/avatar-service"

const (
	EventTypeAvatarCreated  = "avatar.created"
	EventTypeModuleEnabled  = "avatar.module_enabled"
	EventTypeModuleDisabled = "avatar.module_disabled"
	EventTypeGuardChanged   = "avatar.guard_changed"
)

// AvatarCreatedEvent is emitted once when an avatar is provisioned.
type AvatarCreatedEvent struct {
	AvatarID        string          `json:"avatar_id"`
	OwningAuthority entities.Handle `json:"owning_authority"`
}

// ModuleEnabledEvent notifies that a handle joined the registry head.
type ModuleEnabledEvent struct {
	AvatarID string          `json:"avatar_id"`
	Module   entities.Handle `json:"module"`
}

// ModuleDisabledEvent notifies that a handle was unlinked from the registry.
type ModuleDisabledEvent struct {
	AvatarID string          `json:"avatar_id"`
	Module   entities.Handle `json:"module"`
}

// GuardChangedEvent notifies that the guard binding changed. An empty guard
// means the binding was cleared.
type GuardChangedEvent struct {
	AvatarID string          `json:"avatar_id"`
	Guard    entities.Handle `json:"guard"`
}

func (s *Service) outboxMessage(
	ctx context.Context,
	eventType string,
	avatarID string,
	payload any,
	now time.Time,
) (ports.OutboxMessage, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return ports.OutboxMessage{}, err
	}

	eventID, err := s.IDGenerator.NewID(ctx)
	if err != nil {
		return ports.OutboxMessage{}, err
	}
	outboxID, err := s.IDGenerator.NewID(ctx)
	if err != nil {
		return ports.OutboxMessage{}, err
	}

	envelope := contractsv1.Envelope{
		EventID:       eventID,
		EventType:     eventType,
		SourceService: sourceService,
		OccurredAt:    now.UTC(),
		EntityType:    "avatar",
		EntityID:      avatarID,
		SchemaVersion: 1,
		Data:          data,
	}
	raw, err := json.Marshal(envelope)
	if err != nil {
		return ports.OutboxMessage{}, err
	}

	return ports.OutboxMessage{
		OutboxID:  outboxID,
		EventType: eventType,
		Payload:   raw,
		CreatedAt: now.UTC(),
	}, nil
}
