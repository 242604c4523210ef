package ports

import (
	"context"
	"time"

	"aegis/contexts/delegation-core/avatar-service/domain/entities"
)

// Clock abstracts current time for deterministic tests.
type Clock interface {
	Now() time.Time
}

// IDGenerator abstracts UUID generation for request fingerprints and events.
type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

// CapabilityProbe asks a candidate handle whether it advertises a capability.
// The probe is best effort and side-effect free: an inert handle (nothing
// resolvable behind it) and a probe that faults both report false. A probe
// result is never an error.
type CapabilityProbe interface {
	Probe(ctx context.Context, handle entities.Handle, capabilityID string) bool
}

// GuardCheck carries the full request context handed to a guard's pre-check,
// including the fingerprint the guard uses to correlate the later post-check.
type GuardCheck struct {
	AvatarID    string
	Module      entities.Handle
	Fingerprint string
	Target      entities.Handle
	Value       uint64
	Payload     []byte
	Mode        entities.CallMode
}

// GuardChecker invokes an installed guard's checks by handle. A returned
// error is the guard's veto; the relay maps it to a rejection.
type GuardChecker interface {
	PreCheck(ctx context.Context, guard entities.Handle, check GuardCheck) error
	PostCheck(ctx context.Context, guard entities.Handle, fingerprint string, success bool) error
}

// ActionCall is a single action the relay performs as the avatar's own
// authority.
type ActionCall struct {
	AvatarID string
	Module   entities.Handle
	Target   entities.Handle
	Value    uint64
	Payload  []byte
	Mode     entities.CallMode
}

// ActionOutcome captures the action result. Failure of the action itself is
// reported through Success, never raised.
type ActionOutcome struct {
	Success bool
	Data    []byte
}

// ActionInvoker dispatches an action to its target. Implementations must
// contain the target's faults: an inert or panicking target yields
// Success false, not an escalated error.
type ActionInvoker interface {
	Invoke(ctx context.Context, call ActionCall) ActionOutcome
}

// AvatarRecord is the persisted shape of one avatar: identity, authority,
// head-first module order, and guard binding.
type AvatarRecord struct {
	AvatarID        string
	OwningAuthority entities.Handle
	Modules         []entities.Handle
	Guard           entities.Handle
	UpdatedAt       time.Time
}

// OutboxMessage is a pending notification persisted with the state change
// that produced it.
type OutboxMessage struct {
	OutboxID  string
	EventType string
	Payload   []byte
	CreatedAt time.Time
}

// Repository is the write/read boundary for avatar state. SaveAvatar writes
// the record and its outbox rows atomically.
type Repository interface {
	GetAvatar(ctx context.Context, avatarID string) (AvatarRecord, bool, error)
	SaveAvatar(ctx context.Context, record AvatarRecord, outbox []OutboxMessage) error
}

// OutboxRepository supports the worker relay's poll/acknowledge cycle.
type OutboxRepository interface {
	ListPendingOutbox(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error
}

// EventPublisher emits drained outbox payloads to the bus adapter.
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, payload []byte) error
}
