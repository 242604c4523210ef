package memory

import (
	"context"
	"sync"

	"aegis/contexts/delegation-core/avatar-service/domain/entities"
	domainerrors "aegis/contexts/delegation-core/avatar-service/domain/errors"
	"aegis/contexts/delegation-core/avatar-service/ports"
)

// Callable is an addressable entity able to receive relayed actions.
// HandleAction reports the action's own success and any return data; it must
// not be relied on to never panic, the handlespace contains panics.
type Callable interface {
	HandleAction(ctx context.Context, call ports.ActionCall) (bool, []byte)
}

// CapabilityCarrier is optionally implemented by entities that advertise
// capabilities to the probe.
type CapabilityCarrier interface {
	SupportsCapability(capabilityID string) bool
}

// Guard is implemented by entities installable as avatar guards.
type Guard interface {
	CheckTransaction(ctx context.Context, check ports.GuardCheck) error
	CheckAfterExecution(ctx context.Context, fingerprint string, success bool) error
}

// Handlespace maps handles to live entities and implements the probe,
// guard-checker, and action-invoker ports against them. It stands in for
// whatever execution environment hosts modules, guards, and targets.
type Handlespace struct {
	mu      sync.RWMutex
	members map[entities.Handle]any
}

func NewHandlespace() *Handlespace {
	return &Handlespace{members: make(map[entities.Handle]any)}
}

// Register binds an entity to a handle, replacing any previous binding.
func (h *Handlespace) Register(handle entities.Handle, entity any) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.members[handle] = entity
}

// Deregister makes a handle inert again.
func (h *Handlespace) Deregister(handle entities.Handle) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.members, handle)
}

func (h *Handlespace) resolve(handle entities.Handle) (any, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	entity, ok := h.members[handle]
	return entity, ok
}

// Probe reports whether the entity behind handle advertises capabilityID.
// An inert handle reports false. A carrier that faults reports false; the
// fault never escapes the probe.
func (h *Handlespace) Probe(_ context.Context, handle entities.Handle, capabilityID string) (supported bool) {
	defer func() {
		if recover() != nil {
			supported = false
		}
	}()

	entity, ok := h.resolve(handle)
	if !ok {
		return false
	}
	carrier, ok := entity.(CapabilityCarrier)
	if !ok {
		return false
	}
	return carrier.SupportsCapability(capabilityID)
}

// PreCheck forwards the check to the guard entity. A handle that no longer
// resolves to a guard counts as a veto; the binding was validated at install
// time only.
func (h *Handlespace) PreCheck(ctx context.Context, guard entities.Handle, check ports.GuardCheck) error {
	entity, ok := h.resolve(guard)
	if !ok {
		return domainerrors.ErrIncompatibleGuard
	}
	g, ok := entity.(Guard)
	if !ok {
		return domainerrors.ErrIncompatibleGuard
	}
	return g.CheckTransaction(ctx, check)
}

func (h *Handlespace) PostCheck(ctx context.Context, guard entities.Handle, fingerprint string, success bool) error {
	entity, ok := h.resolve(guard)
	if !ok {
		return domainerrors.ErrIncompatibleGuard
	}
	g, ok := entity.(Guard)
	if !ok {
		return domainerrors.ErrIncompatibleGuard
	}
	return g.CheckAfterExecution(ctx, fingerprint, success)
}

// Invoke dispatches the action to its target. Inert targets, non-callable
// targets, and panicking targets all resolve to a failed action outcome;
// the relay never sees an escalated fault from the action itself.
func (h *Handlespace) Invoke(ctx context.Context, call ports.ActionCall) (outcome ports.ActionOutcome) {
	defer func() {
		if recover() != nil {
			outcome = ports.ActionOutcome{Success: false}
		}
	}()

	entity, ok := h.resolve(call.Target)
	if !ok {
		return ports.ActionOutcome{Success: false}
	}
	callable, ok := entity.(Callable)
	if !ok {
		return ports.ActionOutcome{Success: false}
	}

	success, data := callable.HandleAction(ctx, call)
	return ports.ActionOutcome{Success: success, Data: data}
}
