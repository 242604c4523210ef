package memory

import (
	"context"
	"errors"
	"testing"

	"aegis/contexts/delegation-core/avatar-service/domain/entities"
	domainerrors "aegis/contexts/delegation-core/avatar-service/domain/errors"
	"aegis/contexts/delegation-core/avatar-service/ports"
)

type stubCarrier struct {
	capability string
	panics     bool
}

func (c stubCarrier) SupportsCapability(capabilityID string) bool {
	if c.panics {
		panic("carrier fault")
	}
	return capabilityID == c.capability
}

type stubTarget struct {
	succeed bool
	panics  bool
}

func (s stubTarget) HandleAction(context.Context, ports.ActionCall) (bool, []byte) {
	if s.panics {
		panic("target fault")
	}
	return s.succeed, []byte("data")
}

func TestProbeInertHandleReportsFalse(t *testing.T) {
	handles := NewHandlespace()
	if handles.Probe(context.Background(), "ghost", entities.GuardCapabilityID) {
		t.Fatal("inert handle must not advertise capabilities")
	}
}

func TestProbeMatchesAdvertisedCapability(t *testing.T) {
	handles := NewHandlespace()
	handles.Register("carrier_1", stubCarrier{capability: entities.GuardCapabilityID})

	if !handles.Probe(context.Background(), "carrier_1", entities.GuardCapabilityID) {
		t.Fatal("expected capability match")
	}
	if handles.Probe(context.Background(), "carrier_1", "aegis.other/v1") {
		t.Fatal("unexpected capability match")
	}
}

func TestProbeContainsPanics(t *testing.T) {
	handles := NewHandlespace()
	handles.Register("carrier_1", stubCarrier{panics: true})

	if handles.Probe(context.Background(), "carrier_1", entities.GuardCapabilityID) {
		t.Fatal("faulting carrier must report false")
	}
}

func TestInvokeInertAndPanickingTargetsFail(t *testing.T) {
	handles := NewHandlespace()
	handles.Register("faulty", stubTarget{panics: true})
	handles.Register("not_callable", struct{}{})

	for _, target := range []entities.Handle{"ghost", "faulty", "not_callable"} {
		outcome := handles.Invoke(context.Background(), ports.ActionCall{Target: target})
		if outcome.Success {
			t.Fatalf("target %s must yield a failed outcome", target)
		}
	}
}

func TestInvokeDispatchesToCallable(t *testing.T) {
	handles := NewHandlespace()
	handles.Register("target_1", stubTarget{succeed: true})

	outcome := handles.Invoke(context.Background(), ports.ActionCall{Target: "target_1"})
	if !outcome.Success || string(outcome.Data) != "data" {
		t.Fatalf("unexpected outcome %+v", outcome)
	}
}

func TestGuardChecksAgainstUnresolvableHandleVeto(t *testing.T) {
	handles := NewHandlespace()
	handles.Register("not_a_guard", stubTarget{succeed: true})

	err := handles.PreCheck(context.Background(), "ghost", ports.GuardCheck{})
	if !errors.Is(err, domainerrors.ErrIncompatibleGuard) {
		t.Fatalf("expected incompatible guard for inert handle, got %v", err)
	}
	err = handles.PreCheck(context.Background(), "not_a_guard", ports.GuardCheck{})
	if !errors.Is(err, domainerrors.ErrIncompatibleGuard) {
		t.Fatalf("expected incompatible guard for non-guard entity, got %v", err)
	}
	err = handles.PostCheck(context.Background(), "ghost", "fp", true)
	if !errors.Is(err, domainerrors.ErrIncompatibleGuard) {
		t.Fatalf("expected incompatible guard on post-check, got %v", err)
	}
}

func TestDeregisterMakesHandleInert(t *testing.T) {
	handles := NewHandlespace()
	handles.Register("target_1", stubTarget{succeed: true})
	handles.Deregister("target_1")

	outcome := handles.Invoke(context.Background(), ports.ActionCall{Target: "target_1"})
	if outcome.Success {
		t.Fatal("deregistered target must be inert")
	}
}
