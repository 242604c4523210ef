package application

import (
	"context"
	"errors"
	"testing"

	"aegis/contexts/delegation-core/avatar-service/adapters/memory"
	"aegis/contexts/delegation-core/avatar-service/domain/entities"
	domainerrors "aegis/contexts/delegation-core/avatar-service/domain/errors"
	"aegis/contexts/delegation-core/avatar-service/ports"
)

const (
	testAvatar = "avatar_1"
	testOwner  = entities.Handle("owner_1")
)

func newTestService(t *testing.T) (*Service, *memory.Store, *memory.Handlespace) {
	t.Helper()
	store := memory.NewStore()
	handles := memory.NewHandlespace()
	service := &Service{
		Repository:  store,
		Probe:       handles,
		Guards:      handles,
		Invoker:     handles,
		Clock:       store,
		IDGenerator: store,
	}
	if err := service.CreateAvatar(context.Background(), testAvatar, testOwner); err != nil {
		t.Fatalf("create avatar failed: %v", err)
	}
	return service, store, handles
}

// recorderTarget is a relay target that records every call it receives.
type recorderTarget struct {
	succeed bool
	data    []byte
	calls   []ports.ActionCall
}

func (r *recorderTarget) HandleAction(_ context.Context, call ports.ActionCall) (bool, []byte) {
	r.calls = append(r.calls, call)
	return r.succeed, r.data
}

// countingGuard approves or vetoes and counts how often each check ran.
type countingGuard struct {
	preCalls  int
	postCalls int
	vetoPre   bool
	vetoPost  bool
	lastCheck ports.GuardCheck
}

func (g *countingGuard) SupportsCapability(capabilityID string) bool {
	return capabilityID == entities.GuardCapabilityID
}

func (g *countingGuard) CheckTransaction(_ context.Context, check ports.GuardCheck) error {
	g.preCalls++
	g.lastCheck = check
	if g.vetoPre {
		return errors.New("transaction refused")
	}
	return nil
}

func (g *countingGuard) CheckAfterExecution(_ context.Context, fingerprint string, _ bool) error {
	g.postCalls++
	if fingerprint != g.lastCheck.Fingerprint {
		return errors.New("fingerprint mismatch")
	}
	if g.vetoPost {
		return errors.New("outcome refused")
	}
	return nil
}

// failingRepository wraps the store and fails every save once armed.
type failingRepository struct {
	inner    ports.Repository
	failSave bool
}

func (f *failingRepository) GetAvatar(ctx context.Context, avatarID string) (ports.AvatarRecord, bool, error) {
	return f.inner.GetAvatar(ctx, avatarID)
}

func (f *failingRepository) SaveAvatar(ctx context.Context, record ports.AvatarRecord, outbox []ports.OutboxMessage) error {
	if f.failSave {
		return errors.New("storage unavailable")
	}
	return f.inner.SaveAvatar(ctx, record, outbox)
}

func TestCreateAvatarValidation(t *testing.T) {
	service, _, _ := newTestService(t)
	ctx := context.Background()

	if err := service.CreateAvatar(ctx, "", "owner_2"); !errors.Is(err, domainerrors.ErrInvalidAvatarID) {
		t.Fatalf("expected invalid avatar id, got %v", err)
	}
	if err := service.CreateAvatar(ctx, "avatar_2", ""); !errors.Is(err, domainerrors.ErrInvalidHandle) {
		t.Fatalf("expected invalid handle for null authority, got %v", err)
	}
	if err := service.CreateAvatar(ctx, "avatar_2", entities.SentinelHandle); !errors.Is(err, domainerrors.ErrInvalidHandle) {
		t.Fatalf("expected invalid handle for sentinel authority, got %v", err)
	}
	if err := service.CreateAvatar(ctx, testAvatar, "owner_2"); !errors.Is(err, domainerrors.ErrAvatarExists) {
		t.Fatalf("expected avatar exists, got %v", err)
	}
}

func TestAdministrationRequiresOwningAuthority(t *testing.T) {
	service, _, _ := newTestService(t)
	ctx := context.Background()

	if err := service.EnableModule(ctx, testAvatar, "intruder", "mod_a"); !errors.Is(err, domainerrors.ErrUnauthorized) {
		t.Fatalf("expected unauthorized enable, got %v", err)
	}
	enabled, err := service.IsModuleEnabled(ctx, testAvatar, "mod_a")
	if err != nil {
		t.Fatalf("membership query failed: %v", err)
	}
	if enabled {
		t.Fatal("unauthorized enable must not mutate the registry")
	}

	if err := service.EnableModule(ctx, testAvatar, testOwner, "mod_a"); err != nil {
		t.Fatalf("authorized enable failed: %v", err)
	}
	if err := service.DisableModule(ctx, testAvatar, "intruder", entities.SentinelHandle, "mod_a"); !errors.Is(err, domainerrors.ErrUnauthorized) {
		t.Fatalf("expected unauthorized disable, got %v", err)
	}
	if err := service.SetGuard(ctx, testAvatar, "intruder", "guard_1"); !errors.Is(err, domainerrors.ErrUnauthorized) {
		t.Fatalf("expected unauthorized set guard, got %v", err)
	}
}

func TestEnableThenQueryThenPaginate(t *testing.T) {
	service, _, _ := newTestService(t)
	ctx := context.Background()

	if err := service.EnableModule(ctx, testAvatar, testOwner, "mod_1"); err != nil {
		t.Fatalf("enable failed: %v", err)
	}
	enabled, err := service.IsModuleEnabled(ctx, testAvatar, "mod_1")
	if err != nil || !enabled {
		t.Fatalf("expected mod_1 enabled, got %v %v", enabled, err)
	}

	page, cursor, err := service.GetModulesPaginated(ctx, testAvatar, entities.SentinelHandle, 10)
	if err != nil {
		t.Fatalf("pagination failed: %v", err)
	}
	if len(page) != 1 || page[0] != "mod_1" {
		t.Fatalf("expected single page [mod_1], got %v", page)
	}
	if cursor != entities.SentinelHandle {
		t.Fatalf("expected sentinel cursor, got %s", cursor)
	}
}

func TestDisableWithTruePredecessor(t *testing.T) {
	service, _, _ := newTestService(t)
	ctx := context.Background()

	if err := service.EnableModule(ctx, testAvatar, testOwner, "mod_1"); err != nil {
		t.Fatalf("enable mod_1 failed: %v", err)
	}
	if err := service.EnableModule(ctx, testAvatar, testOwner, "mod_2"); err != nil {
		t.Fatalf("enable mod_2 failed: %v", err)
	}

	// Head-first order is [mod_2, mod_1], so mod_2 precedes mod_1.
	if err := service.DisableModule(ctx, testAvatar, testOwner, "mod_2", "mod_1"); err != nil {
		t.Fatalf("disable failed: %v", err)
	}

	enabled1, _ := service.IsModuleEnabled(ctx, testAvatar, "mod_1")
	enabled2, _ := service.IsModuleEnabled(ctx, testAvatar, "mod_2")
	if enabled1 || !enabled2 {
		t.Fatalf("expected mod_1 disabled and mod_2 enabled, got %v %v", enabled1, enabled2)
	}
}

func TestDisableWithNeverEnabledPredecessorIsBrokenLink(t *testing.T) {
	service, _, _ := newTestService(t)
	ctx := context.Background()

	if err := service.EnableModule(ctx, testAvatar, testOwner, "mod_1"); err != nil {
		t.Fatalf("enable failed: %v", err)
	}
	err := service.DisableModule(ctx, testAvatar, testOwner, "mod_2", "mod_1")
	if !errors.Is(err, domainerrors.ErrBrokenLink) {
		t.Fatalf("expected broken link, got %v", err)
	}
}

func TestExecuteRequiresEnabledCaller(t *testing.T) {
	service, _, handles := newTestService(t)
	ctx := context.Background()

	target := &recorderTarget{succeed: true}
	handles.Register("target_1", target)

	_, err := service.Execute(ctx, testAvatar, "mod_1", entities.ExecutionRequest{
		Target: "target_1",
		Mode:   entities.DirectCall,
	})
	if !errors.Is(err, domainerrors.ErrUnauthorized) {
		t.Fatalf("expected unauthorized relay, got %v", err)
	}
	if len(target.calls) != 0 {
		t.Fatal("target must not be invoked for an unauthorized caller")
	}
}

func TestExecuteValidatesRequest(t *testing.T) {
	service, _, _ := newTestService(t)
	ctx := context.Background()

	if err := service.EnableModule(ctx, testAvatar, testOwner, "mod_1"); err != nil {
		t.Fatalf("enable failed: %v", err)
	}

	_, err := service.Execute(ctx, testAvatar, "mod_1", entities.ExecutionRequest{Mode: entities.DirectCall})
	if !errors.Is(err, domainerrors.ErrInvalidHandle) {
		t.Fatalf("expected invalid handle for null target, got %v", err)
	}
	_, err = service.Execute(ctx, testAvatar, "mod_1", entities.ExecutionRequest{Target: "target_1", Mode: "staticcall"})
	if !errors.Is(err, domainerrors.ErrInvalidCallMode) {
		t.Fatalf("expected invalid call mode, got %v", err)
	}
}

func TestExecuteReportsActionFailureAsOutcome(t *testing.T) {
	service, _, _ := newTestService(t)
	ctx := context.Background()

	if err := service.EnableModule(ctx, testAvatar, testOwner, "mod_1"); err != nil {
		t.Fatalf("enable failed: %v", err)
	}

	// Nothing registered behind the target handle: the action fails, the
	// relay does not.
	success, err := service.Execute(ctx, testAvatar, "mod_1", entities.ExecutionRequest{
		Target: "target_inert",
		Mode:   entities.DirectCall,
	})
	if err != nil {
		t.Fatalf("relay of a failing action must not error: %v", err)
	}
	if success {
		t.Fatal("expected failed outcome for inert target")
	}
}

func TestExecuteReturningDataSurfacesTargetData(t *testing.T) {
	service, _, handles := newTestService(t)
	ctx := context.Background()

	if err := service.EnableModule(ctx, testAvatar, testOwner, "mod_1"); err != nil {
		t.Fatalf("enable failed: %v", err)
	}
	handles.Register("target_1", &recorderTarget{succeed: true, data: []byte(`{"ok":true}`)})

	success, data, err := service.ExecuteReturningData(ctx, testAvatar, "mod_1", entities.ExecutionRequest{
		Target: "target_1",
		Mode:   entities.DirectCall,
	})
	if err != nil {
		t.Fatalf("relay failed: %v", err)
	}
	if !success {
		t.Fatal("expected successful outcome")
	}
	if string(data) != `{"ok":true}` {
		t.Fatalf("unexpected return data %q", data)
	}
}

func TestSetGuardRequiresAdvertisedCapability(t *testing.T) {
	service, _, handles := newTestService(t)
	ctx := context.Background()

	// A callable that is not a guard must be refused.
	handles.Register("plain_target", &recorderTarget{succeed: true})
	err := service.SetGuard(ctx, testAvatar, testOwner, "plain_target")
	if !errors.Is(err, domainerrors.ErrIncompatibleGuard) {
		t.Fatalf("expected incompatible guard, got %v", err)
	}
	guard, _ := service.GetGuard(ctx, testAvatar)
	if guard != "" {
		t.Fatalf("failed install must leave binding untouched, got %s", guard)
	}

	handles.Register("guard_1", &countingGuard{})
	if err := service.SetGuard(ctx, testAvatar, testOwner, "guard_1"); err != nil {
		t.Fatalf("guard install failed: %v", err)
	}
	guard, _ = service.GetGuard(ctx, testAvatar)
	if guard != "guard_1" {
		t.Fatalf("expected guard_1 bound, got %s", guard)
	}

	// Null clears without probing anything.
	if err := service.SetGuard(ctx, testAvatar, testOwner, ""); err != nil {
		t.Fatalf("guard clear failed: %v", err)
	}
	guard, _ = service.GetGuard(ctx, testAvatar)
	if guard != "" {
		t.Fatalf("expected cleared binding, got %s", guard)
	}
}

func TestGuardPreCheckVetoBlocksAction(t *testing.T) {
	service, _, handles := newTestService(t)
	ctx := context.Background()

	guard := &countingGuard{vetoPre: true}
	target := &recorderTarget{succeed: true}
	handles.Register("guard_1", guard)
	handles.Register("target_1", target)

	if err := service.EnableModule(ctx, testAvatar, testOwner, "mod_1"); err != nil {
		t.Fatalf("enable failed: %v", err)
	}
	if err := service.SetGuard(ctx, testAvatar, testOwner, "guard_1"); err != nil {
		t.Fatalf("guard install failed: %v", err)
	}

	_, err := service.Execute(ctx, testAvatar, "mod_1", entities.ExecutionRequest{
		Target: "target_1",
		Mode:   entities.DirectCall,
	})
	if !errors.Is(err, domainerrors.ErrGuardRejected) {
		t.Fatalf("expected guard rejected, got %v", err)
	}
	if len(target.calls) != 0 {
		t.Fatal("vetoed action must not reach the target")
	}
	if guard.preCalls != 1 || guard.postCalls != 0 {
		t.Fatalf("expected 1 pre / 0 post checks, got %d / %d", guard.preCalls, guard.postCalls)
	}
}

func TestGuardPostCheckVetoRejectsAfterExecution(t *testing.T) {
	service, _, handles := newTestService(t)
	ctx := context.Background()

	guard := &countingGuard{vetoPost: true}
	target := &recorderTarget{succeed: true}
	handles.Register("guard_1", guard)
	handles.Register("target_1", target)

	if err := service.EnableModule(ctx, testAvatar, testOwner, "mod_1"); err != nil {
		t.Fatalf("enable failed: %v", err)
	}
	if err := service.SetGuard(ctx, testAvatar, testOwner, "guard_1"); err != nil {
		t.Fatalf("guard install failed: %v", err)
	}

	_, err := service.Execute(ctx, testAvatar, "mod_1", entities.ExecutionRequest{
		Target: "target_1",
		Mode:   entities.DirectCall,
	})
	if !errors.Is(err, domainerrors.ErrGuardRejected) {
		t.Fatalf("expected guard rejected, got %v", err)
	}
	if len(target.calls) != 1 {
		t.Fatalf("expected the action to run before the post-check veto, got %d calls", len(target.calls))
	}
	if guard.preCalls != 1 || guard.postCalls != 1 {
		t.Fatalf("expected 1 pre / 1 post checks, got %d / %d", guard.preCalls, guard.postCalls)
	}
}

func TestPassThroughGuardBracketsFailingAction(t *testing.T) {
	service, _, handles := newTestService(t)
	ctx := context.Background()

	guard := &countingGuard{}
	target := &recorderTarget{succeed: false}
	handles.Register("guard_1", guard)
	handles.Register("target_1", target)

	if err := service.EnableModule(ctx, testAvatar, testOwner, "mod_1"); err != nil {
		t.Fatalf("enable failed: %v", err)
	}
	if err := service.SetGuard(ctx, testAvatar, testOwner, "guard_1"); err != nil {
		t.Fatalf("guard install failed: %v", err)
	}

	success, err := service.Execute(ctx, testAvatar, "mod_1", entities.ExecutionRequest{
		Target: "target_1",
		Mode:   entities.DirectCall,
	})
	if err != nil {
		t.Fatalf("relay of a failing action must not error: %v", err)
	}
	if success {
		t.Fatal("expected failed outcome")
	}
	if guard.preCalls != 1 || guard.postCalls != 1 {
		t.Fatalf("expected exactly one pre and one post check, got %d / %d", guard.preCalls, guard.postCalls)
	}
}

// disablingGuard revokes the calling module from inside its own pre-check.
type disablingGuard struct {
	service *Service
	err     error
}

func (g *disablingGuard) SupportsCapability(capabilityID string) bool {
	return capabilityID == entities.GuardCapabilityID
}

func (g *disablingGuard) CheckTransaction(ctx context.Context, check ports.GuardCheck) error {
	g.err = g.service.DisableModule(ctx, check.AvatarID, testOwner, entities.SentinelHandle, check.Module)
	return nil
}

func (g *disablingGuard) CheckAfterExecution(context.Context, string, bool) error {
	return nil
}

func TestReentrantDisableLetsInFlightCallComplete(t *testing.T) {
	service, _, handles := newTestService(t)
	ctx := context.Background()

	guard := &disablingGuard{service: service}
	target := &recorderTarget{succeed: true}
	handles.Register("guard_1", guard)
	handles.Register("target_1", target)

	if err := service.EnableModule(ctx, testAvatar, testOwner, "mod_1"); err != nil {
		t.Fatalf("enable failed: %v", err)
	}
	if err := service.SetGuard(ctx, testAvatar, testOwner, "guard_1"); err != nil {
		t.Fatalf("guard install failed: %v", err)
	}

	request := entities.ExecutionRequest{Target: "target_1", Mode: entities.DirectCall}
	success, err := service.Execute(ctx, testAvatar, "mod_1", request)
	if err != nil {
		t.Fatalf("in-flight call must complete despite reentrant disable: %v", err)
	}
	if !success {
		t.Fatal("expected in-flight call to succeed")
	}
	if guard.err != nil {
		t.Fatalf("reentrant disable failed: %v", guard.err)
	}

	// The revocation takes effect for the next call.
	if _, err := service.Execute(ctx, testAvatar, "mod_1", request); !errors.Is(err, domainerrors.ErrUnauthorized) {
		t.Fatalf("expected unauthorized follow-up call, got %v", err)
	}
}

func TestFailedPersistRollsBackRegistry(t *testing.T) {
	service, store, _ := newTestService(t)
	ctx := context.Background()

	if err := service.EnableModule(ctx, testAvatar, testOwner, "mod_1"); err != nil {
		t.Fatalf("enable failed: %v", err)
	}

	repo := &failingRepository{inner: store, failSave: true}
	service.Repository = repo

	if err := service.EnableModule(ctx, testAvatar, testOwner, "mod_2"); err == nil {
		t.Fatal("expected persist failure")
	}
	enabled, _ := service.IsModuleEnabled(ctx, testAvatar, "mod_2")
	if enabled {
		t.Fatal("failed enable must roll the registry back")
	}

	if err := service.DisableModule(ctx, testAvatar, testOwner, entities.SentinelHandle, "mod_1"); err == nil {
		t.Fatal("expected persist failure")
	}
	enabled, _ = service.IsModuleEnabled(ctx, testAvatar, "mod_1")
	if !enabled {
		t.Fatal("failed disable must keep the module enabled")
	}

	repo.failSave = false
	if err := service.EnableModule(ctx, testAvatar, testOwner, "mod_2"); err != nil {
		t.Fatalf("enable after recovery failed: %v", err)
	}
}

func TestStateChangesQueueOutboxRows(t *testing.T) {
	service, store, handles := newTestService(t)
	ctx := context.Background()

	handles.Register("guard_1", &countingGuard{})
	if err := service.EnableModule(ctx, testAvatar, testOwner, "mod_1"); err != nil {
		t.Fatalf("enable failed: %v", err)
	}
	if err := service.SetGuard(ctx, testAvatar, testOwner, "guard_1"); err != nil {
		t.Fatalf("set guard failed: %v", err)
	}
	if err := service.DisableModule(ctx, testAvatar, testOwner, entities.SentinelHandle, "mod_1"); err != nil {
		t.Fatalf("disable failed: %v", err)
	}

	// Create + enable + guard + disable.
	if count := store.PendingOutboxCount(); count != 4 {
		t.Fatalf("expected 4 pending outbox rows, got %d", count)
	}
}

func TestUnknownAvatar(t *testing.T) {
	service, _, _ := newTestService(t)
	ctx := context.Background()

	if _, err := service.GetGuard(ctx, "avatar_ghost"); !errors.Is(err, domainerrors.ErrAvatarNotFound) {
		t.Fatalf("expected avatar not found, got %v", err)
	}
	if err := service.EnableModule(ctx, "avatar_ghost", testOwner, "mod_1"); !errors.Is(err, domainerrors.ErrAvatarNotFound) {
		t.Fatalf("expected avatar not found, got %v", err)
	}
}
