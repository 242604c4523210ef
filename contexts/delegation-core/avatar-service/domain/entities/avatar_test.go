package entities

import (
	"errors"
	"testing"

	domainerrors "aegis/contexts/delegation-core/avatar-service/domain/errors"
)

func TestEnableModuleRejectsReservedHandles(t *testing.T) {
	avatar := NewAvatar("avatar_1", "owner_1")

	if err := avatar.EnableModule(""); !errors.Is(err, domainerrors.ErrInvalidHandle) {
		t.Fatalf("expected invalid handle for null, got %v", err)
	}
	if err := avatar.EnableModule(SentinelHandle); !errors.Is(err, domainerrors.ErrInvalidHandle) {
		t.Fatalf("expected invalid handle for sentinel, got %v", err)
	}
	if avatar.ModuleCount() != 0 {
		t.Fatalf("expected empty registry, got %d modules", avatar.ModuleCount())
	}
}

func TestEnableModuleRejectsDuplicates(t *testing.T) {
	avatar := NewAvatar("avatar_1", "owner_1")

	if err := avatar.EnableModule("mod_a"); err != nil {
		t.Fatalf("first enable failed: %v", err)
	}
	if err := avatar.EnableModule("mod_a"); !errors.Is(err, domainerrors.ErrAlreadyEnabled) {
		t.Fatalf("expected already enabled, got %v", err)
	}
	if avatar.ModuleCount() != 1 {
		t.Fatalf("expected one module after duplicate enable, got %d", avatar.ModuleCount())
	}
}

func TestEnableModuleInsertsAtHead(t *testing.T) {
	avatar := NewAvatar("avatar_1", "owner_1")
	for _, handle := range []Handle{"mod_a", "mod_b", "mod_c"} {
		if err := avatar.EnableModule(handle); err != nil {
			t.Fatalf("enable %s failed: %v", handle, err)
		}
	}

	snapshot := avatar.ModulesSnapshot()
	want := []Handle{"mod_c", "mod_b", "mod_a"}
	if len(snapshot) != len(want) {
		t.Fatalf("expected %d modules, got %d", len(want), len(snapshot))
	}
	for i, handle := range want {
		if snapshot[i] != handle {
			t.Fatalf("position %d: expected %s, got %s", i, handle, snapshot[i])
		}
	}
}

func TestDisableModuleRequiresTruePredecessor(t *testing.T) {
	avatar := NewAvatar("avatar_1", "owner_1")
	for _, handle := range []Handle{"mod_a", "mod_b", "mod_c"} {
		if err := avatar.EnableModule(handle); err != nil {
			t.Fatalf("enable %s failed: %v", handle, err)
		}
	}

	// Order is head-first: mod_c -> mod_b -> mod_a. mod_a does not precede
	// mod_b in that order.
	if err := avatar.DisableModule("mod_a", "mod_b"); !errors.Is(err, domainerrors.ErrBrokenLink) {
		t.Fatalf("expected broken link for stale predecessor, got %v", err)
	}
	if !avatar.IsModuleEnabled("mod_b") {
		t.Fatal("failed disable must not remove the module")
	}

	if err := avatar.DisableModule("mod_c", "mod_b"); err != nil {
		t.Fatalf("disable with true predecessor failed: %v", err)
	}
	if avatar.IsModuleEnabled("mod_b") {
		t.Fatal("mod_b still enabled after disable")
	}
	if avatar.ModuleCount() != 2 {
		t.Fatalf("expected 2 modules, got %d", avatar.ModuleCount())
	}
}

func TestDisableModuleHeadUsesSentinelPredecessor(t *testing.T) {
	avatar := NewAvatar("avatar_1", "owner_1")
	if err := avatar.EnableModule("mod_a"); err != nil {
		t.Fatalf("enable failed: %v", err)
	}

	if err := avatar.DisableModule(SentinelHandle, "mod_a"); err != nil {
		t.Fatalf("disable head failed: %v", err)
	}
	if avatar.ModuleCount() != 0 {
		t.Fatalf("expected empty registry, got %d", avatar.ModuleCount())
	}
}

func TestDisableModuleNotEnabled(t *testing.T) {
	avatar := NewAvatar("avatar_1", "owner_1")
	if err := avatar.DisableModule(SentinelHandle, "mod_a"); !errors.Is(err, domainerrors.ErrNotEnabled) {
		t.Fatalf("expected not enabled, got %v", err)
	}
}

func TestIsModuleEnabledNeverReportsReservedHandles(t *testing.T) {
	avatar := NewAvatar("avatar_1", "owner_1")
	if err := avatar.EnableModule("mod_a"); err != nil {
		t.Fatalf("enable failed: %v", err)
	}

	if avatar.IsModuleEnabled("") {
		t.Fatal("null handle must never report enabled")
	}
	if avatar.IsModuleEnabled(SentinelHandle) {
		t.Fatal("sentinel must never report enabled")
	}
}

func TestModulesPaginatedCoversEveryModuleExactlyOnce(t *testing.T) {
	avatar := NewAvatar("avatar_1", "owner_1")
	handles := []Handle{"mod_a", "mod_b", "mod_c", "mod_d", "mod_e"}
	for _, handle := range handles {
		if err := avatar.EnableModule(handle); err != nil {
			t.Fatalf("enable %s failed: %v", handle, err)
		}
	}

	seen := make(map[Handle]int)
	cursor := SentinelHandle
	for {
		page, next, err := avatar.ModulesPaginated(cursor, 2)
		if err != nil {
			t.Fatalf("pagination failed at cursor %s: %v", cursor, err)
		}
		for _, handle := range page {
			if handle.IsSentinel() {
				t.Fatal("sentinel returned as a page element")
			}
			seen[handle]++
		}
		if next == SentinelHandle {
			break
		}
		cursor = next
	}

	if len(seen) != len(handles) {
		t.Fatalf("expected %d distinct modules across pages, got %d", len(handles), len(seen))
	}
	for handle, count := range seen {
		if count != 1 {
			t.Fatalf("module %s appeared %d times", handle, count)
		}
	}
}

func TestModulesPaginatedExactPageEndsWithSentinelCursor(t *testing.T) {
	avatar := NewAvatar("avatar_1", "owner_1")
	for _, handle := range []Handle{"mod_a", "mod_b"} {
		if err := avatar.EnableModule(handle); err != nil {
			t.Fatalf("enable failed: %v", err)
		}
	}

	page, next, err := avatar.ModulesPaginated(SentinelHandle, 2)
	if err != nil {
		t.Fatalf("pagination failed: %v", err)
	}
	if len(page) != 2 {
		t.Fatalf("expected full page of 2, got %d", len(page))
	}
	if next != SentinelHandle {
		t.Fatalf("expected sentinel cursor on exhausted order, got %s", next)
	}
}

func TestModulesPaginatedValidation(t *testing.T) {
	avatar := NewAvatar("avatar_1", "owner_1")
	if err := avatar.EnableModule("mod_a"); err != nil {
		t.Fatalf("enable failed: %v", err)
	}

	if _, _, err := avatar.ModulesPaginated(SentinelHandle, 0); !errors.Is(err, domainerrors.ErrInvalidHandle) {
		t.Fatalf("expected invalid handle for zero page size, got %v", err)
	}
	if _, _, err := avatar.ModulesPaginated("mod_ghost", 10); !errors.Is(err, domainerrors.ErrInvalidHandle) {
		t.Fatalf("expected invalid handle for unknown start, got %v", err)
	}
}

func TestRestoreModulesRebuildsOrder(t *testing.T) {
	avatar := NewAvatar("avatar_1", "owner_1")
	for _, handle := range []Handle{"mod_a", "mod_b", "mod_c"} {
		if err := avatar.EnableModule(handle); err != nil {
			t.Fatalf("enable failed: %v", err)
		}
	}
	snapshot := avatar.ModulesSnapshot()

	restored := NewAvatar("avatar_1", "owner_1")
	restored.RestoreModules(snapshot)

	got := restored.ModulesSnapshot()
	if len(got) != len(snapshot) {
		t.Fatalf("expected %d modules after restore, got %d", len(snapshot), len(got))
	}
	for i := range snapshot {
		if got[i] != snapshot[i] {
			t.Fatalf("position %d: expected %s, got %s", i, snapshot[i], got[i])
		}
	}
}
