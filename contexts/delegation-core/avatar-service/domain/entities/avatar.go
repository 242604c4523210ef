package entities

import (
	domainerrors "aegis/contexts/delegation-core/avatar-service/domain/errors"
)

// Avatar is the protected account. It owns an ordered, duplicate-free set of
// enabled module handles (a sentinel-anchored singly linked order stored as
// next-pointers) and an optional guard binding. Mutation happens only through
// its own administrative operations; callers serialize access per avatar.
type Avatar struct {
	AvatarID        string
	OwningAuthority Handle
	Guard           Handle

	next        map[Handle]Handle
	moduleCount int
}

// NewAvatar builds an avatar with an empty registry and no guard.
func NewAvatar(avatarID string, owningAuthority Handle) *Avatar {
	return &Avatar{
		AvatarID:        avatarID,
		OwningAuthority: owningAuthority,
		next:            map[Handle]Handle{SentinelHandle: SentinelHandle},
	}
}

// EnableModule inserts handle at the head of the registry order.
func (a *Avatar) EnableModule(handle Handle) error {
	if handle.IsNull() || handle.IsSentinel() {
		return domainerrors.ErrInvalidHandle
	}
	if a.next[handle] != "" {
		return domainerrors.ErrAlreadyEnabled
	}
	a.next[handle] = a.next[SentinelHandle]
	a.next[SentinelHandle] = handle
	a.moduleCount++
	return nil
}

// DisableModule unlinks handle in O(1). The caller must supply the true
// predecessor; an incorrect predecessor is an integrity failure, never
// silently corrected.
func (a *Avatar) DisableModule(precedingHandle, handle Handle) error {
	if precedingHandle.IsNull() || handle.IsNull() || handle.IsSentinel() {
		return domainerrors.ErrInvalidHandle
	}
	if a.next[handle] == "" {
		return domainerrors.ErrNotEnabled
	}
	if a.next[precedingHandle] != handle {
		return domainerrors.ErrBrokenLink
	}
	a.next[precedingHandle] = a.next[handle]
	delete(a.next, handle)
	a.moduleCount--
	return nil
}

// IsModuleEnabled reports membership. Total: never fails.
func (a *Avatar) IsModuleEnabled(handle Handle) bool {
	if handle.IsNull() || handle.IsSentinel() {
		return false
	}
	return a.next[handle] != ""
}

// ModuleCount returns the number of enabled modules.
func (a *Avatar) ModuleCount() int {
	return a.moduleCount
}

// ModulesPaginated returns up to pageSize handles beginning at the member
// following start (start = sentinel begins at the true head), in current
// head-first order, plus a cursor. Passing the cursor back resumes where the
// page left off; the cursor is the sentinel once the order is exhausted.
// No snapshot isolation: a mutation between two page fetches may cause a
// handle to be skipped or repeated.
func (a *Avatar) ModulesPaginated(start Handle, pageSize int) ([]Handle, Handle, error) {
	if pageSize <= 0 {
		return nil, "", domainerrors.ErrInvalidHandle
	}
	if !start.IsSentinel() && !a.IsModuleEnabled(start) {
		return nil, "", domainerrors.ErrInvalidHandle
	}

	page := make([]Handle, 0, pageSize)
	current := a.next[start]
	for current != SentinelHandle && len(page) < pageSize {
		page = append(page, current)
		current = a.next[current]
	}

	// The cursor is the last element of a partial page, so that resuming
	// (which starts at the member following the cursor) yields each handle
	// exactly once across pages.
	cursor := SentinelHandle
	if current != SentinelHandle {
		cursor = page[len(page)-1]
	}
	return page, cursor, nil
}

// ModulesSnapshot returns every enabled handle in head-first order.
// Used for persistence and for restoring state after a failed write.
func (a *Avatar) ModulesSnapshot() []Handle {
	modules := make([]Handle, 0, a.moduleCount)
	for current := a.next[SentinelHandle]; current != SentinelHandle; current = a.next[current] {
		modules = append(modules, current)
	}
	return modules
}

// RestoreModules replaces the registry content with the given head-first
// order. Invalid entries are skipped rather than corrupting the list.
func (a *Avatar) RestoreModules(modules []Handle) {
	a.next = map[Handle]Handle{SentinelHandle: SentinelHandle}
	a.moduleCount = 0
	for i := len(modules) - 1; i >= 0; i-- {
		if err := a.EnableModule(modules[i]); err != nil {
			continue
		}
	}
}
