package application

import (
	"context"

	"aegis/contexts/delegation-core/avatar-service/domain/entities"
	domainerrors "aegis/contexts/delegation-core/avatar-service/domain/errors"
)

// EnableModule authorizes handle as a delegate of the avatar. Only the
// avatar's owning authority may call it. The acting identity is passed
// explicitly; there is no ambient caller.
func (s *Service) EnableModule(ctx context.Context, avatarID string, actor, handle entities.Handle) error {
	logger := ResolveLogger(s.Logger)
	st, err := s.state(ctx, avatarID)
	if err != nil {
		return err
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	if actor != st.avatar.OwningAuthority {
		return domainerrors.ErrUnauthorized
	}

	snapshot := st.avatar.ModulesSnapshot()
	if err := st.avatar.EnableModule(handle); err != nil {
		return err
	}
	if err := s.persist(ctx, st.avatar, EventTypeModuleEnabled, ModuleEnabledEvent{
		AvatarID: avatarID,
		Module:   handle,
	}); err != nil {
		st.avatar.RestoreModules(snapshot)
		logger.Error("enable module persist failed",
			"event", "avatar_enable_module_persist_failed",
			"module", sourceService,
			"layer", "application",
			"avatar_id", avatarID,
			"handle", string(handle),
			"error", err.Error(),
		)
		return err
	}

	logger.Info("module enabled",
		"event", "avatar_module_enabled",
		"module", sourceService,
		"layer", "application",
		"avatar_id", avatarID,
		"handle", string(handle),
		"module_count", st.avatar.ModuleCount(),
	)
	return nil
}

// DisableModule revokes handle. The caller supplies the true predecessor in
// the current registry order, proving it acted on fresh state.
func (s *Service) DisableModule(ctx context.Context, avatarID string, actor, precedingHandle, handle entities.Handle) error {
	logger := ResolveLogger(s.Logger)
	st, err := s.state(ctx, avatarID)
	if err != nil {
		return err
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	if actor != st.avatar.OwningAuthority {
		return domainerrors.ErrUnauthorized
	}

	snapshot := st.avatar.ModulesSnapshot()
	if err := st.avatar.DisableModule(precedingHandle, handle); err != nil {
		return err
	}
	if err := s.persist(ctx, st.avatar, EventTypeModuleDisabled, ModuleDisabledEvent{
		AvatarID: avatarID,
		Module:   handle,
	}); err != nil {
		st.avatar.RestoreModules(snapshot)
		logger.Error("disable module persist failed",
			"event", "avatar_disable_module_persist_failed",
			"module", sourceService,
			"layer", "application",
			"avatar_id", avatarID,
			"handle", string(handle),
			"error", err.Error(),
		)
		return err
	}

	logger.Info("module disabled",
		"event", "avatar_module_disabled",
		"module", sourceService,
		"layer", "application",
		"avatar_id", avatarID,
		"handle", string(handle),
		"module_count", st.avatar.ModuleCount(),
	)
	return nil
}

// SetGuard installs, replaces, or clears the policy check. A non-null
// candidate must advertise the guard capability at install time; the probe
// is not repeated on later relay calls (trust-on-install). A null handle
// clears the binding.
func (s *Service) SetGuard(ctx context.Context, avatarID string, actor, handle entities.Handle) error {
	logger := ResolveLogger(s.Logger)
	st, err := s.state(ctx, avatarID)
	if err != nil {
		return err
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	if actor != st.avatar.OwningAuthority {
		return domainerrors.ErrUnauthorized
	}

	if !handle.IsNull() {
		if !s.Probe.Probe(ctx, handle, entities.GuardCapabilityID) {
			logger.Warn("guard candidate rejected",
				"event", "avatar_guard_incompatible",
				"module", sourceService,
				"layer", "application",
				"avatar_id", avatarID,
				"handle", string(handle),
			)
			return domainerrors.ErrIncompatibleGuard
		}
	}

	previous := st.avatar.Guard
	if handle.IsNull() {
		st.avatar.Guard = ""
	} else {
		st.avatar.Guard = handle
	}
	if err := s.persist(ctx, st.avatar, EventTypeGuardChanged, GuardChangedEvent{
		AvatarID: avatarID,
		Guard:    st.avatar.Guard,
	}); err != nil {
		st.avatar.Guard = previous
		logger.Error("set guard persist failed",
			"event", "avatar_set_guard_persist_failed",
			"module", sourceService,
			"layer", "application",
			"avatar_id", avatarID,
			"handle", string(handle),
			"error", err.Error(),
		)
		return err
	}

	logger.Info("guard changed",
		"event", "avatar_guard_changed",
		"module", sourceService,
		"layer", "application",
		"avatar_id", avatarID,
		"guard", string(st.avatar.Guard),
	)
	return nil
}
