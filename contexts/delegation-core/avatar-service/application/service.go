package application

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"aegis/contexts/delegation-core/avatar-service/domain/entities"
	domainerrors "aegis/contexts/delegation-core/avatar-service/domain/errors"
	"aegis/contexts/delegation-core/avatar-service/ports"
)

// Service hosts avatars and exposes their administrative, relay, and query
// surfaces. Each avatar's operations are serialized behind its own mutex,
// which is the whole-call atomicity boundary for registry and guard state;
// the relay releases it around outbound guard and action invocations so that
// reentrant administrative calls from inside an in-flight execution cannot
// deadlock or corrupt the registry order.
type Service struct {
	Repository  ports.Repository
	Probe       ports.CapabilityProbe
	Guards      ports.GuardChecker
	Invoker     ports.ActionInvoker
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger

	mu      sync.Mutex
	avatars map[string]*avatarState
}

type avatarState struct {
	mu     sync.Mutex
	avatar *entities.Avatar
}

// CreateAvatar provisions a new avatar with an empty registry and no guard.
// The owning authority is the only identity allowed to administer it.
func (s *Service) CreateAvatar(ctx context.Context, avatarID string, owningAuthority entities.Handle) error {
	logger := ResolveLogger(s.Logger)
	avatarID = strings.TrimSpace(avatarID)
	if avatarID == "" {
		return domainerrors.ErrInvalidAvatarID
	}
	if owningAuthority.IsNull() || owningAuthority.IsSentinel() {
		return domainerrors.ErrInvalidHandle
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.avatars == nil {
		s.avatars = make(map[string]*avatarState)
	}
	if _, ok := s.avatars[avatarID]; ok {
		return domainerrors.ErrAvatarExists
	}
	if _, found, err := s.Repository.GetAvatar(ctx, avatarID); err != nil {
		return err
	} else if found {
		return domainerrors.ErrAvatarExists
	}

	avatar := entities.NewAvatar(avatarID, owningAuthority)
	now := s.now()
	message, err := s.outboxMessage(ctx, EventTypeAvatarCreated, avatarID, AvatarCreatedEvent{
		AvatarID:        avatarID,
		OwningAuthority: owningAuthority,
	}, now)
	if err != nil {
		return err
	}
	if err := s.Repository.SaveAvatar(ctx, recordOf(avatar, now), []ports.OutboxMessage{message}); err != nil {
		logger.Error("avatar create persist failed",
			"event", "avatar_create_persist_failed",
			"module", sourceService,
			"layer", "application",
			"avatar_id", avatarID,
			"error", err.Error(),
		)
		return err
	}

	s.avatars[avatarID] = &avatarState{avatar: avatar}
	logger.Info("avatar created",
		"event", "avatar_created",
		"module", sourceService,
		"layer", "application",
		"avatar_id", avatarID,
		"owning_authority", string(owningAuthority),
	)
	return nil
}

// state resolves the in-memory aggregate for avatarID, loading it from the
// repository on first use.
func (s *Service) state(ctx context.Context, avatarID string) (*avatarState, error) {
	avatarID = strings.TrimSpace(avatarID)
	if avatarID == "" {
		return nil, domainerrors.ErrInvalidAvatarID
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.avatars == nil {
		s.avatars = make(map[string]*avatarState)
	}
	if st, ok := s.avatars[avatarID]; ok {
		return st, nil
	}

	record, found, err := s.Repository.GetAvatar(ctx, avatarID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, domainerrors.ErrAvatarNotFound
	}

	avatar := entities.NewAvatar(record.AvatarID, record.OwningAuthority)
	avatar.RestoreModules(record.Modules)
	avatar.Guard = record.Guard
	st := &avatarState{avatar: avatar}
	s.avatars[avatarID] = st
	return st, nil
}

// persist writes the aggregate and one outbox row atomically. Callers hold
// the avatar mutex and roll the aggregate back if persistence fails.
func (s *Service) persist(ctx context.Context, avatar *entities.Avatar, eventType string, payload any) error {
	now := s.now()
	message, err := s.outboxMessage(ctx, eventType, avatar.AvatarID, payload, now)
	if err != nil {
		return err
	}
	return s.Repository.SaveAvatar(ctx, recordOf(avatar, now), []ports.OutboxMessage{message})
}

func (s *Service) now() time.Time {
	if s.Clock != nil {
		return s.Clock.Now().UTC()
	}
	return time.Now().UTC()
}

func recordOf(avatar *entities.Avatar, now time.Time) ports.AvatarRecord {
	return ports.AvatarRecord{
		AvatarID:        avatar.AvatarID,
		OwningAuthority: avatar.OwningAuthority,
		Modules:         avatar.ModulesSnapshot(),
		Guard:           avatar.Guard,
		UpdatedAt:       now,
	}
}
