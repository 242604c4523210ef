package application

import (
	"context"

	"aegis/contexts/delegation-core/avatar-service/domain/entities"
)

// IsModuleEnabled reports membership of handle in the avatar's registry.
func (s *Service) IsModuleEnabled(ctx context.Context, avatarID string, handle entities.Handle) (bool, error) {
	st, err := s.state(ctx, avatarID)
	if err != nil {
		return false, err
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.avatar.IsModuleEnabled(handle), nil
}

// GetModulesPaginated returns one page of enabled handles in head-first
// order plus a resume cursor. Successive pages read live state; mutations
// between fetches may skip or repeat a handle.
func (s *Service) GetModulesPaginated(
	ctx context.Context,
	avatarID string,
	start entities.Handle,
	pageSize int,
) ([]entities.Handle, entities.Handle, error) {
	st, err := s.state(ctx, avatarID)
	if err != nil {
		return nil, "", err
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.avatar.ModulesPaginated(start, pageSize)
}

// GetGuard returns the bound guard handle, or the null handle when unbound.
func (s *Service) GetGuard(ctx context.Context, avatarID string) (entities.Handle, error) {
	st, err := s.state(ctx, avatarID)
	if err != nil {
		return "", err
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.avatar.Guard, nil
}

// GetOwningAuthority returns the identity allowed to administer the avatar.
func (s *Service) GetOwningAuthority(ctx context.Context, avatarID string) (entities.Handle, error) {
	st, err := s.state(ctx, avatarID)
	if err != nil {
		return "", err
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.avatar.OwningAuthority, nil
}
