package memory

import (
	"context"
	"sync"
	"time"

	"aegis/contexts/asset-ledgers/rental-ledger/ports"
)

// Store is the in-memory grant adapter, keyed by (owner, user).
type Store struct {
	mu     sync.RWMutex
	grants map[grantKey]ports.Grant
}

type grantKey struct {
	owner string
	user  string
}

func NewStore() *Store {
	return &Store{grants: make(map[grantKey]ports.Grant)}
}

func (s *Store) GetGrant(_ context.Context, owner, user string) (ports.Grant, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	grant, ok := s.grants[grantKey{owner: owner, user: user}]
	return grant, ok, nil
}

func (s *Store) PutGrant(_ context.Context, grant ports.Grant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.grants[grantKey{owner: grant.Owner, user: grant.User}] = grant
	return nil
}

func (s *Store) DeleteGrant(_ context.Context, owner, user string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.grants, grantKey{owner: owner, user: user})
	return nil
}

func (s *Store) ListGrantsByOwner(_ context.Context, owner string) ([]ports.Grant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var grants []ports.Grant
	for key, grant := range s.grants {
		if key.owner == owner {
			grants = append(grants, grant)
		}
	}
	return grants, nil
}

func (s *Store) ListGrantsByUser(_ context.Context, user string) ([]ports.Grant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var grants []ports.Grant
	for key, grant := range s.grants {
		if key.user == user {
			grants = append(grants, grant)
		}
	}
	return grants, nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}
