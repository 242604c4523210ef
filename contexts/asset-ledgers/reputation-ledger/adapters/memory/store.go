package memory

import (
	"context"
	"sync"

	domainerrors "aegis/contexts/asset-ledgers/reputation-ledger/domain/errors"
)

// Store is the in-memory keyed-balance adapter.
type Store struct {
	mu       sync.RWMutex
	balances map[string]uint64
	supply   uint64
}

func NewStore() *Store {
	return &Store{balances: make(map[string]uint64)}
}

func (s *Store) BalanceOf(_ context.Context, holder string) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.balances[holder], nil
}

func (s *Store) TotalSupply(_ context.Context) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.supply, nil
}

func (s *Store) Credit(_ context.Context, holder string, amount uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.balances[holder] += amount
	s.supply += amount
	return nil
}

func (s *Store) Transfer(_ context.Context, from, to string, amount uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.balances[from] < amount {
		return domainerrors.ErrInsufficientBalance
	}
	s.balances[from] -= amount
	s.balances[to] += amount
	return nil
}
