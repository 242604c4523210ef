package ports

import (
	"context"
	"time"
)

// Clock abstracts current time so grant expiry is deterministic in tests.
type Clock interface {
	Now() time.Time
}

// Grant is one owner-to-user usage-rights assignment. Expired grants
// evaporate on read; nothing sweeps them eagerly.
type Grant struct {
	Owner     string
	User      string
	Amount    uint64
	ExpiresAt time.Time
}

// Repository stores grants keyed by (owner, user).
type Repository interface {
	GetGrant(ctx context.Context, owner, user string) (Grant, bool, error)
	PutGrant(ctx context.Context, grant Grant) error
	DeleteGrant(ctx context.Context, owner, user string) error
	ListGrantsByOwner(ctx context.Context, owner string) ([]Grant, error)
	ListGrantsByUser(ctx context.Context, user string) ([]Grant, error)
}

// OwnerBalanceSource reports the owner's underlying fungible balance that
// grants freeze against. Wired to the reputation ledger at composition time.
type OwnerBalanceSource interface {
	BalanceOf(ctx context.Context, owner string) (uint64, error)
}
