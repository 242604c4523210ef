package application

import (
	"context"
	"log/slog"
	"strings"
	"time"

	domainerrors "aegis/contexts/asset-ledgers/rental-ledger/domain/errors"
	"aegis/contexts/asset-ledgers/rental-ledger/ports"
)

// Service maintains the dual-balance view of usage rights: units granted to
// a user count against (freeze) the owner's fungible balance until expiry.
type Service struct {
	Repo     ports.Repository
	Balances ports.OwnerBalanceSource
	Clock    ports.Clock
	Logger   *slog.Logger
}

// SetUser grants amount usage units from owner to user until expiresAt.
// Amount zero clears the grant. A new grant must fit inside the owner's
// unfrozen balance.
func (s Service) SetUser(ctx context.Context, owner, user string, amount uint64, expiresAt time.Time) error {
	owner = strings.TrimSpace(owner)
	user = strings.TrimSpace(user)
	if owner == "" {
		return domainerrors.ErrInvalidOwner
	}
	if user == "" {
		return domainerrors.ErrInvalidUser
	}

	if amount == 0 {
		if err := s.Repo.DeleteGrant(ctx, owner, user); err != nil {
			return err
		}
		s.log().Debug("usage grant cleared",
			"event", "rental_grant_cleared",
			"module", "asset-ledgers/rental-ledger",
			"layer", "application",
			"owner", owner,
			"user", user,
		)
		return nil
	}

	now := s.now()
	if !expiresAt.After(now) {
		return domainerrors.ErrInvalidExpiry
	}

	frozen, err := s.frozenExcluding(ctx, owner, user, now)
	if err != nil {
		return err
	}
	balance, err := s.Balances.BalanceOf(ctx, owner)
	if err != nil {
		return err
	}
	if frozen+amount > balance {
		return domainerrors.ErrInsufficientBalance
	}

	if err := s.Repo.PutGrant(ctx, ports.Grant{
		Owner:     owner,
		User:      user,
		Amount:    amount,
		ExpiresAt: expiresAt,
	}); err != nil {
		return err
	}

	s.log().Debug("usage grant set",
		"event", "rental_grant_set",
		"module", "asset-ledgers/rental-ledger",
		"layer", "application",
		"owner", owner,
		"user", user,
		"amount", amount,
	)
	return nil
}

// BalanceOfUser sums active usage units granted to user, across all owners.
func (s Service) BalanceOfUser(ctx context.Context, user string) (uint64, error) {
	user = strings.TrimSpace(user)
	if user == "" {
		return 0, domainerrors.ErrInvalidUser
	}
	grants, err := s.Repo.ListGrantsByUser(ctx, user)
	if err != nil {
		return 0, err
	}
	return sumActive(grants, s.now()), nil
}

// FrozenOfOwner sums the owner's units currently locked behind active grants.
func (s Service) FrozenOfOwner(ctx context.Context, owner string) (uint64, error) {
	owner = strings.TrimSpace(owner)
	if owner == "" {
		return 0, domainerrors.ErrInvalidOwner
	}
	grants, err := s.Repo.ListGrantsByOwner(ctx, owner)
	if err != nil {
		return 0, err
	}
	return sumActive(grants, s.now()), nil
}

// BalanceOfUserFromOwner reports the single active grant between one owner
// and one user, zero if absent or expired.
func (s Service) BalanceOfUserFromOwner(ctx context.Context, user, owner string) (uint64, error) {
	user = strings.TrimSpace(user)
	owner = strings.TrimSpace(owner)
	if user == "" {
		return 0, domainerrors.ErrInvalidUser
	}
	if owner == "" {
		return 0, domainerrors.ErrInvalidOwner
	}
	grant, found, err := s.Repo.GetGrant(ctx, owner, user)
	if err != nil {
		return 0, err
	}
	if !found || !grant.ExpiresAt.After(s.now()) {
		return 0, nil
	}
	return grant.Amount, nil
}

func (s Service) frozenExcluding(ctx context.Context, owner, user string, now time.Time) (uint64, error) {
	grants, err := s.Repo.ListGrantsByOwner(ctx, owner)
	if err != nil {
		return 0, err
	}
	var total uint64
	for _, grant := range grants {
		if grant.User == user {
			continue
		}
		if grant.ExpiresAt.After(now) {
			total += grant.Amount
		}
	}
	return total, nil
}

func sumActive(grants []ports.Grant, now time.Time) uint64 {
	var total uint64
	for _, grant := range grants {
		if grant.ExpiresAt.After(now) {
			total += grant.Amount
		}
	}
	return total
}

func (s Service) now() time.Time {
	if s.Clock != nil {
		return s.Clock.Now().UTC()
	}
	return time.Now().UTC()
}

func (s Service) log() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}
