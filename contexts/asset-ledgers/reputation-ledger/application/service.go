package application

import (
	"context"
	"log/slog"
	"strings"

	domainerrors "aegis/contexts/asset-ledgers/reputation-ledger/domain/errors"
	"aegis/contexts/asset-ledgers/reputation-ledger/ports"
)

// Service exposes the fungible-reputation accessor set. Balances are plain
// keyed amounts; all policy about who may move them lives with the callers.
type Service struct {
	Repo   ports.Repository
	Logger *slog.Logger
}

func (s Service) BalanceOf(ctx context.Context, holder string) (uint64, error) {
	holder = strings.TrimSpace(holder)
	if holder == "" {
		return 0, domainerrors.ErrInvalidHolder
	}
	return s.Repo.BalanceOf(ctx, holder)
}

func (s Service) TotalSupply(ctx context.Context) (uint64, error) {
	return s.Repo.TotalSupply(ctx)
}

// Credit mints amount to holder. Exposed for operators and test setup.
func (s Service) Credit(ctx context.Context, holder string, amount uint64) error {
	holder = strings.TrimSpace(holder)
	if holder == "" {
		return domainerrors.ErrInvalidHolder
	}
	if amount == 0 {
		return domainerrors.ErrInvalidAmount
	}
	return s.Repo.Credit(ctx, holder, amount)
}

func (s Service) Transfer(ctx context.Context, from, to string, amount uint64) error {
	from = strings.TrimSpace(from)
	to = strings.TrimSpace(to)
	if from == "" || to == "" {
		return domainerrors.ErrInvalidHolder
	}
	if amount == 0 {
		return domainerrors.ErrInvalidAmount
	}
	if err := s.Repo.Transfer(ctx, from, to, amount); err != nil {
		return err
	}

	resolveLogger(s.Logger).Debug("reputation transferred",
		"event", "reputation_transferred",
		"module", "asset-ledgers/reputation-ledger",
		"layer", "application",
		"from", from,
		"to", to,
		"amount", amount,
	)
	return nil
}

func resolveLogger(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}
