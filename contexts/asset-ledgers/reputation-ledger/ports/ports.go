package ports

import "context"

// Repository is the keyed-balance boundary for fungible reputation.
type Repository interface {
	BalanceOf(ctx context.Context, holder string) (uint64, error)
	TotalSupply(ctx context.Context) (uint64, error)
	Credit(ctx context.Context, holder string, amount uint64) error
	Transfer(ctx context.Context, from, to string, amount uint64) error
}
