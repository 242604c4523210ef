package httpadapter

import (
	"context"
	"log/slog"

	"aegis/contexts/asset-ledgers/rental-ledger/application"
	httptransport "aegis/contexts/asset-ledgers/rental-ledger/transport/http"
)

// Handler maps HTTP DTOs onto the rental ledger service.
type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

func (h Handler) SetUserHandler(ctx context.Context, request httptransport.SetUserRequest) error {
	return h.Service.SetUser(ctx, request.Owner, request.User, request.Amount, request.ExpiresAt)
}

func (h Handler) BalanceOfUserHandler(ctx context.Context, user string) (httptransport.UserBalanceResponse, error) {
	balance, err := h.Service.BalanceOfUser(ctx, user)
	if err != nil {
		return httptransport.UserBalanceResponse{}, err
	}
	return httptransport.UserBalanceResponse{User: user, Balance: balance}, nil
}

func (h Handler) FrozenOfOwnerHandler(ctx context.Context, owner string) (httptransport.FrozenResponse, error) {
	frozen, err := h.Service.FrozenOfOwner(ctx, owner)
	if err != nil {
		return httptransport.FrozenResponse{}, err
	}
	return httptransport.FrozenResponse{Owner: owner, Frozen: frozen}, nil
}

func (h Handler) BalanceOfUserFromOwnerHandler(
	ctx context.Context,
	user string,
	owner string,
) (httptransport.PairBalanceResponse, error) {
	balance, err := h.Service.BalanceOfUserFromOwner(ctx, user, owner)
	if err != nil {
		return httptransport.PairBalanceResponse{}, err
	}
	return httptransport.PairBalanceResponse{User: user, Owner: owner, Balance: balance}, nil
}
