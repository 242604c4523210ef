package httpadapter

import (
	"context"
	"log/slog"

	"aegis/contexts/asset-ledgers/reputation-ledger/application"
	httptransport "aegis/contexts/asset-ledgers/reputation-ledger/transport/http"
)

// Handler maps HTTP DTOs onto the reputation ledger service.
type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

func (h Handler) BalanceOfHandler(ctx context.Context, holder string) (httptransport.BalanceResponse, error) {
	balance, err := h.Service.BalanceOf(ctx, holder)
	if err != nil {
		return httptransport.BalanceResponse{}, err
	}
	return httptransport.BalanceResponse{Holder: holder, Balance: balance}, nil
}

func (h Handler) TotalSupplyHandler(ctx context.Context) (httptransport.TotalSupplyResponse, error) {
	supply, err := h.Service.TotalSupply(ctx)
	if err != nil {
		return httptransport.TotalSupplyResponse{}, err
	}
	return httptransport.TotalSupplyResponse{TotalSupply: supply}, nil
}

func (h Handler) TransferHandler(ctx context.Context, request httptransport.TransferRequest) error {
	return h.Service.Transfer(ctx, request.From, request.To, request.Amount)
}

func (h Handler) CreditHandler(ctx context.Context, request httptransport.CreditRequest) error {
	return h.Service.Credit(ctx, request.Holder, request.Amount)
}
