package httpadapter

import (
	"context"
	"log/slog"

	"aegis/contexts/asset-ledgers/voting-ledger/application"
	domainerrors "aegis/contexts/asset-ledgers/voting-ledger/domain/errors"
	"aegis/contexts/asset-ledgers/voting-ledger/ports"
	httptransport "aegis/contexts/asset-ledgers/voting-ledger/transport/http"
)

// Handler maps HTTP DTOs onto the voting ledger service.
type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

func (h Handler) CreateProposalHandler(ctx context.Context, request httptransport.CreateProposalRequest) error {
	return h.Service.CreateProposal(ctx, request.ProposalID, request.Admin, request.Options)
}

func (h Handler) VoteHandler(ctx context.Context, request httptransport.VoteRequest) error {
	return h.Service.Vote(ctx, request.Voter, request.ProposalID, request.OptionID)
}

func (h Handler) VoteOfHandler(ctx context.Context, voter, proposalID string) (httptransport.VoteResponse, error) {
	vote, err := h.Service.VoteOf(ctx, voter, proposalID)
	if err != nil {
		return httptransport.VoteResponse{}, err
	}
	return httptransport.VoteResponse{
		ProposalID: vote.ProposalID,
		Voter:      vote.Voter,
		OptionID:   vote.OptionID,
		Weight:     vote.Weight,
		CastAt:     vote.CastAt,
	}, nil
}

func (h Handler) TopOptionsHandler(ctx context.Context, proposalID string, n int) (httptransport.TopOptionsResponse, error) {
	tallies, err := h.Service.TopOptions(ctx, proposalID, n)
	if err != nil {
		return httptransport.TopOptionsResponse{}, err
	}
	options := make([]httptransport.OptionTallyDTO, len(tallies))
	for i, tally := range tallies {
		options[i] = httptransport.OptionTallyDTO{OptionID: tally.OptionID, Weight: tally.Weight}
	}
	return httptransport.TopOptionsResponse{ProposalID: proposalID, Options: options}, nil
}

func (h Handler) SetStatusHandler(ctx context.Context, proposalID string, request httptransport.SetStatusRequest) error {
	status, ok := ports.ParseProposalStatus(request.Status)
	if !ok {
		return domainerrors.ErrInvalidStatus
	}
	return h.Service.SetStatus(ctx, request.Actor, proposalID, status)
}

func (h Handler) GetStatusHandler(ctx context.Context, proposalID string) (httptransport.StatusResponse, error) {
	status, err := h.Service.GetStatus(ctx, proposalID)
	if err != nil {
		return httptransport.StatusResponse{}, err
	}
	return httptransport.StatusResponse{ProposalID: proposalID, Status: string(status)}, nil
}
