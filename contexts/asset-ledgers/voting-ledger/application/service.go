package application

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"

	domainerrors "aegis/contexts/asset-ledgers/voting-ledger/domain/errors"
	"aegis/contexts/asset-ledgers/voting-ledger/ports"
)

// Service implements the voting accessor set: reputation-weighted votes on
// proposals whose lifecycle the proposal admin controls.
type Service struct {
	Repo    ports.Repository
	Weights ports.WeightSource
	Clock   ports.Clock
	Logger  *slog.Logger
}

// CreateProposal registers a proposal in pending status. The admin is the
// only identity allowed to move its status afterwards.
func (s Service) CreateProposal(ctx context.Context, proposalID, admin string, options []string) error {
	proposalID = strings.TrimSpace(proposalID)
	admin = strings.TrimSpace(admin)
	if proposalID == "" {
		return domainerrors.ErrInvalidProposalID
	}
	if admin == "" {
		return domainerrors.ErrInvalidVoter
	}
	if len(options) == 0 {
		return domainerrors.ErrInvalidOption
	}
	seen := make(map[string]struct{}, len(options))
	cleaned := make([]string, 0, len(options))
	for _, option := range options {
		option = strings.TrimSpace(option)
		if option == "" {
			return domainerrors.ErrInvalidOption
		}
		if _, dup := seen[option]; dup {
			return domainerrors.ErrInvalidOption
		}
		seen[option] = struct{}{}
		cleaned = append(cleaned, option)
	}

	if _, found, err := s.Repo.GetProposal(ctx, proposalID); err != nil {
		return err
	} else if found {
		return domainerrors.ErrProposalExists
	}

	return s.Repo.PutProposal(ctx, ports.Proposal{
		ProposalID: proposalID,
		Admin:      admin,
		Options:    cleaned,
		Status:     ports.StatusPending,
		CreatedAt:  s.now(),
	})
}

// Vote casts or replaces the voter's choice, weighted by the voter's
// current reputation balance.
func (s Service) Vote(ctx context.Context, voter, proposalID, optionID string) error {
	voter = strings.TrimSpace(voter)
	proposalID = strings.TrimSpace(proposalID)
	optionID = strings.TrimSpace(optionID)
	if voter == "" {
		return domainerrors.ErrInvalidVoter
	}
	if proposalID == "" {
		return domainerrors.ErrInvalidProposalID
	}

	proposal, found, err := s.Repo.GetProposal(ctx, proposalID)
	if err != nil {
		return err
	}
	if !found {
		return domainerrors.ErrProposalNotFound
	}
	if proposal.Status != ports.StatusActive {
		return domainerrors.ErrProposalNotActive
	}
	if !containsOption(proposal.Options, optionID) {
		return domainerrors.ErrInvalidOption
	}

	weight, err := s.Weights.BalanceOf(ctx, voter)
	if err != nil {
		return err
	}
	if weight == 0 {
		return domainerrors.ErrNoVotingWeight
	}

	if err := s.Repo.PutVote(ctx, ports.Vote{
		ProposalID: proposalID,
		Voter:      voter,
		OptionID:   optionID,
		Weight:     weight,
		CastAt:     s.now(),
	}); err != nil {
		return err
	}

	s.log().Debug("vote cast",
		"event", "voting_vote_cast",
		"module", "asset-ledgers/voting-ledger",
		"layer", "application",
		"proposal_id", proposalID,
		"voter", voter,
		"option_id", optionID,
		"weight", weight,
	)
	return nil
}

// VoteOf returns the voter's current choice on a proposal.
func (s Service) VoteOf(ctx context.Context, voter, proposalID string) (ports.Vote, error) {
	voter = strings.TrimSpace(voter)
	proposalID = strings.TrimSpace(proposalID)
	if voter == "" {
		return ports.Vote{}, domainerrors.ErrInvalidVoter
	}
	if proposalID == "" {
		return ports.Vote{}, domainerrors.ErrInvalidProposalID
	}
	vote, found, err := s.Repo.GetVote(ctx, proposalID, voter)
	if err != nil {
		return ports.Vote{}, err
	}
	if !found {
		return ports.Vote{}, domainerrors.ErrVoteNotFound
	}
	return vote, nil
}

// TopOptions returns up to n options ordered by accumulated weight, ties
// broken by option id for stable output.
func (s Service) TopOptions(ctx context.Context, proposalID string, n int) ([]ports.OptionTally, error) {
	proposalID = strings.TrimSpace(proposalID)
	if proposalID == "" {
		return nil, domainerrors.ErrInvalidProposalID
	}
	proposal, found, err := s.Repo.GetProposal(ctx, proposalID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, domainerrors.ErrProposalNotFound
	}

	votes, err := s.Repo.ListVotes(ctx, proposalID)
	if err != nil {
		return nil, err
	}

	weights := make(map[string]uint64, len(proposal.Options))
	for _, option := range proposal.Options {
		weights[option] = 0
	}
	for _, vote := range votes {
		weights[vote.OptionID] += vote.Weight
	}

	tallies := make([]ports.OptionTally, 0, len(weights))
	for optionID, weight := range weights {
		tallies = append(tallies, ports.OptionTally{OptionID: optionID, Weight: weight})
	}
	sort.Slice(tallies, func(i, j int) bool {
		if tallies[i].Weight == tallies[j].Weight {
			return tallies[i].OptionID < tallies[j].OptionID
		}
		return tallies[i].Weight > tallies[j].Weight
	})
	if n > 0 && len(tallies) > n {
		tallies = tallies[:n]
	}
	return tallies, nil
}

// SetStatus moves the proposal's lifecycle state. Only the proposal admin
// may do so.
func (s Service) SetStatus(ctx context.Context, actor, proposalID string, status ports.ProposalStatus) error {
	actor = strings.TrimSpace(actor)
	proposalID = strings.TrimSpace(proposalID)
	if proposalID == "" {
		return domainerrors.ErrInvalidProposalID
	}
	switch status {
	case ports.StatusPending, ports.StatusActive, ports.StatusClosed:
	default:
		return domainerrors.ErrInvalidStatus
	}

	proposal, found, err := s.Repo.GetProposal(ctx, proposalID)
	if err != nil {
		return err
	}
	if !found {
		return domainerrors.ErrProposalNotFound
	}
	if actor != proposal.Admin {
		return domainerrors.ErrUnauthorized
	}

	proposal.Status = status
	return s.Repo.PutProposal(ctx, proposal)
}

// GetStatus reports the proposal's lifecycle state.
func (s Service) GetStatus(ctx context.Context, proposalID string) (ports.ProposalStatus, error) {
	proposalID = strings.TrimSpace(proposalID)
	if proposalID == "" {
		return "", domainerrors.ErrInvalidProposalID
	}
	proposal, found, err := s.Repo.GetProposal(ctx, proposalID)
	if err != nil {
		return "", err
	}
	if !found {
		return "", domainerrors.ErrProposalNotFound
	}
	return proposal.Status, nil
}

func containsOption(options []string, optionID string) bool {
	for _, option := range options {
		if option == optionID {
			return true
		}
	}
	return false
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
