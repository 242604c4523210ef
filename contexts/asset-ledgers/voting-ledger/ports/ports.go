package ports

import (
	"context"
	"strings"
	"time"
)

// ProposalStatus is the lifecycle state of one proposal.
type ProposalStatus string

const (
	StatusPending ProposalStatus = "pending"
	StatusActive  ProposalStatus = "active"
	StatusClosed  ProposalStatus = "closed"
)

// ParseProposalStatus maps a raw status string onto a ProposalStatus.
func ParseProposalStatus(raw string) (ProposalStatus, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case string(StatusPending):
		return StatusPending, true
	case string(StatusActive):
		return StatusActive, true
	case string(StatusClosed):
		return StatusClosed, true
	default:
		return "", false
	}
}

// Proposal is one votable item with a fixed option set and an admin allowed
// to move its status.
type Proposal struct {
	ProposalID string
	Admin      string
	Options    []string
	Status     ProposalStatus
	CreatedAt  time.Time
}

// Vote is one voter's current choice on one proposal, weighted by the
// voter's reputation balance at vote time. Re-voting replaces it.
type Vote struct {
	ProposalID string
	Voter      string
	OptionID   string
	Weight     uint64
	CastAt     time.Time
}

// OptionTally is one option's accumulated weight.
type OptionTally struct {
	OptionID string
	Weight   uint64
}

// Repository stores proposals and current votes.
type Repository interface {
	GetProposal(ctx context.Context, proposalID string) (Proposal, bool, error)
	PutProposal(ctx context.Context, proposal Proposal) error
	GetVote(ctx context.Context, proposalID, voter string) (Vote, bool, error)
	PutVote(ctx context.Context, vote Vote) error
	ListVotes(ctx context.Context, proposalID string) ([]Vote, error)
}

// WeightSource reports a voter's vote weight. Wired to the reputation
// ledger at composition time.
type WeightSource interface {
	BalanceOf(ctx context.Context, holder string) (uint64, error)
}

// Clock abstracts current time for deterministic tests.
type Clock interface {
	Now() time.Time
}
