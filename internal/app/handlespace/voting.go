package handlespace

import (
	"context"
	"errors"

	votingapp "aegis/contexts/asset-ledgers/voting-ledger/application"
	votingports "aegis/contexts/asset-ledgers/voting-ledger/ports"
	avatarports "aegis/contexts/delegation-core/avatar-service/ports"
)

// VotingBridge exposes the voting ledger as a relay target. The avatar is
// the voter for vote, the admin for create_proposal and set_status.
type VotingBridge struct {
	Service votingapp.Service
}

type votingCreateArgs struct {
	ProposalID string   `json:"proposal_id"`
	Options    []string `json:"options"`
}

type votingVoteArgs struct {
	ProposalID string `json:"proposal_id"`
	OptionID   string `json:"option_id"`
}

type votingVoteOfArgs struct {
	Voter      string `json:"voter"`
	ProposalID string `json:"proposal_id"`
}

type votingTopArgs struct {
	ProposalID string `json:"proposal_id"`
	N          int    `json:"n"`
}

type votingStatusArgs struct {
	ProposalID string `json:"proposal_id"`
	Status     string `json:"status,omitempty"`
}

func (b VotingBridge) HandleAction(ctx context.Context, call avatarports.ActionCall) (bool, []byte) {
	act, ok := decodeAction(call.Payload)
	if !ok {
		return false, failure(errors.New("malformed voting action"))
	}

	switch act.Op {
	case "create_proposal":
		var args votingCreateArgs
		if !decodeArgs(act, &args) {
			return false, failure(errors.New("malformed create_proposal args"))
		}
		if err := b.Service.CreateProposal(ctx, args.ProposalID, call.AvatarID, args.Options); err != nil {
			return false, failure(err)
		}
		return okResult(nil)

	case "vote":
		var args votingVoteArgs
		if !decodeArgs(act, &args) {
			return false, failure(errors.New("malformed vote args"))
		}
		if err := b.Service.Vote(ctx, call.AvatarID, args.ProposalID, args.OptionID); err != nil {
			return false, failure(err)
		}
		return okResult(nil)

	case "vote_of":
		var args votingVoteOfArgs
		if !decodeArgs(act, &args) {
			return false, failure(errors.New("malformed vote_of args"))
		}
		vote, err := b.Service.VoteOf(ctx, args.Voter, args.ProposalID)
		if err != nil {
			return false, failure(err)
		}
		return okResult(map[string]any{
			"option_id": vote.OptionID,
			"weight":    vote.Weight,
		})

	case "top_options":
		var args votingTopArgs
		if !decodeArgs(act, &args) {
			return false, failure(errors.New("malformed top_options args"))
		}
		tallies, err := b.Service.TopOptions(ctx, args.ProposalID, args.N)
		if err != nil {
			return false, failure(err)
		}
		return okResult(tallies)

	case "set_status":
		var args votingStatusArgs
		if !decodeArgs(act, &args) {
			return false, failure(errors.New("malformed set_status args"))
		}
		status, ok := votingports.ParseProposalStatus(args.Status)
		if !ok {
			return false, failure(errors.New("malformed set_status status"))
		}
		if err := b.Service.SetStatus(ctx, call.AvatarID, args.ProposalID, status); err != nil {
			return false, failure(err)
		}
		return okResult(nil)

	case "get_status":
		var args votingStatusArgs
		if !decodeArgs(act, &args) {
			return false, failure(errors.New("malformed get_status args"))
		}
		status, err := b.Service.GetStatus(ctx, args.ProposalID)
		if err != nil {
			return false, failure(err)
		}
		return okResult(map[string]string{"status": string(status)})

	default:
		return false, failure(errors.New("unknown voting op " + act.Op))
	}
}
