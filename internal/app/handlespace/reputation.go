package handlespace

import (
	"context"
	"errors"

	reputationapp "aegis/contexts/asset-ledgers/reputation-ledger/application"
	avatarports "aegis/contexts/delegation-core/avatar-service/ports"
)

// ReputationBridge exposes the reputation ledger as a relay target. The
// avatar is the spending identity for transfers: a relayed transfer moves
// the avatar's own balance, never the module's.
type ReputationBridge struct {
	Service reputationapp.Service
}

type reputationTransferArgs struct {
	To     string `json:"to"`
	Amount uint64 `json:"amount"`
}

type reputationBalanceArgs struct {
	Holder string `json:"holder"`
}

func (b ReputationBridge) HandleAction(ctx context.Context, call avatarports.ActionCall) (bool, []byte) {
	act, ok := decodeAction(call.Payload)
	if !ok {
		return false, failure(errors.New("malformed reputation action"))
	}

	switch act.Op {
	case "transfer":
		var args reputationTransferArgs
		if !decodeArgs(act, &args) {
			return false, failure(errors.New("malformed transfer args"))
		}
		if err := b.Service.Transfer(ctx, call.AvatarID, args.To, args.Amount); err != nil {
			return false, failure(err)
		}
		return okResult(nil)

	case "balance_of":
		var args reputationBalanceArgs
		if !decodeArgs(act, &args) {
			return false, failure(errors.New("malformed balance_of args"))
		}
		balance, err := b.Service.BalanceOf(ctx, args.Holder)
		if err != nil {
			return false, failure(err)
		}
		return okResult(map[string]uint64{"balance": balance})

	case "total_supply":
		supply, err := b.Service.TotalSupply(ctx)
		if err != nil {
			return false, failure(err)
		}
		return okResult(map[string]uint64{"total_supply": supply})

	default:
		return false, failure(errors.New("unknown reputation op " + act.Op))
	}
}
