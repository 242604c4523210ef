package handlespace

import (
	"context"
	"errors"
	"time"

	rentalapp "aegis/contexts/asset-ledgers/rental-ledger/application"
	avatarports "aegis/contexts/delegation-core/avatar-service/ports"
)

// RentalBridge exposes the rental ledger as a relay target. The avatar is
// the granting owner for set_user.
type RentalBridge struct {
	Service rentalapp.Service
}

type rentalSetUserArgs struct {
	User      string    `json:"user"`
	Amount    uint64    `json:"amount"`
	ExpiresAt time.Time `json:"expires_at,omitempty"`
}

type rentalUserArgs struct {
	User string `json:"user"`
}

type rentalOwnerArgs struct {
	Owner string `json:"owner"`
}

type rentalPairArgs struct {
	User  string `json:"user"`
	Owner string `json:"owner"`
}

func (b RentalBridge) HandleAction(ctx context.Context, call avatarports.ActionCall) (bool, []byte) {
	act, ok := decodeAction(call.Payload)
	if !ok {
		return false, failure(errors.New("malformed rental action"))
	}

	switch act.Op {
	case "set_user":
		var args rentalSetUserArgs
		if !decodeArgs(act, &args) {
			return false, failure(errors.New("malformed set_user args"))
		}
		if err := b.Service.SetUser(ctx, call.AvatarID, args.User, args.Amount, args.ExpiresAt); err != nil {
			return false, failure(err)
		}
		return okResult(nil)

	case "balance_of_user":
		var args rentalUserArgs
		if !decodeArgs(act, &args) {
			return false, failure(errors.New("malformed balance_of_user args"))
		}
		balance, err := b.Service.BalanceOfUser(ctx, args.User)
		if err != nil {
			return false, failure(err)
		}
		return okResult(map[string]uint64{"balance": balance})

	case "frozen_of_owner":
		var args rentalOwnerArgs
		if !decodeArgs(act, &args) {
			return false, failure(errors.New("malformed frozen_of_owner args"))
		}
		frozen, err := b.Service.FrozenOfOwner(ctx, args.Owner)
		if err != nil {
			return false, failure(err)
		}
		return okResult(map[string]uint64{"frozen": frozen})

	case "balance_of_user_from_owner":
		var args rentalPairArgs
		if !decodeArgs(act, &args) {
			return false, failure(errors.New("malformed balance_of_user_from_owner args"))
		}
		balance, err := b.Service.BalanceOfUserFromOwner(ctx, args.User, args.Owner)
		if err != nil {
			return false, failure(err)
		}
		return okResult(map[string]uint64{"balance": balance})

	default:
		return false, failure(errors.New("unknown rental op " + act.Op))
	}
}
