package errors

import "errors"

var (
	ErrInvalidProposalID = errors.New("invalid proposal id")
	ErrInvalidVoter      = errors.New("invalid voter")
	ErrInvalidOption     = errors.New("invalid option")
	ErrInvalidStatus     = errors.New("invalid proposal status")
	ErrProposalExists    = errors.New("proposal already exists")
	ErrProposalNotFound  = errors.New("proposal not found")
	ErrProposalNotActive = errors.New("proposal is not active")
	ErrUnauthorized      = errors.New("caller is not the proposal admin")
	ErrNoVotingWeight    = errors.New("voter has no reputation weight")
	ErrVoteNotFound      = errors.New("vote not found")
)
