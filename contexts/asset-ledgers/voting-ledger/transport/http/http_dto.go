package httptransport

import "time"

// CreateProposalRequest registers a proposal in pending status.
type CreateProposalRequest struct {
	ProposalID string   `json:"proposal_id"`
	Admin      string   `json:"admin"`
	Options    []string `json:"options"`
}

// VoteRequest casts or replaces a weighted vote.
type VoteRequest struct {
	Voter      string `json:"voter"`
	ProposalID string `json:"proposal_id"`
	OptionID   string `json:"option_id"`
}

// VoteResponse reports a voter's current choice.
type VoteResponse struct {
	ProposalID string    `json:"proposal_id"`
	Voter      string    `json:"voter"`
	OptionID   string    `json:"option_id"`
	Weight     uint64    `json:"weight"`
	CastAt     time.Time `json:"cast_at"`
}

// OptionTallyDTO is one option's accumulated weight.
type OptionTallyDTO struct {
	OptionID string `json:"option_id"`
	Weight   uint64 `json:"weight"`
}

// TopOptionsResponse orders options by weight, descending.
type TopOptionsResponse struct {
	ProposalID string           `json:"proposal_id"`
	Options    []OptionTallyDTO `json:"options"`
}

// SetStatusRequest moves a proposal's lifecycle state.
type SetStatusRequest struct {
	Actor  string `json:"actor"`
	Status string `json:"status"`
}

// StatusResponse reports a proposal's lifecycle state.
type StatusResponse struct {
	ProposalID string `json:"proposal_id"`
	Status     string `json:"status"`
}

// ErrorResponse is the transport error body.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
