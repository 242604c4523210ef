package httptransport

import "time"

// SetUserRequest grants usage units from owner to user until expiry.
// Amount zero clears the grant.
type SetUserRequest struct {
	Owner     string    `json:"owner"`
	User      string    `json:"user"`
	Amount    uint64    `json:"amount"`
	ExpiresAt time.Time `json:"expires_at,omitempty"`
}

// UserBalanceResponse sums active usage units granted to a user.
type UserBalanceResponse struct {
	User    string `json:"user"`
	Balance uint64 `json:"balance"`
}

// FrozenResponse sums an owner's units locked behind active grants.
type FrozenResponse struct {
	Owner  string `json:"owner"`
	Frozen uint64 `json:"frozen"`
}

// PairBalanceResponse reports one owner-to-user grant.
type PairBalanceResponse struct {
	User    string `json:"user"`
	Owner   string `json:"owner"`
	Balance uint64 `json:"balance"`
}

// ErrorResponse is the transport error body.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
