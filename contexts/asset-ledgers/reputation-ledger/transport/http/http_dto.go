package httptransport

// BalanceResponse reports one holder's balance.
type BalanceResponse struct {
	Holder  string `json:"holder"`
	Balance uint64 `json:"balance"`
}

// TotalSupplyResponse reports the ledger-wide supply.
type TotalSupplyResponse struct {
	TotalSupply uint64 `json:"total_supply"`
}

// TransferRequest moves amount between holders.
type TransferRequest struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Amount uint64 `json:"amount"`
}

// CreditRequest mints amount to a holder.
type CreditRequest struct {
	Holder string `json:"holder"`
	Amount uint64 `json:"amount"`
}

// ErrorResponse is the transport error body.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
