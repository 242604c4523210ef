package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	reputationerrors "aegis/contexts/asset-ledgers/reputation-ledger/domain/errors"
	reputationhttp "aegis/contexts/asset-ledgers/reputation-ledger/transport/http"
)

func writeReputationError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, reputationhttp.ErrorResponse{Code: code, Message: message})
}

func writeReputationDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, reputationerrors.ErrInvalidHolder):
		writeReputationError(w, http.StatusBadRequest, "invalid_holder", err.Error())
	case errors.Is(err, reputationerrors.ErrInvalidAmount):
		writeReputationError(w, http.StatusBadRequest, "invalid_amount", err.Error())
	case errors.Is(err, reputationerrors.ErrInsufficientBalance):
		writeReputationError(w, http.StatusUnprocessableEntity, "insufficient_balance", err.Error())
	default:
		writeReputationError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func (s *Server) handleReputationBalance(w http.ResponseWriter, r *http.Request) {
	holder := r.PathValue("holder")
	resp, err := s.reputation.Handler.BalanceOfHandler(r.Context(), holder)
	if err != nil {
		writeReputationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleReputationSupply(w http.ResponseWriter, r *http.Request) {
	resp, err := s.reputation.Handler.TotalSupplyHandler(r.Context())
	if err != nil {
		writeReputationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleReputationTransfer(w http.ResponseWriter, r *http.Request) {
	var req reputationhttp.TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeReputationError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	if err := s.reputation.Handler.TransferHandler(r.Context(), req); err != nil {
		writeReputationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

func (s *Server) handleReputationCredit(w http.ResponseWriter, r *http.Request) {
	var req reputationhttp.CreditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeReputationError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	if err := s.reputation.Handler.CreditHandler(r.Context(), req); err != nil {
		writeReputationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}
