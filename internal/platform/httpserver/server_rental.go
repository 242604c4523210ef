package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	rentalerrors "aegis/contexts/asset-ledgers/rental-ledger/domain/errors"
	rentalhttp "aegis/contexts/asset-ledgers/rental-ledger/transport/http"
)

func writeRentalError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, rentalhttp.ErrorResponse{Code: code, Message: message})
}

func writeRentalDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, rentalerrors.ErrInvalidOwner):
		writeRentalError(w, http.StatusBadRequest, "invalid_owner", err.Error())
	case errors.Is(err, rentalerrors.ErrInvalidUser):
		writeRentalError(w, http.StatusBadRequest, "invalid_user", err.Error())
	case errors.Is(err, rentalerrors.ErrInvalidExpiry):
		writeRentalError(w, http.StatusBadRequest, "invalid_expiry", err.Error())
	case errors.Is(err, rentalerrors.ErrInsufficientBalance):
		writeRentalError(w, http.StatusUnprocessableEntity, "insufficient_balance", err.Error())
	default:
		writeRentalError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func (s *Server) handleRentalSetUser(w http.ResponseWriter, r *http.Request) {
	var req rentalhttp.SetUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeRentalError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	if err := s.rental.Handler.SetUserHandler(r.Context(), req); err != nil {
		writeRentalDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

func (s *Server) handleRentalUserBalance(w http.ResponseWriter, r *http.Request) {
	user := r.PathValue("user")
	resp, err := s.rental.Handler.BalanceOfUserHandler(r.Context(), user)
	if err != nil {
		writeRentalDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRentalFrozen(w http.ResponseWriter, r *http.Request) {
	owner := r.PathValue("owner")
	resp, err := s.rental.Handler.FrozenOfOwnerHandler(r.Context(), owner)
	if err != nil {
		writeRentalDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRentalPairBalance(w http.ResponseWriter, r *http.Request) {
	user := r.PathValue("user")
	owner := r.PathValue("owner")
	resp, err := s.rental.Handler.BalanceOfUserFromOwnerHandler(r.Context(), user, owner)
	if err != nil {
		writeRentalDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
