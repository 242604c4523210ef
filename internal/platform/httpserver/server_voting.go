package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	votingerrors "aegis/contexts/asset-ledgers/voting-ledger/domain/errors"
	votinghttp "aegis/contexts/asset-ledgers/voting-ledger/transport/http"
)

func writeVotingError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, votinghttp.ErrorResponse{Code: code, Message: message})
}

func writeVotingDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, votingerrors.ErrInvalidProposalID):
		writeVotingError(w, http.StatusBadRequest, "invalid_proposal_id", err.Error())
	case errors.Is(err, votingerrors.ErrInvalidVoter):
		writeVotingError(w, http.StatusBadRequest, "invalid_voter", err.Error())
	case errors.Is(err, votingerrors.ErrInvalidOption):
		writeVotingError(w, http.StatusBadRequest, "invalid_option", err.Error())
	case errors.Is(err, votingerrors.ErrInvalidStatus):
		writeVotingError(w, http.StatusBadRequest, "invalid_status", err.Error())
	case errors.Is(err, votingerrors.ErrProposalExists):
		writeVotingError(w, http.StatusConflict, "proposal_exists", err.Error())
	case errors.Is(err, votingerrors.ErrProposalNotFound):
		writeVotingError(w, http.StatusNotFound, "proposal_not_found", err.Error())
	case errors.Is(err, votingerrors.ErrProposalNotActive):
		writeVotingError(w, http.StatusConflict, "proposal_not_active", err.Error())
	case errors.Is(err, votingerrors.ErrUnauthorized):
		writeVotingError(w, http.StatusForbidden, "unauthorized", err.Error())
	case errors.Is(err, votingerrors.ErrNoVotingWeight):
		writeVotingError(w, http.StatusUnprocessableEntity, "no_voting_weight", err.Error())
	case errors.Is(err, votingerrors.ErrVoteNotFound):
		writeVotingError(w, http.StatusNotFound, "vote_not_found", err.Error())
	default:
		writeVotingError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func (s *Server) handleVotingCreateProposal(w http.ResponseWriter, r *http.Request) {
	var req votinghttp.CreateProposalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeVotingError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	if err := s.voting.Handler.CreateProposalHandler(r.Context(), req); err != nil {
		writeVotingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, req)
}

func (s *Server) handleVotingVote(w http.ResponseWriter, r *http.Request) {
	var req votinghttp.VoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeVotingError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	if err := s.voting.Handler.VoteHandler(r.Context(), req); err != nil {
		writeVotingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

func (s *Server) handleVotingTopOptions(w http.ResponseWriter, r *http.Request) {
	proposalID := r.PathValue("proposal_id")

	n := 0
	if nRaw := r.URL.Query().Get("n"); nRaw != "" {
		parsed, err := strconv.Atoi(nRaw)
		if err != nil {
			writeVotingError(w, http.StatusBadRequest, "invalid_n", "n must be an integer")
			return
		}
		n = parsed
	}

	resp, err := s.voting.Handler.TopOptionsHandler(r.Context(), proposalID, n)
	if err != nil {
		writeVotingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleVotingVoteOf(w http.ResponseWriter, r *http.Request) {
	proposalID := r.PathValue("proposal_id")
	voter := r.PathValue("voter")
	resp, err := s.voting.Handler.VoteOfHandler(r.Context(), voter, proposalID)
	if err != nil {
		writeVotingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleVotingSetStatus(w http.ResponseWriter, r *http.Request) {
	var req votinghttp.SetStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeVotingError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	proposalID := r.PathValue("proposal_id")
	if err := s.voting.Handler.SetStatusHandler(r.Context(), proposalID, req); err != nil {
		writeVotingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, votinghttp.StatusResponse{ProposalID: proposalID, Status: req.Status})
}

func (s *Server) handleVotingGetStatus(w http.ResponseWriter, r *http.Request) {
	proposalID := r.PathValue("proposal_id")
	resp, err := s.voting.Handler.GetStatusHandler(r.Context(), proposalID)
	if err != nil {
		writeVotingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
