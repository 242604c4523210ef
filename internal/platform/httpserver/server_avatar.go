package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	avatarerrors "aegis/contexts/delegation-core/avatar-service/domain/errors"
	avatarhttp "aegis/contexts/delegation-core/avatar-service/transport/http"
)

func writeAvatarError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, avatarhttp.ErrorResponse{Code: code, Message: message})
}

func writeAvatarDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, avatarerrors.ErrAvatarNotFound):
		writeAvatarError(w, http.StatusNotFound, "avatar_not_found", err.Error())
	case errors.Is(err, avatarerrors.ErrAvatarExists):
		writeAvatarError(w, http.StatusConflict, "avatar_exists", err.Error())
	case errors.Is(err, avatarerrors.ErrInvalidAvatarID):
		writeAvatarError(w, http.StatusBadRequest, "invalid_avatar_id", err.Error())
	case errors.Is(err, avatarerrors.ErrInvalidHandle):
		writeAvatarError(w, http.StatusBadRequest, "invalid_handle", err.Error())
	case errors.Is(err, avatarerrors.ErrInvalidCallMode):
		writeAvatarError(w, http.StatusBadRequest, "invalid_call_mode", err.Error())
	case errors.Is(err, avatarerrors.ErrAlreadyEnabled):
		writeAvatarError(w, http.StatusConflict, "already_enabled", err.Error())
	case errors.Is(err, avatarerrors.ErrNotEnabled):
		writeAvatarError(w, http.StatusNotFound, "not_enabled", err.Error())
	case errors.Is(err, avatarerrors.ErrBrokenLink):
		writeAvatarError(w, http.StatusConflict, "broken_link", err.Error())
	case errors.Is(err, avatarerrors.ErrUnauthorized):
		writeAvatarError(w, http.StatusForbidden, "unauthorized", err.Error())
	case errors.Is(err, avatarerrors.ErrIncompatibleGuard):
		writeAvatarError(w, http.StatusUnprocessableEntity, "incompatible_guard", err.Error())
	case errors.Is(err, avatarerrors.ErrGuardRejected):
		writeAvatarError(w, http.StatusForbidden, "guard_rejected", err.Error())
	default:
		writeAvatarError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func requireActingAuthority(w http.ResponseWriter, r *http.Request) (string, bool) {
	actor := strings.TrimSpace(r.Header.Get("X-Acting-Authority"))
	if actor == "" {
		writeAvatarError(w, http.StatusUnauthorized, "missing_authority", "X-Acting-Authority header is required")
		return "", false
	}
	return actor, true
}

func requireModuleHandle(w http.ResponseWriter, r *http.Request) (string, bool) {
	caller := strings.TrimSpace(r.Header.Get("X-Module-Handle"))
	if caller == "" {
		writeAvatarError(w, http.StatusUnauthorized, "missing_module_handle", "X-Module-Handle header is required")
		return "", false
	}
	return caller, true
}

func (s *Server) handleCreateAvatar(w http.ResponseWriter, r *http.Request) {
	var req avatarhttp.CreateAvatarRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAvatarError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	if err := s.avatar.Handler.CreateAvatarHandler(r.Context(), req); err != nil {
		writeAvatarDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, req)
}

func (s *Server) handleEnableModule(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActingAuthority(w, r)
	if !ok {
		return
	}
	var req avatarhttp.EnableModuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAvatarError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	avatarID := r.PathValue("avatar_id")
	if err := s.avatar.Handler.EnableModuleHandler(r.Context(), avatarID, actor, req); err != nil {
		writeAvatarDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, avatarhttp.ModuleStatusResponse{Handle: req.Handle, Enabled: true})
}

func (s *Server) handleDisableModule(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActingAuthority(w, r)
	if !ok {
		return
	}
	var req avatarhttp.DisableModuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAvatarError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	avatarID := r.PathValue("avatar_id")
	if err := s.avatar.Handler.DisableModuleHandler(r.Context(), avatarID, actor, req); err != nil {
		writeAvatarDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, avatarhttp.ModuleStatusResponse{Handle: req.Handle, Enabled: false})
}

func (s *Server) handleSetGuard(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActingAuthority(w, r)
	if !ok {
		return
	}
	var req avatarhttp.SetGuardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAvatarError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	avatarID := r.PathValue("avatar_id")
	if err := s.avatar.Handler.SetGuardHandler(r.Context(), avatarID, actor, req); err != nil {
		writeAvatarDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, avatarhttp.GuardResponse{Guard: req.Handle})
}

func (s *Server) handleGetGuard(w http.ResponseWriter, r *http.Request) {
	avatarID := r.PathValue("avatar_id")
	resp, err := s.avatar.Handler.GuardHandler(r.Context(), avatarID)
	if err != nil {
		writeAvatarDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListModules(w http.ResponseWriter, r *http.Request) {
	avatarID := r.PathValue("avatar_id")
	query := r.URL.Query()

	pageSize := 0
	if pageSizeRaw := query.Get("page_size"); pageSizeRaw != "" {
		parsed, err := strconv.Atoi(pageSizeRaw)
		if err != nil {
			writeAvatarError(w, http.StatusBadRequest, "invalid_page_size", "page_size must be an integer")
			return
		}
		pageSize = parsed
	}

	resp, err := s.avatar.Handler.ModulesPageHandler(r.Context(), avatarID, query.Get("cursor"), pageSize)
	if err != nil {
		writeAvatarDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleModuleStatus(w http.ResponseWriter, r *http.Request) {
	avatarID := r.PathValue("avatar_id")
	handle := r.PathValue("handle")
	resp, err := s.avatar.Handler.ModuleStatusHandler(r.Context(), avatarID, handle)
	if err != nil {
		writeAvatarDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleExecute(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireModuleHandle(w, r)
	if !ok {
		return
	}
	var req avatarhttp.ExecuteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAvatarError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	avatarID := r.PathValue("avatar_id")
	resp, err := s.avatar.Handler.ExecuteHandler(r.Context(), avatarID, caller, req)
	if err != nil {
		writeAvatarDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleExecuteReturningData(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireModuleHandle(w, r)
	if !ok {
		return
	}
	var req avatarhttp.ExecuteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAvatarError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	avatarID := r.PathValue("avatar_id")
	resp, err := s.avatar.Handler.ExecuteReturningDataHandler(r.Context(), avatarID, caller, req)
	if err != nil {
		writeAvatarDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
