package httpadapter

import (
	"context"
	"log/slog"

	application "aegis/contexts/delegation-core/avatar-service/application"
	"aegis/contexts/delegation-core/avatar-service/domain/entities"
	domainerrors "aegis/contexts/delegation-core/avatar-service/domain/errors"
	httptransport "aegis/contexts/delegation-core/avatar-service/transport/http"
)

// Handler maps HTTP DTOs onto the avatar application service.
type Handler struct {
	Service *application.Service
	Logger  *slog.Logger
}

// CreateAvatarHandler provisions an avatar.
func (h Handler) CreateAvatarHandler(ctx context.Context, request httptransport.CreateAvatarRequest) error {
	return h.Service.CreateAvatar(ctx, request.AvatarID, entities.Handle(request.OwningAuthority))
}

// EnableModuleHandler authorizes a delegate; actor comes from the request's
// asserted authority, never from ambient state.
func (h Handler) EnableModuleHandler(
	ctx context.Context,
	avatarID string,
	actor string,
	request httptransport.EnableModuleRequest,
) error {
	return h.Service.EnableModule(ctx, avatarID, entities.Handle(actor), entities.Handle(request.Handle))
}

// DisableModuleHandler revokes a delegate.
func (h Handler) DisableModuleHandler(
	ctx context.Context,
	avatarID string,
	actor string,
	request httptransport.DisableModuleRequest,
) error {
	return h.Service.DisableModule(
		ctx,
		avatarID,
		entities.Handle(actor),
		entities.Handle(request.PrecedingHandle),
		entities.Handle(request.Handle),
	)
}

// SetGuardHandler installs or clears the policy check.
func (h Handler) SetGuardHandler(
	ctx context.Context,
	avatarID string,
	actor string,
	request httptransport.SetGuardRequest,
) error {
	return h.Service.SetGuard(ctx, avatarID, entities.Handle(actor), entities.Handle(request.Handle))
}

// ExecuteHandler relays an action for an enabled module.
func (h Handler) ExecuteHandler(
	ctx context.Context,
	avatarID string,
	caller string,
	request httptransport.ExecuteRequest,
) (httptransport.ExecuteResponse, error) {
	execution, err := executionRequest(request)
	if err != nil {
		return httptransport.ExecuteResponse{}, err
	}
	success, err := h.Service.Execute(ctx, avatarID, entities.Handle(caller), execution)
	if err != nil {
		return httptransport.ExecuteResponse{}, err
	}
	return httptransport.ExecuteResponse{Success: success}, nil
}

// ExecuteReturningDataHandler relays an action and surfaces return data.
func (h Handler) ExecuteReturningDataHandler(
	ctx context.Context,
	avatarID string,
	caller string,
	request httptransport.ExecuteRequest,
) (httptransport.ExecuteReturningDataResponse, error) {
	execution, err := executionRequest(request)
	if err != nil {
		return httptransport.ExecuteReturningDataResponse{}, err
	}
	success, data, err := h.Service.ExecuteReturningData(ctx, avatarID, entities.Handle(caller), execution)
	if err != nil {
		return httptransport.ExecuteReturningDataResponse{}, err
	}
	return httptransport.ExecuteReturningDataResponse{Success: success, Data: data}, nil
}

// ModuleStatusHandler answers a membership query. No authorization required.
func (h Handler) ModuleStatusHandler(
	ctx context.Context,
	avatarID string,
	handle string,
) (httptransport.ModuleStatusResponse, error) {
	enabled, err := h.Service.IsModuleEnabled(ctx, avatarID, entities.Handle(handle))
	if err != nil {
		return httptransport.ModuleStatusResponse{}, err
	}
	return httptransport.ModuleStatusResponse{Handle: handle, Enabled: enabled}, nil
}

// ModulesPageHandler returns one page of enabled handles. An empty cursor
// starts at the head.
func (h Handler) ModulesPageHandler(
	ctx context.Context,
	avatarID string,
	cursor string,
	pageSize int,
) (httptransport.ModulesPageResponse, error) {
	start := entities.SentinelHandle
	if cursor != "" {
		start = entities.Handle(cursor)
	}
	page, next, err := h.Service.GetModulesPaginated(ctx, avatarID, start, pageSize)
	if err != nil {
		return httptransport.ModulesPageResponse{}, err
	}

	modules := make([]string, len(page))
	for i, handle := range page {
		modules[i] = string(handle)
	}
	nextCursor := ""
	if next != entities.SentinelHandle {
		nextCursor = string(next)
	}
	return httptransport.ModulesPageResponse{Modules: modules, NextCursor: nextCursor}, nil
}

// GuardHandler reports the bound guard.
func (h Handler) GuardHandler(ctx context.Context, avatarID string) (httptransport.GuardResponse, error) {
	guard, err := h.Service.GetGuard(ctx, avatarID)
	if err != nil {
		return httptransport.GuardResponse{}, err
	}
	return httptransport.GuardResponse{Guard: string(guard)}, nil
}

func executionRequest(request httptransport.ExecuteRequest) (entities.ExecutionRequest, error) {
	mode, ok := entities.ParseCallMode(request.Mode)
	if !ok {
		return entities.ExecutionRequest{}, domainerrors.ErrInvalidCallMode
	}
	return entities.ExecutionRequest{
		Target:  entities.Handle(request.Target),
		Value:   request.Value,
		Payload: request.Payload,
		Mode:    mode,
	}, nil
}
