package httptransport

// CreateAvatarRequest provisions a protected account.
type CreateAvatarRequest struct {
	AvatarID        string `json:"avatar_id"`
	OwningAuthority string `json:"owning_authority"`
}

// EnableModuleRequest authorizes a delegate handle.
type EnableModuleRequest struct {
	Handle string `json:"handle"`
}

// DisableModuleRequest revokes a delegate handle; the caller supplies the
// current predecessor as proof of fresh state.
type DisableModuleRequest struct {
	PrecedingHandle string `json:"preceding_handle"`
	Handle          string `json:"handle"`
}

// SetGuardRequest installs or clears the policy check. An empty handle
// clears the binding.
type SetGuardRequest struct {
	Handle string `json:"handle"`
}

// ExecuteRequest is one relay invocation from an enabled module.
type ExecuteRequest struct {
	Target  string `json:"target"`
	Value   uint64 `json:"value"`
	Payload []byte `json:"payload,omitempty"`
	Mode    string `json:"mode"`
}

// ExecuteResponse reports the action's success flag.
type ExecuteResponse struct {
	Success bool `json:"success"`
}

// ExecuteReturningDataResponse additionally surfaces captured return data.
type ExecuteReturningDataResponse struct {
	Success bool   `json:"success"`
	Data    []byte `json:"data,omitempty"`
}

// ModuleStatusResponse answers a membership query.
type ModuleStatusResponse struct {
	Handle  string `json:"handle"`
	Enabled bool   `json:"enabled"`
}

// ModulesPageResponse is one page of enabled handles in head-first order.
type ModulesPageResponse struct {
	Modules    []string `json:"modules"`
	NextCursor string   `json:"next_cursor"`
}

// GuardResponse reports the bound guard, empty when unbound.
type GuardResponse struct {
	Guard string `json:"guard"`
}

// ErrorResponse is the transport error body.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
