package application

import (
	"context"

	"aegis/contexts/delegation-core/avatar-service/domain/entities"
	domainerrors "aegis/contexts/delegation-core/avatar-service/domain/errors"
	"aegis/contexts/delegation-core/avatar-service/ports"
)

// Execute relays one action on behalf of an enabled module and reports the
// action's success flag. A failed action is a normal outcome, not an error.
func (s *Service) Execute(
	ctx context.Context,
	avatarID string,
	caller entities.Handle,
	request entities.ExecutionRequest,
) (bool, error) {
	outcome, err := s.relay(ctx, avatarID, caller, request)
	if err != nil {
		return false, err
	}
	return outcome.Success, nil
}

// ExecuteReturningData behaves like Execute and additionally surfaces the
// action's captured return data.
func (s *Service) ExecuteReturningData(
	ctx context.Context,
	avatarID string,
	caller entities.Handle,
	request entities.ExecutionRequest,
) (bool, []byte, error) {
	outcome, err := s.relay(ctx, avatarID, caller, request)
	if err != nil {
		return false, nil, err
	}
	return outcome.Success, outcome.Data, nil
}

// relay runs the per-invocation state machine:
// Received -> PreChecked -> Executed -> PostChecked -> Completed, with an
// early Rejected terminal from any checkpoint. Authorization and the guard
// binding are captured at Received under the avatar mutex; the mutex is
// released before outbound guard and action calls, so a guard or action that
// reentrantly administers the same avatar affects later calls, not this one.
func (s *Service) relay(
	ctx context.Context,
	avatarID string,
	caller entities.Handle,
	request entities.ExecutionRequest,
) (entities.ExecutionOutcome, error) {
	logger := ResolveLogger(s.Logger)
	st, err := s.state(ctx, avatarID)
	if err != nil {
		return entities.ExecutionOutcome{}, err
	}

	// Received
	st.mu.Lock()
	if !st.avatar.IsModuleEnabled(caller) {
		st.mu.Unlock()
		logger.Warn("relay rejected: caller not enabled",
			"event", "avatar_relay_unauthorized",
			"module", sourceService,
			"layer", "application",
			"avatar_id", avatarID,
			"caller", string(caller),
			"state", string(entities.StateReceived),
		)
		return entities.ExecutionOutcome{}, domainerrors.ErrUnauthorized
	}
	guard := st.avatar.Guard
	st.mu.Unlock()

	if request.Target.IsNull() {
		return entities.ExecutionOutcome{}, domainerrors.ErrInvalidHandle
	}
	if request.Mode != entities.DirectCall && request.Mode != entities.DelegatedCall {
		return entities.ExecutionOutcome{}, domainerrors.ErrInvalidCallMode
	}

	fingerprint, err := s.IDGenerator.NewID(ctx)
	if err != nil {
		return entities.ExecutionOutcome{}, err
	}

	// PreChecked
	if guard != "" {
		if err := s.Guards.PreCheck(ctx, guard, ports.GuardCheck{
			AvatarID:    avatarID,
			Module:      caller,
			Fingerprint: fingerprint,
			Target:      request.Target,
			Value:       request.Value,
			Payload:     request.Payload,
			Mode:        request.Mode,
		}); err != nil {
			logger.Info("relay rejected by guard pre-check",
				"event", "avatar_relay_guard_rejected",
				"module", sourceService,
				"layer", "application",
				"avatar_id", avatarID,
				"caller", string(caller),
				"guard", string(guard),
				"state", string(entities.StatePreChecked),
				"reason", err.Error(),
			)
			return entities.ExecutionOutcome{}, domainerrors.ErrGuardRejected
		}
	}

	// Executed
	outcome := s.Invoker.Invoke(ctx, ports.ActionCall{
		AvatarID: avatarID,
		Module:   caller,
		Target:   request.Target,
		Value:    request.Value,
		Payload:  request.Payload,
		Mode:     request.Mode,
	})

	// PostChecked. A post-check veto rejects the whole call even when the
	// action succeeded; unwinding the action's effects is the surrounding
	// environment's concern, not the relay's.
	if guard != "" {
		if err := s.Guards.PostCheck(ctx, guard, fingerprint, outcome.Success); err != nil {
			logger.Info("relay rejected by guard post-check",
				"event", "avatar_relay_guard_rejected",
				"module", sourceService,
				"layer", "application",
				"avatar_id", avatarID,
				"caller", string(caller),
				"guard", string(guard),
				"state", string(entities.StatePostChecked),
				"reason", err.Error(),
			)
			return entities.ExecutionOutcome{}, domainerrors.ErrGuardRejected
		}
	}

	// Completed
	logger.Debug("relay completed",
		"event", "avatar_relay_completed",
		"module", sourceService,
		"layer", "application",
		"avatar_id", avatarID,
		"caller", string(caller),
		"target", string(request.Target),
		"mode", string(request.Mode),
		"success", outcome.Success,
		"fingerprint", fingerprint,
		"state", string(entities.StateCompleted),
	)
	return entities.ExecutionOutcome{
		Success:     outcome.Success,
		Data:        outcome.Data,
		Fingerprint: fingerprint,
	}, nil
}
