package avatar

import (
	"log/slog"

	httpadapter "aegis/contexts/delegation-core/avatar-service/adapters/http"
	"aegis/contexts/delegation-core/avatar-service/adapters/memory"
	application "aegis/contexts/delegation-core/avatar-service/application"
	"aegis/contexts/delegation-core/avatar-service/ports"
)

// Module is the avatar-service composition root exposed to runtime wiring.
type Module struct {
	Handler httpadapter.Handler
	Service *application.Service

	// Store and Handlespace are populated by NewInMemoryModule only.
	Store       *memory.Store
	Handlespace *memory.Handlespace
}

// Dependencies captures all runtime ports required by NewModule.
type Dependencies struct {
	Repository  ports.Repository
	Probe       ports.CapabilityProbe
	Guards      ports.GuardChecker
	Invoker     ports.ActionInvoker
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

// NewModule wires the avatar service and transport handler using explicit
// ports.
func NewModule(deps Dependencies) Module {
	service := &application.Service{
		Repository:  deps.Repository,
		Probe:       deps.Probe,
		Guards:      deps.Guards,
		Invoker:     deps.Invoker,
		Clock:       deps.Clock,
		IDGenerator: deps.IDGenerator,
		Logger:      deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{Service: service, Logger: deps.Logger},
		Service: service,
	}
}

// NewInMemoryModule builds a development/testing module backed by the
// in-memory store and handlespace.
func NewInMemoryModule(logger *slog.Logger) Module {
	store := memory.NewStore()
	handlespace := memory.NewHandlespace()
	module := NewModule(Dependencies{
		Repository:  store,
		Probe:       handlespace,
		Guards:      handlespace,
		Invoker:     handlespace,
		Clock:       store,
		IDGenerator: store,
		Logger:      logger,
	})
	module.Store = store
	module.Handlespace = handlespace
	return module
}
