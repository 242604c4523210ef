package reputation

import (
	"log/slog"

	httpadapter "aegis/contexts/asset-ledgers/reputation-ledger/adapters/http"
	"aegis/contexts/asset-ledgers/reputation-ledger/adapters/memory"
	"aegis/contexts/asset-ledgers/reputation-ledger/application"
	"aegis/contexts/asset-ledgers/reputation-ledger/ports"
)

// Module is the reputation-ledger composition root.
type Module struct {
	Handler httpadapter.Handler
	Service application.Service
	Store   *memory.Store
}

// Dependencies captures the runtime ports required by NewModule.
type Dependencies struct {
	Repository ports.Repository
	Logger     *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := application.Service{
		Repo:   deps.Repository,
		Logger: deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{Service: service, Logger: deps.Logger},
		Service: service,
	}
}

// NewInMemoryModule builds a development/testing module with the in-memory
// balance store.
func NewInMemoryModule(logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{Repository: store, Logger: logger})
	module.Store = store
	return module
}
