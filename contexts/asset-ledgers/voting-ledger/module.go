package voting

import (
	"log/slog"

	httpadapter "aegis/contexts/asset-ledgers/voting-ledger/adapters/http"
	"aegis/contexts/asset-ledgers/voting-ledger/adapters/memory"
	"aegis/contexts/asset-ledgers/voting-ledger/application"
	"aegis/contexts/asset-ledgers/voting-ledger/ports"
)

// Module is the voting-ledger composition root.
type Module struct {
	Handler httpadapter.Handler
	Service application.Service
	Store   *memory.Store
}

// Dependencies captures the runtime ports required by NewModule. Weights
// points at the ledger that prices each vote.
type Dependencies struct {
	Repository ports.Repository
	Weights    ports.WeightSource
	Clock      ports.Clock
	Logger     *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := application.Service{
		Repo:    deps.Repository,
		Weights: deps.Weights,
		Clock:   deps.Clock,
		Logger:  deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{Service: service, Logger: deps.Logger},
		Service: service,
	}
}

// NewInMemoryModule builds a development/testing module with the in-memory
// proposal store.
func NewInMemoryModule(weights ports.WeightSource, logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Repository: store,
		Weights:    weights,
		Clock:      store,
		Logger:     logger,
	})
	module.Store = store
	return module
}
