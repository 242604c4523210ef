package rental

import (
	"log/slog"

	httpadapter "aegis/contexts/asset-ledgers/rental-ledger/adapters/http"
	"aegis/contexts/asset-ledgers/rental-ledger/adapters/memory"
	"aegis/contexts/asset-ledgers/rental-ledger/application"
	"aegis/contexts/asset-ledgers/rental-ledger/ports"
)

// Module is the rental-ledger composition root.
type Module struct {
	Handler httpadapter.Handler
	Service application.Service
	Store   *memory.Store
}

// Dependencies captures the runtime ports required by NewModule. Balances
// points at the ledger the grants freeze against.
type Dependencies struct {
	Repository ports.Repository
	Balances   ports.OwnerBalanceSource
	Clock      ports.Clock
	Logger     *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := application.Service{
		Repo:     deps.Repository,
		Balances: deps.Balances,
		Clock:    deps.Clock,
		Logger:   deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{Service: service, Logger: deps.Logger},
		Service: service,
	}
}

// NewInMemoryModule builds a development/testing module with the in-memory
// grant store.
func NewInMemoryModule(balances ports.OwnerBalanceSource, logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Repository: store,
		Balances:   balances,
		Clock:      store,
		Logger:     logger,
	})
	module.Store = store
	return module
}
