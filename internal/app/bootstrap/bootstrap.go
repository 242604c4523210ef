package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	rental "aegis/contexts/asset-ledgers/rental-ledger"
	reputation "aegis/contexts/asset-ledgers/reputation-ledger"
	voting "aegis/contexts/asset-ledgers/voting-ledger"
	avatar "aegis/contexts/delegation-core/avatar-service"
	avatarevents "aegis/contexts/delegation-core/avatar-service/adapters/events"
	avatarmemory "aegis/contexts/delegation-core/avatar-service/adapters/memory"
	avatarpostgres "aegis/contexts/delegation-core/avatar-service/adapters/postgres"
	workerapp "aegis/contexts/delegation-core/avatar-service/application/workers"
	"aegis/contexts/delegation-core/avatar-service/domain/entities"
	contractsv1 "aegis/contracts/gen/events/v1"
	"aegis/internal/app/handlespace"
	"aegis/internal/platform/config"
	"aegis/internal/platform/db"
	"aegis/internal/platform/httpserver"
	"aegis/internal/platform/messaging"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

// Well-known handles the ledger bridges answer to when relayed through an
// avatar.
const (
	ReputationLedgerHandle = entities.Handle("ledger:reputation")
	RentalLedgerHandle     = entities.Handle("ledger:rental")
	VotingLedgerHandle     = entities.Handle("ledger:voting")
)

type APIApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	logger   *slog.Logger
}

type WorkerApp struct {
	postgres     *db.Postgres
	bus          *messaging.Bus
	outboxRelay  workerapp.OutboxRelay
	relayEnabled bool
	auditEnabled bool
	pollInterval time.Duration
	logger       *slog.Logger
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")

	handles := avatarmemory.NewHandlespace()

	var pg *db.Postgres
	var avatarModule avatar.Module
	if strings.TrimSpace(cfg.PostgresDSN) != "" {
		pg, err = db.Connect(cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		repo := avatarpostgres.NewRepository(pg.DB, logger)
		if err := repo.Migrate(); err != nil {
			return nil, err
		}
		avatarModule = avatar.NewModule(avatar.Dependencies{
			Repository:  repo,
			Probe:       handles,
			Guards:      handles,
			Invoker:     handles,
			Clock:       avatarpostgres.SystemClock{},
			IDGenerator: avatarpostgres.UUIDGenerator{},
			Logger:      logger,
		})
	} else {
		avatarModule = avatar.NewInMemoryModule(logger)
		handles = avatarModule.Handlespace
	}

	reputationModule := reputation.NewInMemoryModule(logger)
	rentalModule := rental.NewInMemoryModule(reputationModule.Service, logger)
	votingModule := voting.NewInMemoryModule(reputationModule.Service, logger)

	handles.Register(ReputationLedgerHandle, handlespace.ReputationBridge{Service: reputationModule.Service})
	handles.Register(RentalLedgerHandle, handlespace.RentalBridge{Service: rentalModule.Service})
	handles.Register(VotingLedgerHandle, handlespace.VotingBridge{Service: votingModule.Service})

	server := httpserver.New(
		avatarModule,
		reputationModule,
		rentalModule,
		votingModule,
		logger,
		normalizeAddr(cfg.HTTPPort),
	)
	return &APIApp{
		server:   server,
		postgres: pg,
		logger:   logger,
	}, nil
}

func BuildWorker() (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "worker")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	bus := messaging.NewBus(logger)
	repo := avatarpostgres.NewRepository(pg.DB, logger)
	return &WorkerApp{
		postgres: pg,
		bus:      bus,
		outboxRelay: workerapp.OutboxRelay{
			Outbox:    repo,
			Publisher: avatarevents.NewPublisher(bus, logger),
			Clock:     avatarpostgres.SystemClock{},
			BatchSize: cfg.OutboxBatchSize,
			Logger:    logger,
		},
		relayEnabled: cfg.EnableOutboxRelay,
		auditEnabled: cfg.EnableEventAudit,
		pollInterval: cfg.OutboxPollInterval,
		logger:       logger,
	}, nil
}

func (a *APIApp) Run(_ context.Context) error {
	if a.logger != nil {
		a.logger.Info("api app started",
			"event", "bootstrap_api_started",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
	}
	return a.server.Start()
}

func (a *APIApp) Close() error {
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

func (w *WorkerApp) Run(ctx context.Context) error {
	if w.auditEnabled {
		if err := w.startEventAudit(ctx); err != nil {
			return err
		}
	}

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"poll_interval", w.pollInterval.String(),
		"outbox_relay_enabled", w.relayEnabled,
	)

	for {
		if w.relayEnabled {
			if err := w.outboxRelay.RunOnce(ctx); err != nil {
				return err
			}
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// startEventAudit mirrors every published avatar event into the structured
// log so operators can trace registry changes without a database query.
func (w *WorkerApp) startEventAudit(ctx context.Context) error {
	return w.bus.Subscribe(ctx, avatarevents.Topic, "avatar-event-audit-cg",
		func(_ context.Context, event contractsv1.Envelope) error {
			w.logger.Info("avatar event observed",
				"event", "avatar_event_audit",
				"module", "internal/app/bootstrap",
				"layer", "platform",
				"event_id", event.EventID,
				"event_type", event.EventType,
				"entity_id", event.EntityID,
			)
			return nil
		})
}

func (w *WorkerApp) Close() error {
	if w.postgres != nil {
		return w.postgres.Close()
	}
	return nil
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
