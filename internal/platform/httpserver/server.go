package httpserver

import (
	"encoding/json"
	"log/slog"
	"net/http"

	reputation "aegis/contexts/asset-ledgers/reputation-ledger"
	rental "aegis/contexts/asset-ledgers/rental-ledger"
	voting "aegis/contexts/asset-ledgers/voting-ledger"
	avatar "aegis/contexts/delegation-core/avatar-service"
	_ "aegis/internal/platform/httpserver/docs"

	httpSwagger "github.com/swaggo/http-swagger"
)

type Server struct {
	mux        *http.ServeMux
	logger     *slog.Logger
	addr       string
	avatar     avatar.Module
	reputation reputation.Module
	rental     rental.Module
	voting     voting.Module
}

func New(
	avatarModule avatar.Module,
	reputationModule reputation.Module,
	rentalModule rental.Module,
	votingModule voting.Module,
	logger *slog.Logger,
	addr string,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:        http.NewServeMux(),
		logger:     logger,
		addr:       addr,
		avatar:     avatarModule,
		reputation: reputationModule,
		rental:     rentalModule,
		voting:     votingModule,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

// Handler exposes the mux for in-process tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.mux.HandleFunc("POST /api/avatars", s.handleCreateAvatar)
	s.mux.HandleFunc("POST /api/avatars/{avatar_id}/modules/enable", s.handleEnableModule)
	s.mux.HandleFunc("POST /api/avatars/{avatar_id}/modules/disable", s.handleDisableModule)
	s.mux.HandleFunc("POST /api/avatars/{avatar_id}/guard", s.handleSetGuard)
	s.mux.HandleFunc("GET /api/avatars/{avatar_id}/guard", s.handleGetGuard)
	s.mux.HandleFunc("GET /api/avatars/{avatar_id}/modules", s.handleListModules)
	s.mux.HandleFunc("GET /api/avatars/{avatar_id}/modules/{handle}", s.handleModuleStatus)
	s.mux.HandleFunc("POST /api/avatars/{avatar_id}/exec", s.handleExecute)
	s.mux.HandleFunc("POST /api/avatars/{avatar_id}/exec-return", s.handleExecuteReturningData)

	s.mux.HandleFunc("GET /api/reputation/holders/{holder}/balance", s.handleReputationBalance)
	s.mux.HandleFunc("GET /api/reputation/supply", s.handleReputationSupply)
	s.mux.HandleFunc("POST /api/reputation/transfer", s.handleReputationTransfer)
	s.mux.HandleFunc("POST /api/reputation/credit", s.handleReputationCredit)

	s.mux.HandleFunc("POST /api/rental/grants", s.handleRentalSetUser)
	s.mux.HandleFunc("GET /api/rental/users/{user}/balance", s.handleRentalUserBalance)
	s.mux.HandleFunc("GET /api/rental/owners/{owner}/frozen", s.handleRentalFrozen)
	s.mux.HandleFunc("GET /api/rental/users/{user}/owners/{owner}/balance", s.handleRentalPairBalance)

	s.mux.HandleFunc("POST /api/voting/proposals", s.handleVotingCreateProposal)
	s.mux.HandleFunc("POST /api/voting/votes", s.handleVotingVote)
	s.mux.HandleFunc("GET /api/voting/proposals/{proposal_id}/top", s.handleVotingTopOptions)
	s.mux.HandleFunc("GET /api/voting/proposals/{proposal_id}/votes/{voter}", s.handleVotingVoteOf)
	s.mux.HandleFunc("POST /api/voting/proposals/{proposal_id}/status", s.handleVotingSetStatus)
	s.mux.HandleFunc("GET /api/voting/proposals/{proposal_id}/status", s.handleVotingGetStatus)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
