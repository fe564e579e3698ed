package electionengine

import (
	"log/slog"

	httpadapter "madison/contexts/election-commission/election-engine/adapters/http"
	"madison/contexts/election-commission/election-engine/adapters/memory"
	application "madison/contexts/election-commission/election-engine/application"
	"madison/contexts/election-commission/election-engine/application/commands"
	"madison/contexts/election-commission/election-engine/application/queries"
	"madison/contexts/election-commission/election-engine/application/workers"
	"madison/contexts/election-commission/election-engine/ports"
)

type Module struct {
	Handler   httpadapter.Handler
	Refresher workers.ReportRefresher
	Store     *memory.Store
	Reports   *memory.ReportPublisher
}

type Dependencies struct {
	Elections      ports.ElectionRepository
	Candidates     ports.CandidateRepository
	Ballots        ports.BallotRepository
	Certifications ports.CertificationRepository
	Outbox         ports.OutboxWriter
	Reports        ports.ReportPublisher
	Clock          ports.Clock
	IDGen          ports.IDGenerator
	Config         application.Config
	Logger         *slog.Logger
}

func NewModule(deps Dependencies) Module {
	cfg := deps.Config.Normalized()
	electionUseCase := commands.ElectionUseCase{
		Elections:      deps.Elections,
		Candidates:     deps.Candidates,
		Ballots:        deps.Ballots,
		Certifications: deps.Certifications,
		Outbox:         deps.Outbox,
		Clock:          deps.Clock,
		IDGen:          deps.IDGen,
		Logger:         deps.Logger,
	}
	candidateUseCase := commands.CandidateUseCase{
		Elections:  deps.Elections,
		Candidates: deps.Candidates,
		Clock:      deps.Clock,
		IDGen:      deps.IDGen,
		Config:     cfg,
		Logger:     deps.Logger,
	}
	ballotUseCase := commands.BallotUseCase{
		Elections:  deps.Elections,
		Candidates: deps.Candidates,
		Ballots:    deps.Ballots,
		Outbox:     deps.Outbox,
		Clock:      deps.Clock,
		IDGen:      deps.IDGen,
		Config:     cfg,
		Logger:     deps.Logger,
	}
	resultsUseCase := queries.ResultsUseCase{
		Elections:      deps.Elections,
		Candidates:     deps.Candidates,
		Ballots:        deps.Ballots,
		Certifications: deps.Certifications,
	}
	queueUseCase := queries.ReviewQueueUseCase{
		Ballots: deps.Ballots,
	}
	return Module{
		Handler: httpadapter.Handler{
			Elections:  electionUseCase,
			Candidates: candidateUseCase,
			Ballots:    ballotUseCase,
			Results:    resultsUseCase,
			Queue:      queueUseCase,
			Logger:     deps.Logger,
		},
		Refresher: workers.ReportRefresher{
			Elections: deps.Elections,
			Results:   resultsUseCase,
			Publisher: deps.Reports,
			Clock:     deps.Clock,
			Interval:  cfg.ReportRefreshInterval,
			Logger:    deps.Logger,
		},
	}
}

// NewInMemoryModule wires the engine against the in-memory store for tests
// and local development.
func NewInMemoryModule(cfg application.Config, logger *slog.Logger) Module {
	store := memory.NewStore()
	reports := memory.NewReportPublisher()
	module := NewModule(Dependencies{
		Elections:      store,
		Candidates:     store,
		Ballots:        store,
		Certifications: store,
		Outbox:         store,
		Reports:        reports,
		Clock:          store,
		IDGen:          store,
		Config:         cfg,
		Logger:         logger,
	})
	module.Store = store
	module.Reports = reports
	return module
}
