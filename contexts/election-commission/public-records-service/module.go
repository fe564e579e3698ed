package publicrecords

import (
	"log/slog"

	httpadapter "madison/contexts/election-commission/public-records-service/adapters/http"
	"madison/contexts/election-commission/public-records-service/adapters/memory"
	"madison/contexts/election-commission/public-records-service/application/commands"
	"madison/contexts/election-commission/public-records-service/application/queries"
	"madison/contexts/election-commission/public-records-service/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
}

type Dependencies struct {
	Announcements    ports.AnnouncementRepository
	Audit            ports.AuditSink
	Clock            ports.Clock
	IDGen            ports.IDGenerator
	ApprovedChannels map[string]struct{}
	Logger           *slog.Logger
}

func NewModule(deps Dependencies) Module {
	announceUseCase := commands.AnnounceUseCase{
		Announcements:    deps.Announcements,
		Audit:            deps.Audit,
		Clock:            deps.Clock,
		IDGen:            deps.IDGen,
		ApprovedChannels: deps.ApprovedChannels,
		Logger:           deps.Logger,
	}
	listUseCase := queries.AnnouncementsUseCase{
		Announcements: deps.Announcements,
		Logger:        deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{
			Announce:      announceUseCase,
			Announcements: listUseCase,
			Logger:        deps.Logger,
		},
	}
}

// NewInMemoryModule wires the service against the in-memory store for tests
// and local development.
func NewInMemoryModule(logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Announcements: store,
		Audit:         store,
		Clock:         store,
		IDGen:         store,
		Logger:        logger,
	})
	module.Store = store
	return module
}
