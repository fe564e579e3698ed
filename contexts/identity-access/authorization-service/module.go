package authorization

import (
	"log/slog"

	httpadapter "madison/contexts/identity-access/authorization-service/adapters/http"
	"madison/contexts/identity-access/authorization-service/adapters/memory"
	"madison/contexts/identity-access/authorization-service/application/commands"
	"madison/contexts/identity-access/authorization-service/application/queries"
	"madison/contexts/identity-access/authorization-service/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Check   queries.CheckUseCase
	Store   *memory.Store
}

type Dependencies struct {
	Grants ports.GrantRepository
	Clock  ports.Clock
	IDGen  ports.IDGenerator
	Logger *slog.Logger
}

func NewModule(deps Dependencies) Module {
	grantUseCase := commands.GrantUseCase{
		Grants: deps.Grants,
		Clock:  deps.Clock,
		IDGen:  deps.IDGen,
		Logger: deps.Logger,
	}
	checkUseCase := queries.CheckUseCase{Grants: deps.Grants}
	return Module{
		Handler: httpadapter.Handler{
			Grants: grantUseCase,
			Check:  checkUseCase,
			Logger: deps.Logger,
		},
		Check: checkUseCase,
	}
}

// NewInMemoryModule wires the resolver against the in-memory store for tests
// and local development.
func NewInMemoryModule(logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Grants: store,
		Clock:  store,
		IDGen:  store,
		Logger: logger,
	})
	module.Store = store
	return module
}
