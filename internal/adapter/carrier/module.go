package carrier

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/unimart/settlement/internal/config"
)

// Module exposes the carrier tracking service to the fx graph.
var Module = fx.Options(
	fx.Provide(NewRegistry),
	fx.Provide(newFetcher),
	fx.Provide(newService),
)

type fetcherParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newFetcher(p fetcherParams) (Fetcher, error) {
	return NewHTTPClient(p.Config.CarrierAPIAddress, p.Config.CarrierTimeout, p.Logger)
}

func newService(fetcher Fetcher, registry *Registry, logger *slog.Logger) *Service {
	return NewService(fetcher, registry, logger)
}
