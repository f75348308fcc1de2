package di

import (
	"go.uber.org/fx"

	"github.com/unimart/settlement/internal/adapter/carrier"
	"github.com/unimart/settlement/internal/adapter/gateway"
	"github.com/unimart/settlement/internal/app"
	"github.com/unimart/settlement/internal/config"
	"github.com/unimart/settlement/internal/logger"
	"github.com/unimart/settlement/internal/server/http/handlers"
	"github.com/unimart/settlement/internal/server/http/router"
	"github.com/unimart/settlement/internal/storage/postgres"
	"github.com/unimart/settlement/internal/usecase"
	"github.com/unimart/settlement/internal/worker"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		postgres.Module,
		gateway.Module,
		carrier.Module,
		usecase.Module,
		fx.Provide(
			func(g *gateway.StripeGateway) usecase.PaymentGateway { return g },
			func(s *carrier.Service) usecase.TrackingProvider { return s },
			func(s *postgres.Storage) app.HealthChecker { return s },
			func(f *app.EngineFacade) handlers.EngineFacade { return f },
			func(f *app.EngineFacade) worker.TrackingFacade { return f },
		),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
