package gateway

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/unimart/settlement/internal/config"
)

// Module exposes the Stripe gateway implementation to the fx graph.
var Module = fx.Provide(newGateway)

type gatewayParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newGateway(p gatewayParams) (*StripeGateway, error) {
	return NewStripeGateway(p.Config.StripeAPIKey, p.Config.GatewayTimeout, p.Logger)
}
