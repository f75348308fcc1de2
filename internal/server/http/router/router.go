package router

import (
	"log/slog"
	"net/http"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/unimart/settlement/internal/server/http/handlers"
	"github.com/unimart/settlement/internal/server/http/middleware"
)

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.EngineFacade, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.DecompressRequest())
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	orderHandler := handlers.NewOrderHandler(facade)
	settlementHandler := handlers.NewSettlementHandler(facade)
	trackingHandler := handlers.NewTrackingHandler(facade)
	vendorHandler := handlers.NewVendorHandler(facade)

	api := engine.Group("/api")

	orders := api.Group("/orders")
	orders.POST("", orderHandler.Submit)
	orders.GET("/:id", orderHandler.Get)
	orders.GET("/:id/ledger", settlementHandler.Ledger)
	orders.POST("/:id/packed", orderHandler.MarkPacked)
	orders.POST("/:id/delivered", orderHandler.MarkDelivered)
	orders.POST("/:id/refund", settlementHandler.Refund)
	orders.PUT("/:id/tracking", trackingHandler.Update)
	orders.GET("/:id/tracking", trackingHandler.Status)

	api.GET("/customers/:id/orders", orderHandler.ByCustomer)

	vendors := api.Group("/vendors")
	vendors.PUT("/:id", vendorHandler.Upsert)
	vendors.GET("/:id", vendorHandler.Get)
	vendors.GET("/:id/balance", vendorHandler.Balance)

	webhooks := api.Group("/webhooks")
	webhooks.POST("/payment", settlementHandler.PaymentWebhook)
	webhooks.POST("/carrier/:carrier", trackingHandler.CarrierWebhook)

	api.GET("/health", func(c *gin.Context) {
		if err := facade.Health(c.Request.Context()); err != nil {
			c.Status(http.StatusServiceUnavailable)
			return
		}
		c.Status(http.StatusOK)
	})

	return engine
}
