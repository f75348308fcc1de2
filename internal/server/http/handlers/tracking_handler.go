package handlers

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/unimart/settlement/internal/domain/model"
	"github.com/unimart/settlement/internal/server/http/dto"
)

// TrackingHandler manages tracking attachment, status reads and carrier
// webhooks.
type TrackingHandler struct {
	facade TrackingFacade
}

// NewTrackingHandler constructs TrackingHandler.
func NewTrackingHandler(facade TrackingFacade) *TrackingHandler {
	return &TrackingHandler{facade: facade}
}

// Update handles PUT /api/orders/:id/tracking.
func (h *TrackingHandler) Update(c *gin.Context) {
	orderID, ok := orderIDParam(c)
	if !ok {
		return
	}

	var req dto.UpdateTrackingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}
	carrier := model.Carrier(strings.TrimSpace(req.Carrier))
	number := strings.TrimSpace(req.TrackingNumber)
	if carrier == "" || number == "" {
		c.Status(http.StatusBadRequest)
		return
	}

	order, err := h.facade.UpdateTracking(c.Request.Context(), orderID, carrier, number)
	if err != nil {
		c.Status(statusFromError(err))
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(*order, nil))
}

// Status handles GET /api/orders/:id/tracking.
func (h *TrackingHandler) Status(c *gin.Context) {
	orderID, ok := orderIDParam(c)
	if !ok {
		return
	}

	snapshot, err := h.facade.TrackingStatus(c.Request.Context(), orderID)
	if err != nil {
		c.Status(statusFromError(err))
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

// CarrierWebhook handles POST /api/webhooks/carrier/:carrier. The body is the
// carrier's native payload and is handed to that carrier's normalizer as-is.
func (h *TrackingHandler) CarrierWebhook(c *gin.Context) {
	carrier := model.Carrier(strings.TrimSpace(c.Param("carrier")))
	if carrier == "" {
		c.Status(http.StatusBadRequest)
		return
	}
	orderID, err := orderIDQuery(c)
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	raw, err := io.ReadAll(c.Request.Body)
	if err != nil || len(raw) == 0 {
		c.Status(http.StatusBadRequest)
		return
	}

	if err := h.facade.ApplyCarrierWebhook(c.Request.Context(), orderID, carrier, raw); err != nil {
		c.Status(statusFromError(err))
		return
	}
	c.Status(http.StatusOK)
}
