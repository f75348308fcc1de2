package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/unimart/settlement/internal/server/http/dto"
)

const (
	webhookPaymentSucceeded = "payment_intent.succeeded"
	webhookPaymentFailed    = "payment_intent.payment_failed"
)

// SettlementHandler manages refunds, ledger reads and payment webhooks.
type SettlementHandler struct {
	facade SettlementFacade
}

// NewSettlementHandler constructs SettlementHandler.
func NewSettlementHandler(facade SettlementFacade) *SettlementHandler {
	return &SettlementHandler{facade: facade}
}

// Refund handles POST /api/orders/:id/refund.
func (h *SettlementHandler) Refund(c *gin.Context) {
	orderID, ok := orderIDParam(c)
	if !ok {
		return
	}

	var req dto.RefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	entry, err := h.facade.RequestRefund(c.Request.Context(), orderID, req.Amount)
	if err != nil {
		c.Status(statusFromError(err))
		return
	}
	c.JSON(http.StatusOK, toLedgerResponse(*entry))
}

// Ledger handles GET /api/orders/:id/ledger.
func (h *SettlementHandler) Ledger(c *gin.Context) {
	orderID, ok := orderIDParam(c)
	if !ok {
		return
	}

	entries, err := h.facade.OrderLedger(c.Request.Context(), orderID)
	if err != nil {
		c.Status(statusFromError(err))
		return
	}
	if len(entries) == 0 {
		c.Status(http.StatusNoContent)
		return
	}

	response := make([]dto.LedgerEntryResponse, 0, len(entries))
	for _, entry := range entries {
		response = append(response, toLedgerResponse(entry))
	}
	c.JSON(http.StatusOK, response)
}

// PaymentWebhook handles POST /api/webhooks/payment. Unknown event types are
// acknowledged without action so the gateway does not retry them.
func (h *SettlementHandler) PaymentWebhook(c *gin.Context) {
	var req dto.PaymentWebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}
	if req.OrderID <= 0 {
		c.Status(http.StatusBadRequest)
		return
	}

	switch req.Type {
	case webhookPaymentSucceeded:
		if req.ChargeRef == "" {
			c.Status(http.StatusBadRequest)
			return
		}
		if err := h.facade.RecordPaymentCaptured(c.Request.Context(), req.OrderID, req.ChargeRef); err != nil {
			c.Status(statusFromError(err))
			return
		}
	case webhookPaymentFailed:
		if err := h.facade.RecordPaymentFailed(c.Request.Context(), req.OrderID); err != nil {
			c.Status(statusFromError(err))
			return
		}
	}

	c.Status(http.StatusOK)
}
