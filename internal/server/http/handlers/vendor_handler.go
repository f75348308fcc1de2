package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/unimart/settlement/internal/domain/model"
	"github.com/unimart/settlement/internal/server/http/dto"
)

// VendorHandler manages vendor settlement accounts and balances.
type VendorHandler struct {
	facade VendorFacade
}

// NewVendorHandler constructs VendorHandler.
func NewVendorHandler(facade VendorFacade) *VendorHandler {
	return &VendorHandler{facade: facade}
}

// Upsert handles PUT /api/vendors/:id.
func (h *VendorHandler) Upsert(c *gin.Context) {
	vendorID := strings.TrimSpace(c.Param("id"))
	if vendorID == "" {
		c.Status(http.StatusBadRequest)
		return
	}

	var req dto.VendorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	account, err := h.facade.UpsertVendor(c.Request.Context(), &model.VendorAccount{
		ID:                    vendorID,
		Tier:                  model.VendorTier(req.Tier),
		CommissionOverrideBps: req.CommissionOverrideBps,
		PayoutDestination:     req.PayoutDestination,
		PayoutVerified:        req.PayoutVerified,
	})
	if err != nil {
		c.Status(statusFromError(err))
		return
	}
	c.JSON(http.StatusOK, toVendorResponse(*account))
}

// Get handles GET /api/vendors/:id.
func (h *VendorHandler) Get(c *gin.Context) {
	vendorID := strings.TrimSpace(c.Param("id"))
	if vendorID == "" {
		c.Status(http.StatusBadRequest)
		return
	}

	account, err := h.facade.Vendor(c.Request.Context(), vendorID)
	if err != nil {
		c.Status(statusFromError(err))
		return
	}
	c.JSON(http.StatusOK, toVendorResponse(*account))
}

// Balance handles GET /api/vendors/:id/balance.
func (h *VendorHandler) Balance(c *gin.Context) {
	vendorID := strings.TrimSpace(c.Param("id"))
	if vendorID == "" {
		c.Status(http.StatusBadRequest)
		return
	}

	balance, err := h.facade.VendorBalance(c.Request.Context(), vendorID)
	if err != nil {
		c.Status(statusFromError(err))
		return
	}
	c.JSON(http.StatusOK, dto.VendorBalanceResponse{
		VendorID: balance.VendorID,
		Paid:     balance.Paid,
		Pending:  balance.Pending,
	})
}

func toVendorResponse(account model.VendorAccount) dto.VendorResponse {
	return dto.VendorResponse{
		ID:                    account.ID,
		Tier:                  string(account.Tier),
		CommissionOverrideBps: account.CommissionOverrideBps,
		PayoutDestination:     account.PayoutDestination,
		PayoutVerified:        account.PayoutVerified,
		CreatedAt:             account.CreatedAt,
		UpdatedAt:             account.UpdatedAt,
	}
}
