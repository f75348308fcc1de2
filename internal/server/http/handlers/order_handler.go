package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/unimart/settlement/internal/domain/model"
	"github.com/unimart/settlement/internal/server/http/dto"
)

// OrderHandler manages order intake and manual lifecycle endpoints.
type OrderHandler struct {
	facade OrderFacade
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(facade OrderFacade) *OrderHandler {
	return &OrderHandler{facade: facade}
}

// Submit handles POST /api/orders.
func (h *OrderHandler) Submit(c *gin.Context) {
	var req dto.SubmitOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	in := model.OrderSubmission{
		CustomerID:    req.CustomerID,
		Currency:      req.Currency,
		PaymentMethod: req.PaymentMethod,
		Shipping: model.ShippingAddress{
			Name:     req.Shipping.Name,
			Line1:    req.Shipping.Line1,
			Line2:    req.Shipping.Line2,
			City:     req.Shipping.City,
			Postcode: req.Shipping.Postcode,
			Country:  req.Shipping.Country,
		},
	}
	for _, item := range req.Items {
		in.Items = append(in.Items, model.SubmissionLine{
			ProductID: item.ProductID,
			VendorID:  item.VendorID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}

	order, items, clientSecret, err := h.facade.SubmitOrder(c.Request.Context(), in)
	if err != nil {
		c.Status(statusFromError(err))
		return
	}

	c.JSON(http.StatusCreated, dto.SubmitOrderResponse{
		Order:        toOrderResponse(*order, items),
		ClientSecret: clientSecret,
	})
}

// Get handles GET /api/orders/:id.
func (h *OrderHandler) Get(c *gin.Context) {
	orderID, ok := orderIDParam(c)
	if !ok {
		return
	}

	order, items, err := h.facade.Order(c.Request.Context(), orderID)
	if err != nil {
		c.Status(statusFromError(err))
		return
	}

	c.JSON(http.StatusOK, toOrderResponse(*order, items))
}

// ByCustomer handles GET /api/customers/:id/orders.
func (h *OrderHandler) ByCustomer(c *gin.Context) {
	customerID := strings.TrimSpace(c.Param("id"))
	if customerID == "" {
		c.Status(http.StatusBadRequest)
		return
	}

	orders, err := h.facade.OrdersByCustomer(c.Request.Context(), customerID)
	if err != nil {
		c.Status(statusFromError(err))
		return
	}
	if len(orders) == 0 {
		c.Status(http.StatusNoContent)
		return
	}

	response := make([]dto.OrderResponse, 0, len(orders))
	for _, order := range orders {
		response = append(response, toOrderResponse(order, nil))
	}
	c.JSON(http.StatusOK, response)
}

// MarkPacked handles POST /api/orders/:id/packed.
func (h *OrderHandler) MarkPacked(c *gin.Context) {
	orderID, ok := orderIDParam(c)
	if !ok {
		return
	}

	order, err := h.facade.MarkPacked(c.Request.Context(), orderID)
	if err != nil {
		c.Status(statusFromError(err))
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(*order, nil))
}

// MarkDelivered handles POST /api/orders/:id/delivered.
func (h *OrderHandler) MarkDelivered(c *gin.Context) {
	orderID, ok := orderIDParam(c)
	if !ok {
		return
	}

	order, err := h.facade.MarkDelivered(c.Request.Context(), orderID)
	if err != nil {
		c.Status(statusFromError(err))
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(*order, nil))
}
