package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/unimart/settlement/internal/domain/errors"
	"github.com/unimart/settlement/internal/domain/model"
	"github.com/unimart/settlement/internal/server/http/dto"
)

// orderIDParam parses the :id path parameter; responds 400 and returns false
// on garbage.
func orderIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.Status(http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// orderIDQuery parses the order_id query parameter used by carrier webhooks.
func orderIDQuery(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Query("order_id"), 10, 64)
	if err != nil {
		return 0, err
	}
	if id <= 0 {
		return 0, strconv.ErrRange
	}
	return id, nil
}

// statusFromError maps domain errors onto HTTP status codes.
func statusFromError(err error) int {
	switch {
	case errors.Is(err, domainErrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domainErrors.ErrAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, domainErrors.ErrOrderTerminal):
		return http.StatusConflict
	case errors.Is(err, domainErrors.ErrInvalidAmount),
		errors.Is(err, domainErrors.ErrInvalidLineItems):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domainErrors.ErrRefundRejected):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func toOrderResponse(order model.Order, items []model.OrderLineItem) dto.OrderResponse {
	resp := dto.OrderResponse{
		ID:                   order.ID,
		CustomerID:           order.CustomerID,
		Status:               string(order.Status),
		TotalAmount:          order.TotalAmount,
		Currency:             order.Currency,
		PaymentMethod:        order.PaymentMethod,
		TrackingNumber:       order.TrackingNumber,
		EstimatedDeliveryAt:  order.EstimatedDeliveryAt,
		ActualDeliveryAt:     order.ActualDeliveryAt,
		LastTrackingUpdateAt: order.LastTrackingUpdateAt,
		DeliveryNotes:        order.DeliveryNotes,
		CreatedAt:            order.CreatedAt,
		Shipping: dto.ShippingAddress{
			Name:     order.Shipping.Name,
			Line1:    order.Shipping.Line1,
			Line2:    order.Shipping.Line2,
			City:     order.Shipping.City,
			Postcode: order.Shipping.Postcode,
			Country:  order.Shipping.Country,
		},
	}
	if order.Carrier != nil {
		carrier := string(*order.Carrier)
		resp.Carrier = &carrier
	}
	for _, item := range items {
		resp.Items = append(resp.Items, dto.LineItemResponse{
			ProductID: item.ProductID,
			VendorID:  item.VendorID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Subtotal:  item.Subtotal,
		})
	}
	return resp
}

func toLedgerResponse(entry model.LedgerEntry) dto.LedgerEntryResponse {
	return dto.LedgerEntryResponse{
		ID:          entry.ID.String(),
		OrderID:     entry.OrderID,
		VendorID:    entry.VendorID,
		Kind:        string(entry.Kind),
		Amount:      entry.Amount,
		Currency:    entry.Currency,
		State:       string(entry.State),
		ExternalRef: entry.ExternalRef,
		CreatedAt:   entry.CreatedAt,
	}
}
