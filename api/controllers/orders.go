package controllers

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/appakade/pos-backend/api/responses"
	"github.com/appakade/pos-backend/api/validators"
	ordersvc "github.com/appakade/pos-backend/internal/orders"
	"github.com/appakade/pos-backend/pkg/db/models"
	"github.com/appakade/pos-backend/pkg/logger"
)

type orderResponse struct {
	ID           int64           `json:"id"`
	CustomerName string          `json:"customer_name"`
	OrderDate    time.Time       `json:"order_date"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
}

type orderLineResponse struct {
	ID              int64           `json:"id"`
	OrderID         int64           `json:"order_id"`
	ItemID          int64           `json:"item_id"`
	ItemName        string          `json:"item_name"`
	Quantity        int             `json:"quantity"`
	PriceAtPurchase decimal.Decimal `json:"price_at_purchase"`
}

func toOrderResponses(orders []models.Order) []orderResponse {
	out := make([]orderResponse, 0, len(orders))
	for _, order := range orders {
		out = append(out, orderResponse{
			ID:           order.ID,
			CustomerName: order.CustomerName,
			OrderDate:    order.OrderDate,
			TotalAmount:  order.TotalAmount,
		})
	}
	return out
}

func toOrderLineResponses(lines []models.OrderItem) []orderLineResponse {
	out := make([]orderLineResponse, 0, len(lines))
	for _, line := range lines {
		out = append(out, orderLineResponse{
			ID:              line.ID,
			OrderID:         line.OrderID,
			ItemID:          line.ItemID,
			ItemName:        line.ItemName,
			Quantity:        line.Quantity,
			PriceAtPurchase: line.PriceAtPurchase,
		})
	}
	return out
}

// ListOrders handles GET /api/v1/orders, newest first.
func ListOrders(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orders, err := svc.ListAll(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toOrderResponses(orders))
	}
}

// ListOrderItems handles GET /api/v1/orders/{orderID}/items.
func ListOrderItems(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := validators.ParseIDParam(r, "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		lines, err := svc.LinesForOrder(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toOrderLineResponses(lines))
	}
}
