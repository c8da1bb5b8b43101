package controllers

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/appakade/pos-backend/api/responses"
	"github.com/appakade/pos-backend/api/validators"
	checkoutsvc "github.com/appakade/pos-backend/internal/checkout"
	"github.com/appakade/pos-backend/pkg/logger"
)

type checkoutRequest struct {
	CustomerName string                `json:"customer_name" validate:"required"`
	Cart         []checkoutLineRequest `json:"cart" validate:"required,min=1,dive"`
}

type checkoutLineRequest struct {
	ItemID          int64           `json:"item_id" validate:"required,gt=0"`
	ItemName        string          `json:"item_name" validate:"required"`
	Price           decimal.Decimal `json:"price" validate:"required"`
	QuantityInStock int             `json:"quantity_in_stock" validate:"gte=0"`
	OrderQuantity   int             `json:"order_quantity" validate:"required,gt=0"`
}

type checkoutResponse struct {
	OrderID     int64           `json:"order_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	OrderDate   time.Time       `json:"order_date"`
}

// Checkout handles POST /api/v1/checkout: the atomic order commit.
func Checkout(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cart := make([]checkoutsvc.CartLine, 0, len(payload.Cart))
		for _, line := range payload.Cart {
			cart = append(cart, checkoutsvc.CartLine{
				ItemID:          line.ItemID,
				ItemName:        line.ItemName,
				Price:           line.Price,
				QuantityInStock: line.QuantityInStock,
				OrderQuantity:   line.OrderQuantity,
			})
		}

		result, err := svc.CommitOrder(r.Context(), payload.CustomerName, cart)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithOrderID(ctx, result.OrderID)
			logg.Info(ctx, "checkout.committed")
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, checkoutResponse{
			OrderID:     result.OrderID,
			TotalAmount: result.TotalAmount,
			OrderDate:   result.OrderDate,
		})
	}
}
