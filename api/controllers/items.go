package controllers

import (
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/appakade/pos-backend/api/responses"
	"github.com/appakade/pos-backend/api/validators"
	itemsvc "github.com/appakade/pos-backend/internal/items"
	"github.com/appakade/pos-backend/pkg/db/models"
	"github.com/appakade/pos-backend/pkg/enums"
	pkgerrors "github.com/appakade/pos-backend/pkg/errors"
	"github.com/appakade/pos-backend/pkg/logger"
)

type itemRequest struct {
	Name              string          `json:"name" validate:"required"`
	Category          string          `json:"category" validate:"required"`
	Price             decimal.Decimal `json:"price" validate:"required"`
	QuantityInStock   int             `json:"quantity_in_stock" validate:"gte=0"`
	LowStockThreshold *int            `json:"low_stock_threshold,omitempty" validate:"omitempty,gte=0"`
}

type itemResponse struct {
	ID                int64           `json:"id"`
	Name              string          `json:"name"`
	Category          string          `json:"category"`
	Price             decimal.Decimal `json:"price"`
	QuantityInStock   int             `json:"quantity_in_stock"`
	LowStockThreshold int             `json:"low_stock_threshold"`
	LowOnStock        bool            `json:"low_on_stock"`
}

func toItemResponse(item *models.Item) itemResponse {
	return itemResponse{
		ID:                item.ID,
		Name:              item.Name,
		Category:          item.Category.String(),
		Price:             item.Price,
		QuantityInStock:   item.QuantityInStock,
		LowStockThreshold: item.LowStockThreshold,
		LowOnStock:        item.LowOnStock(),
	}
}

func toItemResponses(items []models.Item) []itemResponse {
	out := make([]itemResponse, 0, len(items))
	for i := range items {
		out = append(out, toItemResponse(&items[i]))
	}
	return out
}

func (r itemRequest) category() (enums.ItemCategory, error) {
	category, err := enums.ParseItemCategory(strings.TrimSpace(r.Category))
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category").
			WithDetails(map[string]any{"category": r.Category, "known": enums.ItemCategories()})
	}
	return category, nil
}

// CreateItem handles POST /api/v1/items.
func CreateItem(svc itemsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload itemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		category, err := payload.category()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.Create(r.Context(), itemsvc.CreateItemInput{
			Name:              payload.Name,
			Category:          category,
			Price:             payload.Price,
			QuantityInStock:   payload.QuantityInStock,
			LowStockThreshold: payload.LowStockThreshold,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, toItemResponse(item))
	}
}

// ListItems handles GET /api/v1/items with optional search and in_stock filters.
func ListItems(svc itemsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		inStockOnly, err := validators.ParseQueryBool(r, "in_stock")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, err := svc.List(r.Context(), itemsvc.ListFilter{
			Search:      strings.TrimSpace(r.URL.Query().Get("search")),
			InStockOnly: inStockOnly,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, toItemResponses(items))
	}
}

// ListLowStockItems handles GET /api/v1/items/low-stock.
func ListLowStockItems(svc itemsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListLowStock(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toItemResponses(items))
	}
}

// GetItem handles GET /api/v1/items/{itemID}.
func GetItem(svc itemsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseIDParam(r, "itemID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.GetByID(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toItemResponse(item))
	}
}

// UpdateItem handles PUT /api/v1/items/{itemID}.
func UpdateItem(svc itemsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseIDParam(r, "itemID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload itemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		category, err := payload.category()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.Update(r.Context(), itemsvc.UpdateItemInput{
			ID:                id,
			Name:              payload.Name,
			Category:          category,
			Price:             payload.Price,
			QuantityInStock:   payload.QuantityInStock,
			LowStockThreshold: payload.LowStockThreshold,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toItemResponse(item))
	}
}

// DeleteItem handles DELETE /api/v1/items/{itemID}. Items referenced by
// order history are refused with a conflict so the sales record stays intact.
func DeleteItem(svc itemsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseIDParam(r, "itemID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		affected, err := svc.Delete(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if affected == 0 {
			responses.WriteSuccess(w, map[string]any{"deleted": false, "reason": "item referenced by order history"})
			return
		}
		responses.WriteSuccess(w, map[string]any{"deleted": true})
	}
}
