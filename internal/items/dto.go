package items

import (
	"github.com/shopspring/decimal"

	"github.com/appakade/pos-backend/pkg/enums"
)

// CreateItemInput carries a new catalog entry; the store assigns the id.
type CreateItemInput struct {
	Name              string
	Category          enums.ItemCategory
	Price             decimal.Decimal
	QuantityInStock   int
	LowStockThreshold *int
}

// UpdateItemInput replaces the mutable fields of an existing item.
type UpdateItemInput struct {
	ID                int64
	Name              string
	Category          enums.ItemCategory
	Price             decimal.Decimal
	QuantityInStock   int
	LowStockThreshold *int
}
