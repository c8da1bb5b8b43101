package models

import (
	"github.com/shopspring/decimal"

	"github.com/appakade/pos-backend/pkg/enums"
)

// DefaultLowStockThreshold applies when an item is created without one.
const DefaultLowStockThreshold = 5

// Item is a sellable catalog entry. QuantityInStock is the single source of
// truth for availability; only the checkout engine decrements it.
type Item struct {
	ID                int64              `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name              string             `gorm:"column:name;not null;uniqueIndex" json:"name"`
	Category          enums.ItemCategory `gorm:"column:category;type:text;not null" json:"category"`
	Price             decimal.Decimal    `gorm:"column:price;type:numeric;not null" json:"price"`
	QuantityInStock   int                `gorm:"column:quantity_in_stock;not null" json:"quantity_in_stock"`
	LowStockThreshold int                `gorm:"column:low_stock_threshold;not null;default:5" json:"low_stock_threshold"`
}

// TableName overrides the GORM default.
func (Item) TableName() string {
	return "items"
}

// LowOnStock reports whether the item sits at or below its threshold.
func (i Item) LowOnStock() bool {
	return i.QuantityInStock <= i.LowStockThreshold
}
