package models

import "github.com/shopspring/decimal"

// OrderItem snapshots one cart line as committed. ItemName and PriceAtPurchase
// are denormalized so later edits to the catalog never rewrite history.
type OrderItem struct {
	ID              int64           `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	OrderID         int64           `gorm:"column:order_id;not null" json:"order_id"`
	ItemID          int64           `gorm:"column:item_id;not null" json:"item_id"`
	ItemName        string          `gorm:"column:item_name;not null" json:"item_name"`
	Quantity        int             `gorm:"column:quantity;not null" json:"quantity"`
	PriceAtPurchase decimal.Decimal `gorm:"column:price_at_purchase;type:numeric;not null" json:"price_at_purchase"`
}

// TableName overrides the GORM default.
func (OrderItem) TableName() string {
	return "order_items"
}
