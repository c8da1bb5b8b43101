package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order is the immutable header of a completed sale. Rows are append-only;
// nothing mutates an order after the checkout transaction commits.
type Order struct {
	ID           int64           `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	CustomerName string          `gorm:"column:customer_name;not null" json:"customer_name"`
	OrderDate    time.Time       `gorm:"column:order_date;not null" json:"order_date"`
	TotalAmount  decimal.Decimal `gorm:"column:total_amount;type:numeric;not null" json:"total_amount"`
	Items        []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

// TableName overrides the GORM default.
func (Order) TableName() string {
	return "orders"
}
