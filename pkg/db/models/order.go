package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/dokanapp/storefront-go/pkg/enums"
)

// Order is the persisted result of a checkout. Line items are snapshots
// of the cart at submission time; later product edits do not touch them.
type Order struct {
	ID          int64             `gorm:"column:id;primaryKey;autoIncrement"`
	UserID      int64             `gorm:"column:user_id;index;not null"`
	TotalAmount decimal.Decimal   `gorm:"column:total_amount;type:numeric;not null"`
	Address     string            `gorm:"column:address;not null"`
	Phone       string            `gorm:"column:phone;not null"`
	Email       string            `gorm:"column:email;not null"`
	Status      enums.OrderStatus `gorm:"column:status;index;not null;default:'pending'"`
	CreatedAt   time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time         `gorm:"column:updated_at;autoUpdateTime"`

	Items []OrderItem `gorm:"foreignKey:OrderID"`
}

// OrderItem is one snapshotted cart line inside an order.
type OrderItem struct {
	ID          int64           `gorm:"column:id;primaryKey;autoIncrement"`
	OrderID     int64           `gorm:"column:order_id;index;not null"`
	ProductID   int64           `gorm:"column:product_id;not null"`
	CategoryID  *int64          `gorm:"column:category_id"`
	ProductName string          `gorm:"column:product_name;not null"`
	UnitPrice   decimal.Decimal `gorm:"column:unit_price;type:numeric;not null"`
	Quantity    int             `gorm:"column:quantity;not null"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
}
