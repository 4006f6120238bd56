package models

import "time"

// CartItem is one not-yet-ordered product selection in a buyer's cart.
// The row id is the cart_id the client addresses mutations by.
type CartItem struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement"`
	UserID    int64     `gorm:"column:user_id;index;not null"`
	ProductID int64     `gorm:"column:product_id;index;not null"`
	Quantity  int       `gorm:"column:quantity;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
