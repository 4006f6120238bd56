package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category groups products for browsing.
type Category struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Name      string    `gorm:"column:name;uniqueIndex;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

// Product is a vendor-listed catalog entry.
type Product struct {
	ID            int64           `gorm:"column:id;primaryKey;autoIncrement"`
	VendorID      int64           `gorm:"column:vendor_id;index;not null"`
	CategoryID    *int64          `gorm:"column:category_id;index"`
	Title         string          `gorm:"column:title;not null"`
	Description   string          `gorm:"column:description"`
	RegularPrice  decimal.Decimal `gorm:"column:regular_price;type:numeric;not null"`
	OfferPrice    decimal.Decimal `gorm:"column:offer_price;type:numeric;not null"`
	StockQuantity int             `gorm:"column:stock_quantity;not null;default:0"`
	ImageURL      string          `gorm:"column:image_url"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
