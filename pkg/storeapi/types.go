package storeapi

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/dokanapp/storefront-go/pkg/enums"
)

// CartItem is the server's view of one cart row. CartID addresses the row
// in mutations; the rest is a product snapshot for display and totals.
type CartItem struct {
	CartID      int64           `json:"cart_id"`
	ProductID   int64           `json:"product_id"`
	ProductName string          `json:"product_name"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
}

// Product is a read-only catalog entry.
type Product struct {
	ID            int64           `json:"id"`
	VendorID      int64           `json:"vendor_id"`
	CategoryID    *int64          `json:"category_id"`
	Title         string          `json:"title"`
	Description   string          `json:"description,omitempty"`
	RegularPrice  decimal.Decimal `json:"regular_price"`
	OfferPrice    decimal.Decimal `json:"offer_price"`
	StockQuantity int             `json:"stock_quantity"`
	ImageURL      string          `json:"image_url,omitempty"`
}

// Category is a read-only catalog grouping.
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// OrderItem is one snapshotted line inside an order.
type OrderItem struct {
	ProductID   int64           `json:"product_id"`
	CategoryID  *int64          `json:"category_id"`
	ProductName string          `json:"product_name"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
}

// Order is the vendor-visible record of a completed checkout.
type Order struct {
	ID          int64             `json:"id"`
	UserID      int64             `json:"user_id"`
	Username    string            `json:"username,omitempty"`
	TotalAmount decimal.Decimal   `json:"total_amount"`
	Address     string            `json:"address"`
	Phone       string            `json:"phone"`
	Email       string            `json:"email"`
	Status      enums.OrderStatus `json:"status"`
	CreatedAt   time.Time         `json:"created_at"`
	Items       []OrderItem       `json:"items,omitempty"`
}

// CheckoutRequest is the payload submitted when a cart converts to an order.
type CheckoutRequest struct {
	UserID  int64  `json:"user_id"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
}

// Credentials is what a successful login or registration returns.
type Credentials struct {
	Token    string     `json:"token"`
	UserID   int64      `json:"user_id"`
	Username string     `json:"username"`
	Role     enums.Role `json:"role"`
	Email    string     `json:"email,omitempty"`
	Phone    string     `json:"phone,omitempty"`
	ShopName string     `json:"shop_name,omitempty"`
}
