package controllers

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/dokanapp/storefront-go/pkg/db"
	"github.com/dokanapp/storefront-go/pkg/db/models"
	"github.com/dokanapp/storefront-go/pkg/enums"
	pkgerrors "github.com/dokanapp/storefront-go/pkg/errors"
)

// Repo is the dev server's data access layer over gorm.
type Repo struct {
	client *db.Client
	db     *gorm.DB
}

func NewRepo(client *db.Client) (*Repo, error) {
	if client == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &Repo{client: client, db: client.DB()}, nil
}

// cartRow is the joined shape the cart endpoints return.
type cartRow struct {
	CartID      int64           `json:"cart_id" gorm:"column:cart_id"`
	ProductID   int64           `json:"product_id" gorm:"column:product_id"`
	ProductName string          `json:"product_name" gorm:"column:product_name"`
	Price       decimal.Decimal `json:"price" gorm:"column:price"`
	Quantity    int             `json:"quantity" gorm:"column:quantity"`
}

func (r *Repo) CartRows(ctx context.Context, userID int64) ([]cartRow, error) {
	rows := []cartRow{}
	err := r.db.WithContext(ctx).
		Table("cart_items").
		Select("cart_items.id AS cart_id, cart_items.product_id, products.title AS product_name, products.offer_price AS price, cart_items.quantity").
		Joins("JOIN products ON products.id = cart_items.product_id").
		Where("cart_items.user_id = ?", userID).
		Order("cart_items.id").
		Scan(&rows).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	return rows, nil
}

// AddCartItem creates a cart row, or bumps the quantity when the product
// is already in the cart.
func (r *Repo) AddCartItem(ctx context.Context, userID, productID int64, quantity int) error {
	var product models.Product
	err := r.db.WithContext(ctx).First(&product, productID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	var existing models.CartItem
	err = r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		First(&existing).Error
	switch {
	case err == nil:
		existing.Quantity += quantity
		if err := r.db.WithContext(ctx).Save(&existing).Error; err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart row")
		}
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		item := models.CartItem{UserID: userID, ProductID: productID, Quantity: quantity}
		if err := r.db.WithContext(ctx).Create(&item).Error; err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create cart row")
		}
		return nil
	default:
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart row")
	}
}

// SetCartQuantity updates a cart row's quantity, deleting the row when
// the quantity drops to zero or below. The removed return reports which
// happened.
func (r *Repo) SetCartQuantity(ctx context.Context, userID, cartID int64, quantity int) (removed bool, err error) {
	var item models.CartItem
	err = r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", cartID, userID).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
	}
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart row")
	}

	if quantity <= 0 {
		if err := r.db.WithContext(ctx).Delete(&item).Error; err != nil {
			return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete cart row")
		}
		return true, nil
	}

	item.Quantity = quantity
	if err := r.db.WithContext(ctx).Save(&item).Error; err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart row")
	}
	return false, nil
}

// PlaceOrder snapshots the buyer's cart into an order inside one
// transaction and empties the cart.
func (r *Repo) PlaceOrder(ctx context.Context, userID int64, address, phone, email string) (*models.Order, error) {
	var order *models.Order
	err := r.client.WithTx(ctx, func(tx *gorm.DB) error {
		rows := []cartRow{}
		err := tx.Table("cart_items").
			Select("cart_items.id AS cart_id, cart_items.product_id, products.title AS product_name, products.offer_price AS price, cart_items.quantity").
			Joins("JOIN products ON products.id = cart_items.product_id").
			Where("cart_items.user_id = ?", userID).
			Scan(&rows).Error
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
		}
		if len(rows) == 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
		}

		total := decimal.Zero
		items := make([]models.OrderItem, 0, len(rows))
		for _, row := range rows {
			total = total.Add(row.Price.Mul(decimal.NewFromInt(int64(row.Quantity))))

			var product models.Product
			if err := tx.First(&product, row.ProductID).Error; err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
			}
			items = append(items, models.OrderItem{
				ProductID:   row.ProductID,
				CategoryID:  product.CategoryID,
				ProductName: row.ProductName,
				UnitPrice:   row.Price,
				Quantity:    row.Quantity,
			})
		}

		placed := models.Order{
			UserID:      userID,
			TotalAmount: total.Round(2),
			Address:     address,
			Phone:       phone,
			Email:       email,
			Status:      enums.OrderStatusPending,
			Items:       items,
		}
		if err := tx.Create(&placed).Error; err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.CartItem{}).Error; err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "empty cart")
		}
		order = &placed
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// ActiveOrders returns every order not yet delivered.
func (r *Repo) ActiveOrders(ctx context.Context) ([]models.Order, error) {
	return r.ordersWhere(ctx, "status <> ?", enums.OrderStatusDelivered)
}

// CompletedOrders returns the delivered bucket.
func (r *Repo) CompletedOrders(ctx context.Context) ([]models.Order, error) {
	return r.ordersWhere(ctx, "status = ?", enums.OrderStatusDelivered)
}

func (r *Repo) ordersWhere(ctx context.Context, query string, args ...any) ([]models.Order, error) {
	orders := []models.Order{}
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where(query, args...).
		Order("id").
		Find(&orders).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return orders, nil
}

func (r *Repo) UpdateOrderStatus(ctx context.Context, orderID int64, status enums.OrderStatus) error {
	result := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", orderID).
		Update("status", status)
	if result.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, result.Error, "update order")
	}
	if result.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return nil
}

func (r *Repo) Products(ctx context.Context) ([]models.Product, error) {
	products := []models.Product{}
	if err := r.db.WithContext(ctx).Order("id").Find(&products).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return products, nil
}

func (r *Repo) Categories(ctx context.Context) ([]models.Category, error) {
	categories := []models.Category{}
	if err := r.db.WithContext(ctx).Order("id").Find(&categories).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories")
	}
	return categories, nil
}

func (r *Repo) UserByEmail(ctx context.Context, email string, role enums.Role) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where("email = ? AND role = ?", email, role).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid email or password")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	return &user, nil
}

func (r *Repo) CreateUser(ctx context.Context, user *models.User) error {
	err := r.db.WithContext(ctx).Create(user).Error
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create user")
}
