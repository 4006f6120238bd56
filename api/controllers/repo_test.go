package controllers

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/dokanapp/storefront-go/pkg/config"
	"github.com/dokanapp/storefront-go/pkg/db"
	"github.com/dokanapp/storefront-go/pkg/db/models"
	"github.com/dokanapp/storefront-go/pkg/enums"
	pkgerrors "github.com/dokanapp/storefront-go/pkg/errors"
)

func setupRepo(t *testing.T) (*Repo, *gorm.DB) {
	t.Helper()

	client, err := db.New(context.Background(), config.DBConfig{
		Path: filepath.Join(t.TempDir(), "repo_test.db"),
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	require.NoError(t, client.AutoMigrate())

	repo, err := NewRepo(client)
	require.NoError(t, err)
	return repo, client.DB()
}

func seedUser(t *testing.T, conn *gorm.DB, role enums.Role) int64 {
	t.Helper()
	user := models.User{
		Name:         "Riya",
		Email:        string(role) + "@example.com",
		PasswordHash: "x",
		Role:         role,
	}
	require.NoError(t, conn.Create(&user).Error)
	return user.ID
}

func seedProductRow(t *testing.T, conn *gorm.DB, title, price string) int64 {
	t.Helper()
	product := models.Product{
		VendorID:      1,
		Title:         title,
		RegularPrice:  decimal.RequireFromString(price),
		OfferPrice:    decimal.RequireFromString(price),
		StockQuantity: 10,
	}
	require.NoError(t, conn.Create(&product).Error)
	return product.ID
}

func TestAddCartItemCreatesThenBumps(t *testing.T) {
	repo, conn := setupRepo(t)
	ctx := context.Background()

	userID := seedUser(t, conn, enums.RoleBuyer)
	productID := seedProductRow(t, conn, "Mug", "9.99")

	require.NoError(t, repo.AddCartItem(ctx, userID, productID, 2))
	require.NoError(t, repo.AddCartItem(ctx, userID, productID, 3))

	rows, err := repo.CartRows(ctx, userID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 5, rows[0].Quantity)
	assert.Equal(t, "Mug", rows[0].ProductName)
}

func TestAddCartItemUnknownProduct(t *testing.T) {
	repo, conn := setupRepo(t)
	userID := seedUser(t, conn, enums.RoleBuyer)

	err := repo.AddCartItem(context.Background(), userID, 999, 1)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNotFound))
}

func TestSetCartQuantityUpdatesAndRemoves(t *testing.T) {
	repo, conn := setupRepo(t)
	ctx := context.Background()

	userID := seedUser(t, conn, enums.RoleBuyer)
	productID := seedProductRow(t, conn, "Mug", "9.99")
	require.NoError(t, repo.AddCartItem(ctx, userID, productID, 2))

	rows, err := repo.CartRows(ctx, userID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	cartID := rows[0].CartID

	removed, err := repo.SetCartQuantity(ctx, userID, cartID, 4)
	require.NoError(t, err)
	assert.False(t, removed)

	removed, err = repo.SetCartQuantity(ctx, userID, cartID, 0)
	require.NoError(t, err)
	assert.True(t, removed)

	_, err = repo.SetCartQuantity(ctx, userID, cartID, 1)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNotFound))
}

func TestSetCartQuantityScopedToOwner(t *testing.T) {
	repo, conn := setupRepo(t)
	ctx := context.Background()

	owner := seedUser(t, conn, enums.RoleBuyer)
	other := seedUser(t, conn, enums.RoleVendor)
	productID := seedProductRow(t, conn, "Mug", "9.99")
	require.NoError(t, repo.AddCartItem(ctx, owner, productID, 2))

	rows, err := repo.CartRows(ctx, owner)
	require.NoError(t, err)

	_, err = repo.SetCartQuantity(ctx, other, rows[0].CartID, 1)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNotFound))
}

func TestPlaceOrderSnapshotsAndEmptiesCart(t *testing.T) {
	repo, conn := setupRepo(t)
	ctx := context.Background()

	userID := seedUser(t, conn, enums.RoleBuyer)
	mugID := seedProductRow(t, conn, "Mug", "9.99")
	plateID := seedProductRow(t, conn, "Plate", "4.50")
	require.NoError(t, repo.AddCartItem(ctx, userID, mugID, 2))
	require.NoError(t, repo.AddCartItem(ctx, userID, plateID, 1))

	order, err := repo.PlaceOrder(ctx, userID, "12 Long Rd", "0171234", "riya@example.com")
	require.NoError(t, err)
	assert.Equal(t, "24.48", order.TotalAmount.String())
	assert.Equal(t, enums.OrderStatusPending, order.Status)
	require.Len(t, order.Items, 2)

	rows, err := repo.CartRows(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, rows)

	// Later price edits must not touch the snapshot.
	require.NoError(t, conn.Model(&models.Product{}).
		Where("id = ?", mugID).
		Update("offer_price", decimal.RequireFromString("99.99")).Error)
	var reloaded models.Order
	require.NoError(t, conn.Preload("Items").First(&reloaded, order.ID).Error)
	assert.Equal(t, "24.48", reloaded.TotalAmount.String())
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	repo, conn := setupRepo(t)
	userID := seedUser(t, conn, enums.RoleBuyer)

	_, err := repo.PlaceOrder(context.Background(), userID, "12 Long Rd", "0171234", "r@e.com")
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))
}

func TestOrderBuckets(t *testing.T) {
	repo, conn := setupRepo(t)
	ctx := context.Background()

	userID := seedUser(t, conn, enums.RoleBuyer)
	mugID := seedProductRow(t, conn, "Mug", "9.99")

	require.NoError(t, repo.AddCartItem(ctx, userID, mugID, 1))
	first, err := repo.PlaceOrder(ctx, userID, "12 Long Rd", "0171234", "r@e.com")
	require.NoError(t, err)

	require.NoError(t, repo.AddCartItem(ctx, userID, mugID, 1))
	second, err := repo.PlaceOrder(ctx, userID, "12 Long Rd", "0171234", "r@e.com")
	require.NoError(t, err)

	require.NoError(t, repo.UpdateOrderStatus(ctx, first.ID, enums.OrderStatusDelivered))

	active, err := repo.ActiveOrders(ctx)
	require.NoError(t, err)
	completed, err := repo.CompletedOrders(ctx)
	require.NoError(t, err)

	require.Len(t, active, 1)
	assert.Equal(t, second.ID, active[0].ID)
	require.Len(t, completed, 1)
	assert.Equal(t, first.ID, completed[0].ID)
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()

	first := models.User{Name: "Riya", Email: "riya@example.com", PasswordHash: "x", Role: enums.RoleBuyer}
	require.NoError(t, repo.CreateUser(ctx, &first))

	second := models.User{Name: "Other", Email: "riya@example.com", PasswordHash: "y", Role: enums.RoleBuyer}
	err := repo.CreateUser(ctx, &second)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeConflict), "got %v", err)
}

func TestUpdateOrderStatusUnknownOrder(t *testing.T) {
	repo, _ := setupRepo(t)

	err := repo.UpdateOrderStatus(context.Background(), 999, enums.OrderStatusAccepted)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNotFound))
}
