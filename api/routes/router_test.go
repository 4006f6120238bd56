package routes

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/dokanapp/storefront-go/api/controllers"
	clientauth "github.com/dokanapp/storefront-go/internal/auth"
	"github.com/dokanapp/storefront-go/internal/cart"
	"github.com/dokanapp/storefront-go/internal/checkout"
	"github.com/dokanapp/storefront-go/internal/fulfillment"
	"github.com/dokanapp/storefront-go/internal/session"
	"github.com/dokanapp/storefront-go/pkg/config"
	"github.com/dokanapp/storefront-go/pkg/db"
	"github.com/dokanapp/storefront-go/pkg/db/models"
	"github.com/dokanapp/storefront-go/pkg/enums"
	pkgerrors "github.com/dokanapp/storefront-go/pkg/errors"
	"github.com/dokanapp/storefront-go/pkg/storeapi"
)

func testConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			Secret:            "test-secret",
			Issuer:            "storefront-dev",
			ExpirationMinutes: 30,
		},
	}
}

func newTestEnv(t *testing.T) (*httptest.Server, *gorm.DB) {
	t.Helper()

	dbClient, err := db.New(context.Background(), config.DBConfig{
		Path: filepath.Join(t.TempDir(), "storefront.db"),
	}, nil)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { dbClient.Close() })
	if err := dbClient.AutoMigrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	repo, err := controllers.NewRepo(dbClient)
	if err != nil {
		t.Fatalf("new repo: %v", err)
	}

	server := httptest.NewServer(NewRouter(testConfig(), nil, dbClient, repo, nil))
	t.Cleanup(server.Close)
	return server, dbClient.DB()
}

func seedProduct(t *testing.T, conn *gorm.DB, title, price string) int64 {
	t.Helper()
	categoryID := seedCategory(t, conn, "Kitchen")
	product := models.Product{
		VendorID:      1,
		CategoryID:    &categoryID,
		Title:         title,
		RegularPrice:  decimal.RequireFromString(price),
		OfferPrice:    decimal.RequireFromString(price),
		StockQuantity: 50,
	}
	if err := conn.Create(&product).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return product.ID
}

func seedCategory(t *testing.T, conn *gorm.DB, name string) int64 {
	t.Helper()
	category := models.Category{Name: name}
	err := conn.Where(models.Category{Name: name}).FirstOrCreate(&category).Error
	if err != nil {
		t.Fatalf("seed category: %v", err)
	}
	return category.ID
}

type clientSet struct {
	sess     *session.Session
	api      *storeapi.Client
	cart     *cart.Store
	checkout *checkout.Transaction
	board    *fulfillment.Board
	authn    *clientauth.Authenticator
}

func newClientSet(t *testing.T, baseURL string) *clientSet {
	t.Helper()
	sess := session.New()
	api, err := storeapi.NewClient(baseURL, sess)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	store, err := cart.NewStore(api, sess, nil)
	if err != nil {
		t.Fatalf("new cart store: %v", err)
	}
	tx, err := checkout.NewTransaction(api, store, sess, nil)
	if err != nil {
		t.Fatalf("new transaction: %v", err)
	}
	board, err := fulfillment.NewBoard(api, sess, nil)
	if err != nil {
		t.Fatalf("new board: %v", err)
	}
	authn, err := clientauth.NewAuthenticator(api, sess, session.NewMemoryStore(), nil)
	if err != nil {
		t.Fatalf("new authenticator: %v", err)
	}
	return &clientSet{sess: sess, api: api, cart: store, checkout: tx, board: board, authn: authn}
}

func placeOrder(t *testing.T, server *httptest.Server, conn *gorm.DB) *clientSet {
	t.Helper()
	ctx := context.Background()

	mugID := seedProduct(t, conn, "Mug", "9.99")
	plateID := seedProduct(t, conn, "Plate", "4.50")

	buyer := newClientSet(t, server.URL)
	if err := buyer.authn.RegisterUser(ctx, "Riya", "riya@example.com", "secret1"); err != nil {
		t.Fatalf("register buyer: %v", err)
	}

	if err := buyer.cart.Add(ctx, mugID, 2); err != nil {
		t.Fatalf("add mug: %v", err)
	}
	if err := buyer.cart.Add(ctx, plateID, 1); err != nil {
		t.Fatalf("add plate: %v", err)
	}
	if got := buyer.cart.Total(); got.String() != "24.48" {
		t.Fatalf("unexpected total %s", got)
	}

	details := checkout.Details{Address: "12 Long Rd", Phone: "0171234", Email: "riya@example.com"}
	if err := buyer.checkout.Place(ctx, details); err != nil {
		t.Fatalf("checkout: %v", err)
	}
	if buyer.cart.Len() != 0 {
		t.Fatalf("cart must be empty after checkout, has %d rows", buyer.cart.Len())
	}
	return buyer
}

func TestBuyerJourney(t *testing.T) {
	server, conn := newTestEnv(t)
	ctx := context.Background()

	buyer := placeOrder(t, server, conn)

	// The server's cart is empty too, not just the local store.
	if err := buyer.cart.Load(ctx); err != nil {
		t.Fatalf("reload cart: %v", err)
	}
	if buyer.cart.Len() != 0 {
		t.Fatalf("server cart must be empty after checkout, has %d rows", buyer.cart.Len())
	}

	var count int64
	if err := conn.Model(&models.Order{}).Count(&count).Error; err != nil {
		t.Fatalf("count orders: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected exactly one order, got %d", count)
	}
	var order models.Order
	if err := conn.Preload("Items").First(&order).Error; err != nil {
		t.Fatalf("load order: %v", err)
	}
	if order.Status != enums.OrderStatusPending {
		t.Fatalf("new orders must start pending, got %s", order.Status)
	}
	if order.TotalAmount.String() != "24.48" {
		t.Fatalf("unexpected server total %s", order.TotalAmount)
	}
	if len(order.Items) != 2 {
		t.Fatalf("expected 2 snapshotted items, got %d", len(order.Items))
	}
}

func TestCartQuantityRoundTrip(t *testing.T) {
	server, conn := newTestEnv(t)
	ctx := context.Background()

	mugID := seedProduct(t, conn, "Mug", "9.99")

	buyer := newClientSet(t, server.URL)
	if err := buyer.authn.RegisterUser(ctx, "Riya", "riya@example.com", "secret1"); err != nil {
		t.Fatalf("register buyer: %v", err)
	}
	if err := buyer.cart.Add(ctx, mugID, 2); err != nil {
		t.Fatalf("add: %v", err)
	}

	items := buyer.cart.Items()
	if len(items) != 1 {
		t.Fatalf("expected 1 row, got %d", len(items))
	}
	rowID := items[0].CartID

	if err := buyer.cart.SetQuantity(ctx, rowID, 5); err != nil {
		t.Fatalf("set quantity: %v", err)
	}
	if got := buyer.cart.Total(); got.String() != "49.95" {
		t.Fatalf("unexpected total %s", got)
	}

	// Dropping to zero removes the row on the server.
	if err := buyer.cart.SetQuantity(ctx, rowID, 0); err != nil {
		t.Fatalf("set quantity zero: %v", err)
	}
	if err := buyer.cart.Load(ctx); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if buyer.cart.Len() != 0 {
		t.Fatalf("row must be gone server-side, have %d", buyer.cart.Len())
	}

	// Removing it again surfaces as a no-op success.
	if err := buyer.cart.Remove(ctx, rowID); err != nil {
		t.Fatalf("second removal must be a no-op: %v", err)
	}
}

func TestDeliveredOrderAppearsExactlyOnce(t *testing.T) {
	server, conn := newTestEnv(t)
	ctx := context.Background()

	placeOrder(t, server, conn)

	vendor := newClientSet(t, server.URL)
	err := vendor.authn.RegisterVendor(ctx, "Mo", "mo@shop.com", "0199", "Mo Ceramics", "secret1")
	if err != nil {
		t.Fatalf("register vendor: %v", err)
	}

	if err := vendor.board.LoadActive(ctx); err != nil {
		t.Fatalf("load active: %v", err)
	}
	active := vendor.board.Active()
	if len(active) != 1 {
		t.Fatalf("expected 1 active order, got %d", len(active))
	}
	orderID := active[0].ID

	if err := vendor.board.SetStatus(ctx, orderID, enums.OrderStatusDelivered); err != nil {
		t.Fatalf("set status: %v", err)
	}
	if err := vendor.board.LoadCompleted(ctx); err != nil {
		t.Fatalf("load completed: %v", err)
	}

	for _, order := range vendor.board.Active() {
		if order.ID == orderID {
			t.Fatal("delivered order must leave the active bucket")
		}
	}
	seen := 0
	for _, order := range vendor.board.Completed() {
		if order.ID == orderID {
			seen++
		}
	}
	if seen != 1 {
		t.Fatalf("delivered order must appear exactly once in completed, saw %d", seen)
	}
}

func TestOrderEndpointsRequireVendorRole(t *testing.T) {
	server, conn := newTestEnv(t)
	ctx := context.Background()

	buyer := placeOrder(t, server, conn)

	err := buyer.board.LoadActive(ctx)
	if !pkgerrors.HasCode(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("buyer access to /orders must fail with UNAUTHORIZED, got %v", err)
	}
}

func TestVendorLoginRoundTrip(t *testing.T) {
	server, _ := newTestEnv(t)
	ctx := context.Background()

	first := newClientSet(t, server.URL)
	err := first.authn.RegisterVendor(ctx, "Mo", "mo@shop.com", "0199", "Mo Ceramics", "secret1")
	if err != nil {
		t.Fatalf("register vendor: %v", err)
	}

	second := newClientSet(t, server.URL)
	if err := second.authn.LoginVendor(ctx, "mo@shop.com", "secret1"); err != nil {
		t.Fatalf("login vendor: %v", err)
	}
	fields := second.sess.Fields()
	if fields.Role != enums.RoleVendor || fields.VendorShopName != "Mo Ceramics" {
		t.Fatalf("vendor session incomplete: %+v", fields)
	}

	third := newClientSet(t, server.URL)
	err = third.authn.LoginVendor(ctx, "mo@shop.com", "wrong")
	if !pkgerrors.HasCode(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("bad password must fail with UNAUTHORIZED, got %v", err)
	}
}
