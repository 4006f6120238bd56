package storeapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dokanapp/storefront-go/pkg/enums"
	pkgerrors "github.com/dokanapp/storefront-go/pkg/errors"
)

// Success-message strings defined by the storefront API. A 2xx response
// whose message differs is still a rejection.
const (
	MsgCartUpdated  = "Cart updated successfully"
	MsgItemRemoved  = "Item removed from cart"
	MsgAddedToCart  = "Added to cart successfully"
	MsgOrderPlaced  = "Order placed successfully"
	MsgOrderUpdated = "Order status updated"
)

const errorBodyReadLimit int64 = 1024

var (
	errBaseURLRequired = errors.New("storefront base url is required")
	errTokenSourceNil  = errors.New("token source is required")
)

// TokenSource supplies the bearer credential attached to authenticated calls.
type TokenSource interface {
	Token() string
}

// Client speaks the storefront HTTP/JSON API. All failures come back as
// coded errors: transport problems map to NETWORK_ERROR, non-2xx responses
// map by status, and 2xx responses carrying the wrong message string map
// to SERVER_REJECTED.
type Client struct {
	httpClient *http.Client
	baseURL    string
	creds      TokenSource
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout overrides the default request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// NewClient builds a storefront API client for the given base endpoint.
func NewClient(baseURL string, creds TokenSource, opts ...Option) (*Client, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, errBaseURLRequired
	}
	if creds == nil {
		return nil, errTokenSourceNil
	}

	client := &Client{
		baseURL:    trimmed,
		creds:      creds,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	return client, nil
}

type messageResponse struct {
	Message string `json:"message"`
}

// FetchCart returns the authenticated buyer's current cart rows.
func (c *Client) FetchCart(ctx context.Context) ([]CartItem, error) {
	var items []CartItem
	if err := c.do(ctx, http.MethodGet, "/users/cart", nil, &items, "fetch cart"); err != nil {
		return nil, err
	}
	return items, nil
}

type cartUpdateRequest struct {
	CartID   int64 `json:"cart_id"`
	Quantity int   `json:"quantity"`
}

// UpdateCartItem sets the quantity of one cart row. Quantity must be positive;
// removal has its own call because the server answers it with a different message.
func (c *Client) UpdateCartItem(ctx context.Context, cartID int64, quantity int) error {
	var resp messageResponse
	body := cartUpdateRequest{CartID: cartID, Quantity: quantity}
	if err := c.do(ctx, http.MethodPut, "/users/cart/update", body, &resp, "update cart item"); err != nil {
		return err
	}
	return expectMessage(resp.Message, MsgCartUpdated)
}

// RemoveCartItem deletes one cart row, modeled as a quantity-zero update.
func (c *Client) RemoveCartItem(ctx context.Context, cartID int64) error {
	var resp messageResponse
	body := cartUpdateRequest{CartID: cartID, Quantity: 0}
	if err := c.do(ctx, http.MethodPut, "/users/cart/update", body, &resp, "remove cart item"); err != nil {
		return err
	}
	return expectMessage(resp.Message, MsgItemRemoved)
}

type addToCartRequest struct {
	UserID    int64 `json:"user_id"`
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// AddToCart creates or grows a cart row for the given product.
func (c *Client) AddToCart(ctx context.Context, userID, productID int64, quantity int) error {
	var resp messageResponse
	body := addToCartRequest{UserID: userID, ProductID: productID, Quantity: quantity}
	if err := c.do(ctx, http.MethodPost, "/users/cart/add", body, &resp, "add to cart"); err != nil {
		return err
	}
	return expectMessage(resp.Message, MsgAddedToCart)
}

// Checkout submits the cart with the buyer's shipping and contact fields.
func (c *Client) Checkout(ctx context.Context, req CheckoutRequest) error {
	var resp messageResponse
	if err := c.do(ctx, http.MethodPost, "/users/checkout", req, &resp, "checkout"); err != nil {
		return err
	}
	return expectMessage(resp.Message, MsgOrderPlaced)
}

// ListOrders returns every order not yet archived as completed.
func (c *Client) ListOrders(ctx context.Context) ([]Order, error) {
	var orders []Order
	if err := c.do(ctx, http.MethodGet, "/orders", nil, &orders, "list orders"); err != nil {
		return nil, err
	}
	return orders, nil
}

// ListCompletedOrders returns the delivered bucket.
func (c *Client) ListCompletedOrders(ctx context.Context) ([]Order, error) {
	var orders []Order
	if err := c.do(ctx, http.MethodGet, "/complete-orders", nil, &orders, "list completed orders"); err != nil {
		return nil, err
	}
	return orders, nil
}

type statusUpdateRequest struct {
	Status enums.OrderStatus `json:"status"`
}

// UpdateOrderStatus issues a fulfillment transition. Any HTTP success counts.
func (c *Client) UpdateOrderStatus(ctx context.Context, orderID int64, status enums.OrderStatus) error {
	path := fmt.Sprintf("/orders/%d", orderID)
	return c.do(ctx, http.MethodPut, path, statusUpdateRequest{Status: status}, nil, "update order status")
}

// ListProducts returns the catalog.
func (c *Client) ListProducts(ctx context.Context) ([]Product, error) {
	var products []Product
	if err := c.do(ctx, http.MethodGet, "/users/products", nil, &products, "list products"); err != nil {
		return nil, err
	}
	return products, nil
}

// ListCategories returns the catalog groupings.
func (c *Client) ListCategories(ctx context.Context) ([]Category, error) {
	var categories []Category
	if err := c.do(ctx, http.MethodGet, "/categories", nil, &categories, "list categories"); err != nil {
		return nil, err
	}
	return categories, nil
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerVendorRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	ShopName string `json:"shop_name"`
	Password string `json:"password"`
}

// LoginUser authenticates a buyer.
func (c *Client) LoginUser(ctx context.Context, email, password string) (*Credentials, error) {
	var creds Credentials
	body := loginRequest{Email: email, Password: password}
	if err := c.do(ctx, http.MethodPost, "/users/login", body, &creds, "user login"); err != nil {
		return nil, err
	}
	return &creds, nil
}

// RegisterUser creates a buyer account and returns its credentials.
func (c *Client) RegisterUser(ctx context.Context, name, email, password string) (*Credentials, error) {
	var creds Credentials
	body := registerUserRequest{Name: name, Email: email, Password: password}
	if err := c.do(ctx, http.MethodPost, "/users/register", body, &creds, "user register"); err != nil {
		return nil, err
	}
	return &creds, nil
}

// LoginVendor authenticates a vendor.
func (c *Client) LoginVendor(ctx context.Context, email, password string) (*Credentials, error) {
	var creds Credentials
	body := loginRequest{Email: email, Password: password}
	if err := c.do(ctx, http.MethodPost, "/vendors/login", body, &creds, "vendor login"); err != nil {
		return nil, err
	}
	return &creds, nil
}

// RegisterVendor creates a vendor account and returns its credentials.
func (c *Client) RegisterVendor(ctx context.Context, name, email, phone, shopName, password string) (*Credentials, error) {
	var creds Credentials
	body := registerVendorRequest{Name: name, Email: email, Phone: phone, ShopName: shopName, Password: password}
	if err := c.do(ctx, http.MethodPost, "/vendors/register", body, &creds, "vendor register"); err != nil {
		return nil, err
	}
	return &creds, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any, op string) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, fmt.Sprintf("marshal %s request", op))
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, fmt.Sprintf("build %s request", op))
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := strings.TrimSpace(c.creds.Token()); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeNetwork, err, fmt.Sprintf("%s request failed", op))
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))
		cause := fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
		return pkgerrors.Wrap(pkgerrors.CodeForStatus(resp.StatusCode), cause, fmt.Sprintf("%s rejected", op))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeServerRejected, err, fmt.Sprintf("decode %s response", op))
	}
	return nil
}

func expectMessage(got, want string) error {
	if got == want {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeServerRejected, fmt.Sprintf("unexpected server reply %q", got))
}
