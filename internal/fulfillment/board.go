// Package fulfillment tracks a vendor's orders through their lifecycle.
// The board keeps two listings, active and completed, and moves orders
// between them by asking the server rather than patching locally.
package fulfillment

import (
	"context"
	"fmt"
	"sync"

	"github.com/dokanapp/storefront-go/internal/session"
	pkgerrors "github.com/dokanapp/storefront-go/pkg/errors"
	"github.com/dokanapp/storefront-go/pkg/enums"
	"github.com/dokanapp/storefront-go/pkg/logger"
	"github.com/dokanapp/storefront-go/pkg/storeapi"
)

// API is the slice of the transport the board needs.
type API interface {
	ListOrders(ctx context.Context) ([]storeapi.Order, error)
	ListCompletedOrders(ctx context.Context) ([]storeapi.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID int64, status enums.OrderStatus) error
}

// Board holds the vendor's view of active and delivered orders.
type Board struct {
	api  API
	sess *session.Session
	logg *logger.Logger

	mu        sync.Mutex
	active    []storeapi.Order
	completed []storeapi.Order
}

func NewBoard(api API, sess *session.Session, logg *logger.Logger) (*Board, error) {
	if api == nil {
		return nil, fmt.Errorf("storefront api required")
	}
	if sess == nil {
		return nil, fmt.Errorf("session required")
	}
	return &Board{api: api, sess: sess, logg: logg}, nil
}

// LoadActive replaces the active listing with the server's. A failed
// fetch keeps whatever was previously loaded.
func (b *Board) LoadActive(ctx context.Context) error {
	orders, err := b.api.ListOrders(ctx)
	if err != nil {
		return err
	}
	b.mu.Lock()
	b.active = orders
	b.mu.Unlock()
	return nil
}

// LoadCompleted replaces the delivered listing with the server's.
func (b *Board) LoadCompleted(ctx context.Context) error {
	orders, err := b.api.ListCompletedOrders(ctx)
	if err != nil {
		return err
	}
	b.mu.Lock()
	b.completed = orders
	b.mu.Unlock()
	return nil
}

// SetStatus moves an order to the given status. Any status may follow any
// other; a move backwards in the usual pending, accepted, delivered
// progression is logged but still sent. On success the active listing is
// re-fetched from the server so bucketing stays authoritative.
func (b *Board) SetStatus(ctx context.Context, orderID int64, status enums.OrderStatus) error {
	if !b.sess.Authenticated() {
		return pkgerrors.New(pkgerrors.CodeAuthMissing, "log in before updating orders")
	}
	if !status.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("unknown order status %q", status)).
			WithDetails(map[string]any{"order_id": orderID})
	}

	if current, ok := b.statusOf(orderID); ok && status.Before(current) {
		if b.logg != nil {
			lctx := b.logg.WithOrderID(ctx, orderID)
			lctx = b.logg.WithField(lctx, "from", current.String())
			lctx = b.logg.WithField(lctx, "to", status.String())
			b.logg.Warn(lctx, "order status moved backwards")
		}
	}

	if err := b.api.UpdateOrderStatus(ctx, orderID, status); err != nil {
		if coded := pkgerrors.As(err); coded != nil {
			return coded.WithDetails(map[string]any{"order_id": orderID})
		}
		return err
	}

	if err := b.LoadActive(ctx); err != nil {
		if b.logg != nil {
			b.logg.Error(b.logg.WithOrderID(ctx, orderID), "re-fetch after status update failed", err)
		}
		return err
	}
	return nil
}

// Active returns a copy of the active listing.
func (b *Board) Active() []storeapi.Order {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]storeapi.Order, len(b.active))
	copy(out, b.active)
	return out
}

// Completed returns a copy of the delivered listing.
func (b *Board) Completed() []storeapi.Order {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]storeapi.Order, len(b.completed))
	copy(out, b.completed)
	return out
}

func (b *Board) statusOf(orderID int64) (enums.OrderStatus, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, order := range b.active {
		if order.ID == orderID {
			return order.Status, true
		}
	}
	for _, order := range b.completed {
		if order.ID == orderID {
			return order.Status, true
		}
	}
	return "", false
}
