package fulfillment

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/dokanapp/storefront-go/internal/session"
	pkgerrors "github.com/dokanapp/storefront-go/pkg/errors"
	"github.com/dokanapp/storefront-go/pkg/enums"
	"github.com/dokanapp/storefront-go/pkg/logger"
	"github.com/dokanapp/storefront-go/pkg/storeapi"
)

type stubAPI struct {
	listActive    func(ctx context.Context) ([]storeapi.Order, error)
	listCompleted func(ctx context.Context) ([]storeapi.Order, error)
	update        func(ctx context.Context, orderID int64, status enums.OrderStatus) error

	activeCalls int
	updateCalls int
}

func (s *stubAPI) ListOrders(ctx context.Context) ([]storeapi.Order, error) {
	s.activeCalls++
	if s.listActive != nil {
		return s.listActive(ctx)
	}
	return nil, nil
}

func (s *stubAPI) ListCompletedOrders(ctx context.Context) ([]storeapi.Order, error) {
	if s.listCompleted != nil {
		return s.listCompleted(ctx)
	}
	return nil, nil
}

func (s *stubAPI) UpdateOrderStatus(ctx context.Context, orderID int64, status enums.OrderStatus) error {
	s.updateCalls++
	if s.update != nil {
		return s.update(ctx, orderID, status)
	}
	return nil
}

func vendorSession() *session.Session {
	sess := session.New()
	sess.Apply(session.Fields{UserID: 3, Role: enums.RoleVendor, Token: "tok"})
	return sess
}

func pendingOrder(id int64) storeapi.Order {
	return storeapi.Order{ID: id, Status: enums.OrderStatusPending}
}

func TestLoadActiveReplacesListing(t *testing.T) {
	api := &stubAPI{
		listActive: func(context.Context) ([]storeapi.Order, error) {
			return []storeapi.Order{pendingOrder(1), pendingOrder(2)}, nil
		},
	}
	board, err := NewBoard(api, vendorSession(), nil)
	if err != nil {
		t.Fatalf("new board: %v", err)
	}

	if err := board.LoadActive(context.Background()); err != nil {
		t.Fatalf("load active: %v", err)
	}
	if got := len(board.Active()); got != 2 {
		t.Fatalf("expected 2 active orders, got %d", got)
	}
}

func TestLoadFailureKeepsPriorListing(t *testing.T) {
	api := &stubAPI{
		listActive: func(context.Context) ([]storeapi.Order, error) {
			return []storeapi.Order{pendingOrder(1)}, nil
		},
	}
	board, _ := NewBoard(api, vendorSession(), nil)
	if err := board.LoadActive(context.Background()); err != nil {
		t.Fatalf("load active: %v", err)
	}

	api.listActive = func(context.Context) ([]storeapi.Order, error) {
		return nil, pkgerrors.New(pkgerrors.CodeNetwork, "request could not complete")
	}
	if err := board.LoadActive(context.Background()); !pkgerrors.HasCode(err, pkgerrors.CodeNetwork) {
		t.Fatalf("expected NETWORK_ERROR, got %v", err)
	}
	if got := len(board.Active()); got != 1 {
		t.Fatalf("prior listing must survive a failed re-fetch, got %d", got)
	}
}

func TestSetStatusRefetchesActiveListing(t *testing.T) {
	listing := []storeapi.Order{pendingOrder(1), pendingOrder(2)}
	api := &stubAPI{
		listActive: func(context.Context) ([]storeapi.Order, error) {
			return listing, nil
		},
	}
	board, _ := NewBoard(api, vendorSession(), nil)
	if err := board.LoadActive(context.Background()); err != nil {
		t.Fatalf("load active: %v", err)
	}

	// The server moves order 1 out of the active bucket.
	listing = []storeapi.Order{pendingOrder(2)}
	if err := board.SetStatus(context.Background(), 1, enums.OrderStatusDelivered); err != nil {
		t.Fatalf("set status: %v", err)
	}
	if api.activeCalls != 2 {
		t.Fatalf("expected a re-fetch after the update, saw %d fetches", api.activeCalls)
	}
	active := board.Active()
	if len(active) != 1 || active[0].ID != 2 {
		t.Fatalf("unexpected active listing %+v", active)
	}
}

func TestSetStatusRejectsUnknownStatus(t *testing.T) {
	api := &stubAPI{}
	board, _ := NewBoard(api, vendorSession(), nil)

	err := board.SetStatus(context.Background(), 1, enums.OrderStatus("shipped"))
	if !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
	if api.updateCalls != 0 {
		t.Fatal("invalid status must not reach the network")
	}
}

func TestSetStatusRequiresCredential(t *testing.T) {
	api := &stubAPI{}
	board, _ := NewBoard(api, session.New(), nil)

	err := board.SetStatus(context.Background(), 1, enums.OrderStatusAccepted)
	if !pkgerrors.HasCode(err, pkgerrors.CodeAuthMissing) {
		t.Fatalf("expected AUTH_MISSING, got %v", err)
	}
	if api.updateCalls != 0 {
		t.Fatal("logged-out update must not reach the network")
	}
}

func TestSetStatusFailureIdentifiesOrder(t *testing.T) {
	api := &stubAPI{
		update: func(context.Context, int64, enums.OrderStatus) error {
			return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		},
	}
	board, _ := NewBoard(api, vendorSession(), nil)

	err := board.SetStatus(context.Background(), 42, enums.OrderStatusAccepted)
	if !pkgerrors.HasCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
	coded := pkgerrors.As(err)
	details, ok := coded.Details().(map[string]any)
	if !ok || details["order_id"] != int64(42) {
		t.Fatalf("error must identify the order, got details %v", coded.Details())
	}
	if api.activeCalls != 0 {
		t.Fatal("failed update must not trigger a re-fetch")
	}
}

func TestSetStatusLogsRegressions(t *testing.T) {
	var buf bytes.Buffer
	logg := logger.New(logger.Options{ServiceName: "test", Level: zerolog.WarnLevel, Output: &buf})

	api := &stubAPI{
		listActive: func(context.Context) ([]storeapi.Order, error) {
			return []storeapi.Order{{ID: 1, Status: enums.OrderStatusDelivered}}, nil
		},
	}
	board, _ := NewBoard(api, vendorSession(), logg)
	if err := board.LoadActive(context.Background()); err != nil {
		t.Fatalf("load active: %v", err)
	}

	if err := board.SetStatus(context.Background(), 1, enums.OrderStatusPending); err != nil {
		t.Fatalf("set status: %v", err)
	}
	if api.updateCalls != 1 {
		t.Fatal("a regression must still be sent to the server")
	}
	if !strings.Contains(buf.String(), "order status moved backwards") {
		t.Fatalf("expected a regression warning, got %q", buf.String())
	}
}
