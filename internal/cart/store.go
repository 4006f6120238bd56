package cart

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/dokanapp/storefront-go/internal/session"
	pkgerrors "github.com/dokanapp/storefront-go/pkg/errors"
	"github.com/dokanapp/storefront-go/pkg/logger"
	"github.com/dokanapp/storefront-go/pkg/storeapi"
)

// API is the slice of the storefront client the cart store depends on.
type API interface {
	FetchCart(ctx context.Context) ([]storeapi.CartItem, error)
	UpdateCartItem(ctx context.Context, cartID int64, quantity int) error
	RemoveCartItem(ctx context.Context, cartID int64) error
	AddToCart(ctx context.Context, userID, productID int64, quantity int) error
}

// Store mirrors the buyer's server-side cart. Local state changes only
// after the server confirms a mutation; failed calls leave it untouched.
// A per-row in-flight guard serializes mutations on the same cart row so
// two overlapping writes cannot produce a stale overwrite.
type Store struct {
	api  API
	sess *session.Session
	logg *logger.Logger

	mu       sync.Mutex
	items    []storeapi.CartItem
	inflight map[int64]struct{}
}

// NewStore builds a cart store bound to the given session.
func NewStore(api API, sess *session.Session, logg *logger.Logger) (*Store, error) {
	if api == nil {
		return nil, fmt.Errorf("storefront api required")
	}
	if sess == nil {
		return nil, fmt.Errorf("session required")
	}
	return &Store{
		api:      api,
		sess:     sess,
		logg:     logg,
		inflight: make(map[int64]struct{}),
	}, nil
}

// Load replaces the local item list with the server's cart. Without a
// credential the store is simply left empty; being logged out is not a
// failure. A failed fetch keeps whatever was previously loaded.
func (s *Store) Load(ctx context.Context) error {
	if !s.sess.Authenticated() {
		s.mu.Lock()
		s.items = nil
		s.mu.Unlock()
		return nil
	}

	items, err := s.api.FetchCart(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.items = items
	s.mu.Unlock()
	return nil
}

// SetQuantity updates one row's quantity. Zero or negative delegates to
// Remove, so a quantity of zero can never exist locally.
func (s *Store) SetQuantity(ctx context.Context, cartID int64, quantity int) error {
	if quantity <= 0 {
		return s.Remove(ctx, cartID)
	}

	if err := s.acquire(cartID); err != nil {
		return err
	}
	defer s.release(cartID)

	if err := s.api.UpdateCartItem(ctx, cartID, quantity); err != nil {
		return err
	}

	s.mu.Lock()
	for i := range s.items {
		if s.items[i].CartID == cartID {
			s.items[i].Quantity = quantity
			break
		}
	}
	s.mu.Unlock()
	return nil
}

// Remove deletes one row. A NOT_FOUND answer means the row is already
// gone server-side, which is a success from the caller's perspective.
func (s *Store) Remove(ctx context.Context, cartID int64) error {
	if err := s.acquire(cartID); err != nil {
		return err
	}
	defer s.release(cartID)

	if err := s.api.RemoveCartItem(ctx, cartID); err != nil {
		if !pkgerrors.HasCode(err, pkgerrors.CodeNotFound) {
			return err
		}
		if s.logg != nil {
			s.logg.Debug(s.logg.WithCartRowID(ctx, cartID), "cart row already absent on server")
		}
	}

	s.mu.Lock()
	filtered := s.items[:0]
	for _, item := range s.items {
		if item.CartID != cartID {
			filtered = append(filtered, item)
		}
	}
	s.items = filtered
	s.mu.Unlock()
	return nil
}

// Add puts a product in the server-side cart and re-fetches the full list,
// because the server assigns the new row's cart id.
func (s *Store) Add(ctx context.Context, productID int64, quantity int) error {
	if !s.sess.Authenticated() {
		return pkgerrors.New(pkgerrors.CodeAuthMissing, "log in to add items to the cart")
	}
	if quantity <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	if err := s.api.AddToCart(ctx, s.sess.UserID(), productID, quantity); err != nil {
		return err
	}
	return s.Load(ctx)
}

// Total computes the cart total from current rows, rounded to 2 decimal
// places. It is recomputed on every call, never cached.
func (s *Store) Total() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := decimal.Zero
	for _, item := range s.items {
		line := item.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		total = total.Add(line)
	}
	return total.Round(2)
}

// Items returns a snapshot of the current rows.
func (s *Store) Items() []storeapi.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]storeapi.CartItem, len(s.items))
	copy(items, s.items)
	return items
}

// Len returns the current row count.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Clear empties the local list. Called after a confirmed checkout.
func (s *Store) Clear() {
	s.mu.Lock()
	s.items = nil
	s.mu.Unlock()
}

func (s *Store) acquire(cartID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inflight[cartID]; busy {
		return pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("cart row %d already has a request in flight", cartID))
	}
	s.inflight[cartID] = struct{}{}
	return nil
}

func (s *Store) release(cartID int64) {
	s.mu.Lock()
	delete(s.inflight, cartID)
	s.mu.Unlock()
}
