// Package checkout converts the current cart into a placed order. The
// transaction validates delivery details locally, submits them once, and
// empties the cart only after the server confirms the order.
package checkout

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/dokanapp/storefront-go/internal/session"
	pkgerrors "github.com/dokanapp/storefront-go/pkg/errors"
	"github.com/dokanapp/storefront-go/pkg/logger"
	"github.com/dokanapp/storefront-go/pkg/storeapi"
)

// API is the slice of the transport the transaction needs.
type API interface {
	Checkout(ctx context.Context, req storeapi.CheckoutRequest) error
}

// Cart is the local cart the transaction reads and, on success, empties.
type Cart interface {
	Len() int
	Clear()
}

// Details carries the delivery information a buyer types in. All three
// fields must be non-empty after trimming; no format is imposed beyond
// that, matching what the server accepts.
type Details struct {
	Address string `json:"address" validate:"required"`
	Phone   string `json:"phone" validate:"required"`
	Email   string `json:"email" validate:"required"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" {
			return f.Name
		}
		return tag
	})
	return v
}

// Transaction places orders for one session.
type Transaction struct {
	api  API
	cart Cart
	sess *session.Session
	logg *logger.Logger
}

func NewTransaction(api API, cart Cart, sess *session.Session, logg *logger.Logger) (*Transaction, error) {
	if api == nil {
		return nil, fmt.Errorf("checkout: api is required")
	}
	if cart == nil {
		return nil, fmt.Errorf("checkout: cart is required")
	}
	if sess == nil {
		return nil, fmt.Errorf("checkout: session is required")
	}
	return &Transaction{api: api, cart: cart, sess: sess, logg: logg}, nil
}

// Place validates details, submits the checkout request and clears the
// cart once the server confirms. Any failure leaves the cart contents
// untouched so the buyer can retry.
func (t *Transaction) Place(ctx context.Context, details Details) error {
	if !t.sess.Authenticated() {
		return pkgerrors.New(pkgerrors.CodeAuthMissing, "log in before checking out")
	}
	if t.cart.Len() == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	details.Address = strings.TrimSpace(details.Address)
	details.Phone = strings.TrimSpace(details.Phone)
	details.Email = strings.TrimSpace(details.Email)
	if err := validate.Struct(details); err != nil {
		return formatValidationErrors(err)
	}

	userID := t.sess.UserID()
	req := storeapi.CheckoutRequest{
		UserID:  userID,
		Address: details.Address,
		Phone:   details.Phone,
		Email:   details.Email,
	}
	if err := t.api.Checkout(ctx, req); err != nil {
		return err
	}

	t.cart.Clear()
	if t.logg != nil {
		t.logg.Info(t.logg.WithUserID(ctx, userID), "order placed")
	}
	return nil
}

func formatValidationErrors(err error) *pkgerrors.Error {
	if errs, ok := err.(validator.ValidationErrors); ok {
		details := map[string]string{}
		for _, fieldErr := range errs {
			details[fieldErr.Field()] = validationMessage(fieldErr)
		}
		return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(details)
	}
	return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "validation failed")
}

func validationMessage(fe validator.FieldError) string {
	if fe.Tag() == "required" {
		return "is required"
	}
	return "is invalid"
}
