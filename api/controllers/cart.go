package controllers

import (
	"net/http"

	"github.com/dokanapp/storefront-go/api/middleware"
	"github.com/dokanapp/storefront-go/api/responses"
	"github.com/dokanapp/storefront-go/api/validators"
	pkgerrors "github.com/dokanapp/storefront-go/pkg/errors"
	"github.com/dokanapp/storefront-go/pkg/logger"
	"github.com/dokanapp/storefront-go/pkg/storeapi"
)

// GetCart returns the authenticated buyer's cart rows as a bare array.
func GetCart(repo *Repo, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserIDFromContext(r.Context())
		rows, err := repo.CartRows(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteJSON(w, http.StatusOK, rows)
	}
}

type addToCartBody struct {
	UserID    int64 `json:"user_id" validate:"required"`
	ProductID int64 `json:"product_id" validate:"required"`
	Quantity  int   `json:"quantity" validate:"required,gt=0"`
}

// AddToCart creates or grows a cart row for the authenticated buyer.
func AddToCart(repo *Repo, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body addToCartBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		// The token, not the body, decides whose cart changes.
		userID := middleware.UserIDFromContext(r.Context())
		if body.UserID != userID {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeUnauthorized, "cannot modify another user's cart"))
			return
		}

		if err := repo.AddCartItem(r.Context(), userID, body.ProductID, body.Quantity); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMessage(w, storeapi.MsgAddedToCart)
	}
}

type updateCartBody struct {
	CartID   int64 `json:"cart_id" validate:"required"`
	Quantity int   `json:"quantity"`
}

// UpdateCartItem sets a row's quantity. Zero or below removes the row,
// and the reply message says which happened.
func UpdateCartItem(repo *Repo, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body updateCartBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		userID := middleware.UserIDFromContext(r.Context())
		removed, err := repo.SetCartQuantity(r.Context(), userID, body.CartID, body.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if removed {
			responses.WriteMessage(w, storeapi.MsgItemRemoved)
			return
		}
		responses.WriteMessage(w, storeapi.MsgCartUpdated)
	}
}
