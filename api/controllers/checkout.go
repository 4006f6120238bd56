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

type checkoutBody struct {
	UserID  int64  `json:"user_id" validate:"required"`
	Address string `json:"address" validate:"required"`
	Phone   string `json:"phone" validate:"required"`
	Email   string `json:"email" validate:"required"`
}

// Checkout converts the buyer's cart into a pending order.
func Checkout(repo *Repo, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body checkoutBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		userID := middleware.UserIDFromContext(r.Context())
		if body.UserID != userID {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeUnauthorized, "cannot check out another user's cart"))
			return
		}

		order, err := repo.PlaceOrder(r.Context(), userID, body.Address, body.Phone, body.Email)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if logg != nil {
			lctx := logg.WithOrderID(r.Context(), order.ID)
			lctx = logg.WithField(lctx, "user", middleware.UserNameFromContext(r.Context()))
			lctx = logg.WithField(lctx, "total", order.TotalAmount.String())
			logg.Info(lctx, "order placed")
		}
		responses.WriteCreated(w, storeapi.MsgOrderPlaced)
	}
}
