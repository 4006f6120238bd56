package controllers

import (
	"net/http"

	"github.com/dokanapp/storefront-go/api/responses"
	"github.com/dokanapp/storefront-go/api/validators"
	"github.com/dokanapp/storefront-go/pkg/db/models"
	"github.com/dokanapp/storefront-go/pkg/enums"
	pkgerrors "github.com/dokanapp/storefront-go/pkg/errors"
	"github.com/dokanapp/storefront-go/pkg/logger"
	"github.com/dokanapp/storefront-go/pkg/storeapi"
)

// ListActiveOrders returns every order that is not yet delivered.
func ListActiveOrders(repo *Repo, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orders, err := repo.ActiveOrders(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteJSON(w, http.StatusOK, toWireOrders(orders))
	}
}

// ListCompletedOrders returns the delivered bucket.
func ListCompletedOrders(repo *Repo, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orders, err := repo.CompletedOrders(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteJSON(w, http.StatusOK, toWireOrders(orders))
	}
}

type updateOrderBody struct {
	Status string `json:"status" validate:"required"`
}

// UpdateOrderStatus moves an order to the requested status. Any known
// status is accepted from any current state.
func UpdateOrderStatus(repo *Repo, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := validators.ParseURLParamInt64(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateOrderBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		status, err := enums.ParseOrderStatus(body.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unknown order status"))
			return
		}

		if err := repo.UpdateOrderStatus(r.Context(), orderID, status); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if logg != nil {
			lctx := logg.WithOrderID(r.Context(), orderID)
			lctx = logg.WithField(lctx, "status", status.String())
			logg.Info(lctx, "order status updated")
		}
		responses.WriteMessage(w, storeapi.MsgOrderUpdated)
	}
}

func toWireOrders(orders []models.Order) []storeapi.Order {
	out := make([]storeapi.Order, 0, len(orders))
	for _, order := range orders {
		items := make([]storeapi.OrderItem, 0, len(order.Items))
		for _, item := range order.Items {
			items = append(items, storeapi.OrderItem{
				ProductID:   item.ProductID,
				CategoryID:  item.CategoryID,
				ProductName: item.ProductName,
				Price:       item.UnitPrice,
				Quantity:    item.Quantity,
			})
		}
		out = append(out, storeapi.Order{
			ID:          order.ID,
			UserID:      order.UserID,
			TotalAmount: order.TotalAmount,
			Address:     order.Address,
			Phone:       order.Phone,
			Email:       order.Email,
			Status:      order.Status,
			CreatedAt:   order.CreatedAt,
			Items:       items,
		})
	}
	return out
}
