package controllers

import (
	"net/http"

	"github.com/dokanapp/storefront-go/api/responses"
	"github.com/dokanapp/storefront-go/pkg/db/models"
	"github.com/dokanapp/storefront-go/pkg/logger"
	"github.com/dokanapp/storefront-go/pkg/storeapi"
)

func ListProducts(repo *Repo, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		products, err := repo.Products(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		out := make([]storeapi.Product, 0, len(products))
		for _, p := range products {
			out = append(out, toWireProduct(p))
		}
		responses.WriteJSON(w, http.StatusOK, out)
	}
}

func ListCategories(repo *Repo, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categories, err := repo.Categories(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		out := make([]storeapi.Category, 0, len(categories))
		for _, c := range categories {
			out = append(out, storeapi.Category{ID: c.ID, Name: c.Name})
		}
		responses.WriteJSON(w, http.StatusOK, out)
	}
}

func toWireProduct(p models.Product) storeapi.Product {
	return storeapi.Product{
		ID:            p.ID,
		VendorID:      p.VendorID,
		CategoryID:    p.CategoryID,
		Title:         p.Title,
		Description:   p.Description,
		RegularPrice:  p.RegularPrice,
		OfferPrice:    p.OfferPrice,
		StockQuantity: p.StockQuantity,
		ImageURL:      p.ImageURL,
	}
}
