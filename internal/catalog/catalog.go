// Package catalog gives read access to the storefront's products and
// categories. The storefront never writes catalog data.
package catalog

import (
	"context"
	"fmt"
	"sync"

	"github.com/dokanapp/storefront-go/pkg/storeapi"
)

type API interface {
	ListProducts(ctx context.Context) ([]storeapi.Product, error)
	ListCategories(ctx context.Context) ([]storeapi.Category, error)
}

// Reader caches the latest successful listings so browsing survives a
// flaky connection.
type Reader struct {
	api API

	mu         sync.Mutex
	products   []storeapi.Product
	categories []storeapi.Category
}

func NewReader(api API) (*Reader, error) {
	if api == nil {
		return nil, fmt.Errorf("storefront api required")
	}
	return &Reader{api: api}, nil
}

// LoadProducts fetches the product listing. A failed fetch keeps the
// previous listing.
func (r *Reader) LoadProducts(ctx context.Context) error {
	products, err := r.api.ListProducts(ctx)
	if err != nil {
		return err
	}
	r.mu.Lock()
	r.products = products
	r.mu.Unlock()
	return nil
}

// LoadCategories fetches the category listing.
func (r *Reader) LoadCategories(ctx context.Context) error {
	categories, err := r.api.ListCategories(ctx)
	if err != nil {
		return err
	}
	r.mu.Lock()
	r.categories = categories
	r.mu.Unlock()
	return nil
}

func (r *Reader) Products() []storeapi.Product {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]storeapi.Product, len(r.products))
	copy(out, r.products)
	return out
}

func (r *Reader) Categories() []storeapi.Category {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]storeapi.Category, len(r.categories))
	copy(out, r.categories)
	return out
}

// ProductsInCategory filters the cached products by category.
func (r *Reader) ProductsInCategory(categoryID int64) []storeapi.Product {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []storeapi.Product
	for _, p := range r.products {
		if p.CategoryID != nil && *p.CategoryID == categoryID {
			out = append(out, p)
		}
	}
	return out
}

// Product looks a product up in the cache by id.
func (r *Reader) Product(id int64) (storeapi.Product, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.products {
		if p.ID == id {
			return p, true
		}
	}
	return storeapi.Product{}, false
}
