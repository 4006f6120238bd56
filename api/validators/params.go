package validators

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	pkgerrors "github.com/dokanapp/storefront-go/pkg/errors"
)

// ParseURLParamInt64 reads a chi route parameter as a positive integer id.
func ParseURLParamInt64(r *http.Request, key string) (int64, error) {
	raw := strings.TrimSpace(chi.URLParam(r, key))
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || value <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "route parameter must be a positive id").
			WithDetails(map[string]any{"field": key})
	}
	return value, nil
}
