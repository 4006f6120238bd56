package controllers

import (
	"net/http"

	"github.com/dokanapp/storefront-go/api/responses"
	"github.com/dokanapp/storefront-go/pkg/db"
)

// Healthz reports liveness and, when a database is attached, its reachability.
func Healthz(pinger db.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := map[string]string{"status": "ok"}
		if pinger != nil {
			if err := pinger.Ping(r.Context()); err != nil {
				responses.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{
					"status": "degraded",
					"db":     err.Error(),
				})
				return
			}
			status["db"] = "ok"
		}
		responses.WriteJSON(w, http.StatusOK, status)
	}
}
