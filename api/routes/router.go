package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dokanapp/storefront-go/api/controllers"
	"github.com/dokanapp/storefront-go/api/middleware"
	"github.com/dokanapp/storefront-go/pkg/config"
	"github.com/dokanapp/storefront-go/pkg/db"
	"github.com/dokanapp/storefront-go/pkg/enums"
	"github.com/dokanapp/storefront-go/pkg/logger"
	"github.com/dokanapp/storefront-go/pkg/metrics"
)

// NewRouter wires the storefront dev server. Paths mirror the production
// API the mobile clients speak, so the client packages in internal/ can
// run against this server unchanged.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	repo *controllers.Repo,
	registry *prometheus.Registry,
) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)
	if registry != nil {
		r.Use(middleware.Metrics(metrics.NewHTTPMetrics(registry)))
	}

	r.Get("/healthz", controllers.Healthz(dbP))
	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/users", func(r chi.Router) {
		r.Post("/login", controllers.Login(repo, cfg.JWT, enums.RoleBuyer, logg))
		r.Post("/register", controllers.RegisterUser(repo, cfg.JWT, cfg.Password, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))
			r.Get("/cart", controllers.GetCart(repo, logg))
			r.Post("/cart/add", controllers.AddToCart(repo, logg))
			r.Put("/cart/update", controllers.UpdateCartItem(repo, logg))
			r.Post("/checkout", controllers.Checkout(repo, logg))
			r.Get("/products", controllers.ListProducts(repo, logg))
		})
	})

	r.Route("/vendors", func(r chi.Router) {
		r.Post("/login", controllers.Login(repo, cfg.JWT, enums.RoleVendor, logg))
		r.Post("/register", controllers.RegisterVendor(repo, cfg.JWT, cfg.Password, logg))
	})

	r.Get("/categories", controllers.ListCategories(repo, logg))

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.RequireRole(string(enums.RoleVendor), logg))
		r.Get("/orders", controllers.ListActiveOrders(repo, logg))
		r.Get("/complete-orders", controllers.ListCompletedOrders(repo, logg))
		r.Put("/orders/{id}", controllers.UpdateOrderStatus(repo, logg))
	})

	return r
}
