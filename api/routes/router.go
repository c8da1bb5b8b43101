package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/appakade/pos-backend/api/controllers"
	"github.com/appakade/pos-backend/api/middleware"
	checkoutsvc "github.com/appakade/pos-backend/internal/checkout"
	itemsvc "github.com/appakade/pos-backend/internal/items"
	ordersvc "github.com/appakade/pos-backend/internal/orders"
	"github.com/appakade/pos-backend/pkg/config"
	"github.com/appakade/pos-backend/pkg/db"
	"github.com/appakade/pos-backend/pkg/logger"
	pkgredis "github.com/appakade/pos-backend/pkg/redis"
)

// Deps bundles everything the HTTP surface needs. IdempotencyStore,
// CachePinger and MetricsRegistry may be nil; the matching features are
// simply left off.
type Deps struct {
	Config           *config.Config
	Logger           *logger.Logger
	DBPinger         db.Pinger
	CachePinger      pkgredis.Pinger
	IdempotencyStore pkgredis.IdempotencyStore
	MetricsRegistry  *prometheus.Registry

	Items    itemsvc.Service
	Checkout checkoutsvc.Service
	Orders   ordersvc.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, deps.DBPinger, deps.CachePinger, logg))
	})

	if deps.MetricsRegistry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.MetricsRegistry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/items", func(r chi.Router) {
			r.Get("/", controllers.ListItems(deps.Items, logg))
			r.Post("/", controllers.CreateItem(deps.Items, logg))
			r.Get("/low-stock", controllers.ListLowStockItems(deps.Items, logg))
			r.Route("/{itemID}", func(r chi.Router) {
				r.Get("/", controllers.GetItem(deps.Items, logg))
				r.Put("/", controllers.UpdateItem(deps.Items, logg))
				r.Delete("/", controllers.DeleteItem(deps.Items, logg))
			})
		})

		r.With(middleware.Idempotency(deps.IdempotencyStore, logg)).
			Post("/checkout", controllers.Checkout(deps.Checkout, logg))

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.ListOrders(deps.Orders, logg))
			r.Get("/{orderID}/items", controllers.ListOrderItems(deps.Orders, logg))
		})
	})

	return r
}
