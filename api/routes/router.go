package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/chitts/storefront-backend/api/controllers"
	"github.com/chitts/storefront-backend/api/middleware"
	cartsvc "github.com/chitts/storefront-backend/internal/cart"
	checkoutsvc "github.com/chitts/storefront-backend/internal/checkout"
	"github.com/chitts/storefront-backend/internal/feed"
	ordersvc "github.com/chitts/storefront-backend/internal/orders"
	productsvc "github.com/chitts/storefront-backend/internal/products"
	profilesvc "github.com/chitts/storefront-backend/internal/profile"
	walletsvc "github.com/chitts/storefront-backend/internal/wallet"
	"github.com/chitts/storefront-backend/pkg/config"
	"github.com/chitts/storefront-backend/pkg/logger"
	pkgredis "github.com/chitts/storefront-backend/pkg/redis"
)

// Deps carries everything the HTTP surface needs. Grouping them in a struct
// keeps main readable as the service count grows.
type Deps struct {
	Config *config.Config
	Logger *logger.Logger

	DBPinger    controllers.Pinger
	RedisPinger controllers.Pinger

	IdempotencyStore pkgredis.IdempotencyStore

	Products productsvc.Service
	Cart     cartsvc.Service
	Checkout checkoutsvc.Service
	Orders   ordersvc.Service
	Profile  profilesvc.Service
	Wallet   walletsvc.Service
	Feed     feed.Notifier

	MetricsGatherer prometheus.Gatherer
}

func NewRouter(d Deps) http.Handler {
	cfg := d.Config
	logg := d.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, map[string]controllers.Pinger{
			"db":    d.DBPinger,
			"redis": d.RedisPinger,
		}))
	})

	if d.MetricsGatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(d.MetricsGatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		// Catalog reads are public so the app can browse before sign-in.
		r.Group(func(r chi.Router) {
			r.Get("/products", controllers.ProductList(d.Products, logg))
			r.Get("/products/{slug}", controllers.ProductDetail(d.Products, logg))
			r.Get("/categories", controllers.CategoryList(d.Products, logg))
			r.Get("/categories/{slug}", controllers.CategoryDetail(d.Products, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))
			r.Use(middleware.Idempotency(d.IdempotencyStore, logg))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.CartGet(d.Cart, logg))
				r.Delete("/", controllers.CartReset(d.Cart, logg))
				r.Post("/items", controllers.CartAddItem(d.Cart, d.Products, logg))
				r.Post("/items/{productID}/increment", controllers.CartIncrementItem(d.Cart, logg))
				r.Post("/items/{productID}/decrement", controllers.CartDecrementItem(d.Cart, logg))
				r.Delete("/items/{productID}", controllers.CartRemoveItem(d.Cart, logg))
			})

			r.Post("/checkout/payment-sheet", controllers.CheckoutPaymentSheet(d.Checkout, logg))
			r.Post("/checkout", controllers.CheckoutExecute(d.Checkout, logg))

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.OrderList(d.Orders, logg))
				r.Get("/{slug}", controllers.OrderDetail(d.Orders, logg))
			})

			r.Route("/profile", func(r chi.Router) {
				r.Get("/", controllers.ProfileGet(d.Profile, logg))
				r.Put("/address", controllers.ProfileUpdateAddress(d.Profile, logg))
				r.Delete("/address", controllers.ProfileClearAddress(d.Profile, logg))
			})

			r.Route("/wallet", func(r chi.Router) {
				r.Get("/", controllers.WalletGet(d.Wallet, logg))
				r.Post("/credit", controllers.WalletCredit(d.Wallet, logg))
				r.Get("/events", controllers.WalletEvents(d.Feed, logg))
			})
		})
	})

	return r
}
