package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vapecloud/miniapp/api/controllers"
	"github.com/vapecloud/miniapp/api/middleware"
	"github.com/vapecloud/miniapp/internal/cart"
	"github.com/vapecloud/miniapp/internal/catalog"
	"github.com/vapecloud/miniapp/internal/locations"
	"github.com/vapecloud/miniapp/internal/orders"
	"github.com/vapecloud/miniapp/internal/users"
	"github.com/vapecloud/miniapp/pkg/config"
	"github.com/vapecloud/miniapp/pkg/db"
	"github.com/vapecloud/miniapp/pkg/logger"
	"github.com/vapecloud/miniapp/pkg/metrics"
	"github.com/vapecloud/miniapp/pkg/redis"
)

// RouterParams carries everything the HTTP surface needs.
type RouterParams struct {
	Config      *config.Config
	Logger      *logger.Logger
	DB          db.Pinger
	Redis       redis.Pinger
	Registry    *prometheus.Registry
	HTTPMetrics *metrics.HTTPMetrics

	Users     users.Service
	Catalog   catalog.Service
	Cart      cart.Service
	Locations locations.Service
	Orders    orders.Service
}

// NewRouter wires the Mini App API.
func NewRouter(params RouterParams) http.Handler {
	cfg := params.Config
	logg := params.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg, params.HTTPMetrics),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, params.DB, params.Redis))
	})

	if params.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(params.Registry, promhttp.HandlerOpts{}))
	}

	identity := middleware.Identity(middleware.IdentityParams{
		JWT:          cfg.JWT,
		BotToken:     cfg.Telegram.BotToken,
		Users:        params.Users,
		AllowDevUser: !cfg.App.IsProd(),
		Logger:       logg,
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/init", controllers.Init(params.Users, cfg, logg))

		r.Get("/sections", controllers.Sections(params.Catalog, logg))
		r.Get("/categories", controllers.Categories(params.Catalog, logg))
		r.Get("/products", controllers.Products(params.Catalog, logg))
		r.Get("/products/featured", controllers.FeaturedProducts(params.Catalog, logg))
		r.Get("/products/search", controllers.ProductSearch(params.Catalog, logg))
		r.Get("/products/{productId}", controllers.ProductDetail(params.Catalog, logg))

		r.Get("/cities", controllers.Cities(params.Locations, logg))
		r.Get("/pickup-locations", controllers.PickupLocations(params.Locations, logg))

		r.Group(func(r chi.Router) {
			r.Use(identity)

			r.Route("/cart", func(r chi.Router) {
				r.Post("/add", controllers.CartAdd(params.Cart, logg))
				r.Get("/items", controllers.CartItems(params.Cart, logg))
				r.Post("/update", controllers.CartUpdate(params.Cart, logg))
				r.Post("/remove", controllers.CartRemove(params.Cart, logg))
			})

			r.Get("/user/profile", controllers.UserProfile(params.Users, params.Orders, logg))
			r.Post("/order/create", controllers.OrderCreate(params.Orders, logg))
		})
	})

	return r
}
