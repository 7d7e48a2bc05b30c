package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/basket-service/api/controllers"
	basketcontrollers "github.com/angelmondragon/basket-service/api/controllers/basket"
	"github.com/angelmondragon/basket-service/api/middleware"
	basketsvc "github.com/angelmondragon/basket-service/internal/basket"
	checkoutsvc "github.com/angelmondragon/basket-service/internal/checkout"
	"github.com/angelmondragon/basket-service/pkg/config"
	"github.com/angelmondragon/basket-service/pkg/logger"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	registry *prometheus.Registry,
	readiness map[string]controllers.Pinger,
	basketService basketsvc.Service,
	checkoutService checkoutsvc.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, readiness))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/v1/basket", func(r chi.Router) {
		r.Get("/{userID}", basketcontrollers.BasketFetch(basketService, logg))
		r.Put("/{userID}", basketcontrollers.BasketUpsert(basketService, logg))
		r.Delete("/{userID}", basketcontrollers.BasketDelete(basketService, logg))
		r.Post("/checkout", basketcontrollers.BasketCheckout(checkoutService, logg))
	})

	return r
}
