package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pharmadist/pricing-engine/api/controllers"
	"github.com/pharmadist/pricing-engine/api/middleware"
	"github.com/pharmadist/pricing-engine/internal/pricing"
	"github.com/pharmadist/pricing-engine/internal/promotions"
	"github.com/pharmadist/pricing-engine/pkg/config"
	"github.com/pharmadist/pricing-engine/pkg/db"
	"github.com/pharmadist/pricing-engine/pkg/logger"
	"github.com/pharmadist/pricing-engine/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	pricingService pricing.Service,
	promotionService promotions.Service,
	registry *prometheus.Registry,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	validatePolicy := middleware.NewRateLimitPolicy(
		"validate",
		cfg.RateLimit.ValidateWindow,
		cfg.RateLimit.ValidateIPLimit,
		cfg.RateLimit.ValidateCustomerLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/v1/pricing", func(r chi.Router) {
		r.Post("/calculate", controllers.CalculatePrice(pricingService, logg))
		r.Post("/calculate-batch", controllers.CalculateBatch(pricingService, logg))
	})

	r.Route("/v1/promotions", func(r chi.Router) {
		r.With(middleware.RateLimit(validatePolicy, redisClient, logg)).
			Post("/validate", controllers.ValidatePromotion(promotionService, logg))
		r.Post("/apply", controllers.ApplyPromotion(promotionService, logg))
	})

	return r
}
