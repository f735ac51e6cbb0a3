package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/prizelink/prizelink-backend/api/controllers"
	"github.com/prizelink/prizelink-backend/api/middleware"
	"github.com/prizelink/prizelink-backend/internal/audit"
	"github.com/prizelink/prizelink-backend/internal/mappings"
	"github.com/prizelink/prizelink-backend/internal/postback"
	"github.com/prizelink/prizelink-backend/internal/registrations"
	"github.com/prizelink/prizelink-backend/pkg/config"
	"github.com/prizelink/prizelink-backend/pkg/db"
	"github.com/prizelink/prizelink-backend/pkg/logger"
	"github.com/prizelink/prizelink-backend/pkg/metrics"
	"github.com/prizelink/prizelink-backend/pkg/redis"
)

type RouterParams struct {
	Config          *config.Config
	Logger          *logger.Logger
	DBPinger        db.Pinger
	RedisClient     *redis.Client
	PostbackService *postback.Service
	PostbackMetrics *metrics.PostbackMetrics
	MetricsRegistry *prometheus.Registry
	MappingsService mappings.Service
	Registrations   registrations.Service
	AuditRepo       audit.Repository
}

func NewRouter(params RouterParams) http.Handler {
	cfg := params.Config
	logg := params.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	// Assign through a typed variable so a nil client stays a nil interface.
	var redisPinger redis.Pinger
	if params.RedisClient != nil {
		redisPinger = params.RedisClient
	}
	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, params.DBPinger, redisPinger))
	})

	if params.MetricsRegistry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(params.MetricsRegistry, promhttp.HandlerOpts{}))
	}

	// Networks call these with GET or POST interchangeably.
	completion := controllers.PostbackCompletion(cfg.Postback, params.PostbackService, params.PostbackMetrics, logg)
	verification := controllers.PostbackVerification(cfg.Postback, params.PostbackService, params.PostbackMetrics, logg)
	r.Route("/postback", func(r chi.Router) {
		r.Get("/", completion)
		r.Post("/", completion)
		r.Get("/verify", verification)
		r.Post("/verify", verification)
	})

	adminLimit := func(next http.Handler) http.Handler { return next }
	if params.RedisClient != nil {
		adminLimit = middleware.AdminRateLimit(params.RedisClient, cfg.RateLimit.AdminLimit, cfg.RateLimit.AdminWindow, logg)
	}
	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(adminLimit)
		r.Post("/mappings", controllers.CreateMapping(params.MappingsService, logg))
		r.Get("/mappings", controllers.ListMappings(params.MappingsService, logg))
		r.Get("/registrations", controllers.ListRegistrations(params.Registrations, logg))
		r.Get("/postback-errors", controllers.ListPostbackErrors(params.AuditRepo, logg))
	})

	return r
}
