package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prizelink/prizelink-backend/api/routes"
	"github.com/prizelink/prizelink-backend/internal/audit"
	"github.com/prizelink/prizelink-backend/internal/mappings"
	"github.com/prizelink/prizelink-backend/internal/postback"
	"github.com/prizelink/prizelink-backend/internal/registrations"
	"github.com/prizelink/prizelink-backend/pkg/config"
	"github.com/prizelink/prizelink-backend/pkg/db"
	"github.com/prizelink/prizelink-backend/pkg/logger"
	"github.com/prizelink/prizelink-backend/pkg/metrics"
	"github.com/prizelink/prizelink-backend/pkg/migrate"
	"github.com/prizelink/prizelink-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	postbackMetrics := metrics.NewPostbackMetrics(registry)

	mappingsService, err := mappings.NewService(mappings.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create mappings service", err)
		os.Exit(1)
	}

	registrationsRepo := registrations.NewRepository(dbClient.DB())
	registrationsService, err := registrations.NewService(registrationsRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create registrations service", err)
		os.Exit(1)
	}

	auditRepo := audit.NewRepository(dbClient.DB())

	guard, err := postback.NewDedupGuard(redisClient, cfg.Postback.DedupTTL, cfg.Postback.Scope)
	if err != nil {
		logg.Error(context.Background(), "failed to create dedup guard", err)
		os.Exit(1)
	}

	postbackService, err := postback.NewService(postback.ServiceParams{
		Mappings:       mappingsService,
		Registrations:  registrationsRepo,
		Audit:          auditRepo,
		Guard:          guard,
		Logger:         logg,
		FallbackBucket: cfg.Postback.FallbackBucket,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create postback service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	instance := os.Getenv("HOSTNAME")
	if instance == "" {
		instance = "local"
	}
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": instance,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.RouterParams{
			Config:          cfg,
			Logger:          logg,
			DBPinger:        dbClient,
			RedisClient:     redisClient,
			PostbackService: postbackService,
			PostbackMetrics: postbackMetrics,
			MetricsRegistry: registry,
			MappingsService: mappingsService,
			Registrations:   registrationsService,
			AuditRepo:       auditRepo,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
