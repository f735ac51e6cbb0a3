package controllers

import (
	"net/http"

	"github.com/prizelink/prizelink-backend/api/responses"
	"github.com/prizelink/prizelink-backend/pkg/config"
	"github.com/prizelink/prizelink-backend/pkg/db"
	pkgerrors "github.com/prizelink/prizelink-backend/pkg/errors"
	"github.com/prizelink/prizelink-backend/pkg/logger"
	"github.com/prizelink/prizelink-backend/pkg/redis"
	"go.uber.org/multierr"
)

const envHeader = "X-PrizeLink-Env"

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports readiness by pinging every hard dependency. A single
// failing dependency fails the whole check.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, redisP redis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		ctx := r.Context()

		var err error
		if dbP != nil {
			err = multierr.Append(err, dbP.Ping(ctx))
		}
		if redisP != nil {
			err = multierr.Append(err, redisP.Ping(ctx))
		}
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "dependency check failed"))
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
