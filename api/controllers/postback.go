package controllers

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/prizelink/prizelink-backend/api/responses"
	"github.com/prizelink/prizelink-backend/internal/postback"
	"github.com/prizelink/prizelink-backend/pkg/config"
	pkgerrors "github.com/prizelink/prizelink-backend/pkg/errors"
	"github.com/prizelink/prizelink-backend/pkg/logger"
	"github.com/prizelink/prizelink-backend/pkg/metrics"
)

const postbackSecretHeader = "X-Postback-Secret"

type postbackService interface {
	HandleCompletion(ctx context.Context, ev postback.Event) (*postback.Result, error)
	HandleVerification(ctx context.Context, ev postback.Event) (*postback.Result, error)
}

// PostbackCompletion accepts completion postbacks from affiliate networks via
// GET or POST. The secret gate runs before any store access.
func PostbackCompletion(cfg config.PostbackConfig, service postbackService, met *metrics.PostbackMetrics, logg *logger.Logger) http.HandlerFunc {
	return handlePostback("completion", cfg, met, logg, service.HandleCompletion)
}

// PostbackVerification accepts verification postbacks addressing an existing
// registration.
func PostbackVerification(cfg config.PostbackConfig, service postbackService, met *metrics.PostbackMetrics, logg *logger.Logger) http.HandlerFunc {
	return handlePostback("verification", cfg, met, logg, service.HandleVerification)
}

func handlePostback(kind string, cfg config.PostbackConfig, met *metrics.PostbackMetrics, logg *logger.Logger, handle func(context.Context, postback.Event) (*postback.Result, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		start := time.Now()

		params, err := postback.ParamsFromRequest(r)
		if err != nil {
			met.IncRejected(kind, "unreadable_request")
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unreadable request"))
			return
		}

		if !secretMatches(cfg.Secret, r, params) {
			met.IncRejected(kind, "bad_secret")
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "invalid postback secret"))
			return
		}

		result, err := handle(ctx, postback.Normalize(params))
		met.ObserveDuration(kind, time.Since(start))
		if err != nil {
			met.IncRejected(kind, rejectionReason(err))
			responses.WriteError(ctx, logg, w, err)
			return
		}

		met.IncOutcome(kind, string(result.Outcome))
		payload := map[string]any{
			"status":  "success",
			"outcome": result.Outcome,
		}
		if result.DedupKey != "" {
			payload["id"] = result.DedupKey
		}
		responses.WriteSuccess(w, payload)
	}
}

// secretMatches passes when no secret is configured. The caller may supply
// the secret as a parameter or a header.
func secretMatches(secret string, r *http.Request, params postback.Params) bool {
	if secret == "" {
		return true
	}
	provided := strings.TrimSpace(params["secret"])
	if provided == "" {
		provided = strings.TrimSpace(params["token"])
	}
	if provided == "" {
		provided = strings.TrimSpace(r.Header.Get(postbackSecretHeader))
	}
	return subtle.ConstantTimeCompare([]byte(provided), []byte(secret)) == 1
}

func rejectionReason(err error) string {
	typed := pkgerrors.As(err)
	if typed == nil {
		return "internal"
	}
	switch typed.Code() {
	case pkgerrors.CodeValidation:
		return "validation"
	case pkgerrors.CodeNotFound:
		return "not_found"
	case pkgerrors.CodeDependency:
		return "store_failure"
	default:
		return "internal"
	}
}
