package controllers

import (
	"net/http"
	"strings"

	"github.com/prizelink/prizelink-backend/api/responses"
	"github.com/prizelink/prizelink-backend/api/validators"
	"github.com/prizelink/prizelink-backend/internal/audit"
	pkgerrors "github.com/prizelink/prizelink-backend/pkg/errors"
	"github.com/prizelink/prizelink-backend/pkg/logger"
	"github.com/prizelink/prizelink-backend/pkg/pagination"
)

// ListPostbackErrors returns the unmapped-offer audit trail, newest first.
func ListPostbackErrors(repo audit.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if repo == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "audit repository unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", 0, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params := audit.ListParams{Limit: limit}
		if raw := strings.TrimSpace(r.URL.Query().Get("cursor")); raw != "" {
			cursor, err := pagination.ParseCursor(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor"))
				return
			}
			params.Cursor = cursor
		}

		rows, next, err := repo.List(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list postback errors"))
			return
		}

		payload := map[string]any{"items": rows}
		if next != nil {
			payload["cursor"] = pagination.EncodeCursor(*next)
		}
		responses.WriteSuccess(w, payload)
	}
}
