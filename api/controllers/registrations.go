package controllers

import (
	"net/http"
	"strings"

	"github.com/prizelink/prizelink-backend/api/responses"
	"github.com/prizelink/prizelink-backend/api/validators"
	"github.com/prizelink/prizelink-backend/internal/registrations"
	pkgerrors "github.com/prizelink/prizelink-backend/pkg/errors"
	"github.com/prizelink/prizelink-backend/pkg/logger"
	"github.com/prizelink/prizelink-backend/pkg/pagination"
)

// ListRegistrations returns paginated registrations, newest first.
func ListRegistrations(svc registrations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "registrations service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", 0, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		resp, err := svc.List(r.Context(), registrations.ListParams{
			Limit:  limit,
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, resp)
	}
}
