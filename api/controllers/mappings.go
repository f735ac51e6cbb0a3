package controllers

import (
	"net/http"
	"strings"

	"github.com/prizelink/prizelink-backend/api/responses"
	"github.com/prizelink/prizelink-backend/api/validators"
	"github.com/prizelink/prizelink-backend/internal/mappings"
	pkgerrors "github.com/prizelink/prizelink-backend/pkg/errors"
	"github.com/prizelink/prizelink-backend/pkg/logger"
	"github.com/prizelink/prizelink-backend/pkg/pagination"
)

type createMappingRequest struct {
	OfferID        string `json:"offerId" validate:"required,min=1,max=128"`
	NetworkOfferID string `json:"networkOfferId" validate:"omitempty,max=128"`
	PrizeID        string `json:"prizeId" validate:"required,min=1,max=128"`
	PrizeName      string `json:"prizeName" validate:"omitempty,max=256"`
}

// CreateMapping installs or replaces the offer to prize mapping for one offer.
func CreateMapping(svc mappings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "mappings service unavailable"))
			return
		}

		var req createMappingRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		mapping, err := svc.Create(r.Context(), mappings.CreateParams{
			OfferID:        req.OfferID,
			NetworkOfferID: req.NetworkOfferID,
			PrizeID:        req.PrizeID,
			PrizeName:      req.PrizeName,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, mapping)
	}
}

// ListMappings returns paginated offer mappings.
func ListMappings(svc mappings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "mappings service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", 0, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params := mappings.ListParams{
			Limit:  limit,
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		}

		resp, err := svc.List(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, resp)
	}
}
