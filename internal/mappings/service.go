package mappings

import (
	"context"
	"strings"

	"github.com/prizelink/prizelink-backend/pkg/db/models"
	pkgerrors "github.com/prizelink/prizelink-backend/pkg/errors"
	"github.com/prizelink/prizelink-backend/pkg/pagination"
)

// Service defines offer mapping administration and resolution.
type Service interface {
	Create(ctx context.Context, params CreateParams) (*models.OfferMapping, error)
	Resolve(ctx context.Context, offerID string) (*models.OfferMapping, error)
	List(ctx context.Context, params ListParams) (*ListResult, error)
}

type service struct {
	repo Repository
}

// CreateParams carries the fields for a new or replaced mapping.
type CreateParams struct {
	OfferID        string
	NetworkOfferID string
	PrizeID        string
	PrizeName      string
}

// ListParams configures pagination for mappings.
type ListParams struct {
	Limit  int
	Cursor string
}

// ListResult wraps returned mappings and the cursor for the next page.
type ListResult struct {
	Items  []models.OfferMapping `json:"items"`
	Cursor string                `json:"cursor"`
}

// NewService wires mapping dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "mappings repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, params CreateParams) (*models.OfferMapping, error) {
	offerID := strings.TrimSpace(params.OfferID)
	prizeID := strings.TrimSpace(params.PrizeID)
	if offerID == "" || prizeID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "offerId and prizeId are required")
	}

	mapping := &models.OfferMapping{
		OfferID: offerID,
		PrizeID: prizeID,
	}
	if v := strings.TrimSpace(params.NetworkOfferID); v != "" {
		mapping.NetworkOfferID = &v
	}
	if v := strings.TrimSpace(params.PrizeName); v != "" {
		mapping.PrizeName = &v
	}

	if err := s.repo.Upsert(ctx, mapping); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upsert mapping")
	}
	return mapping, nil
}

// Resolve looks up the prize for offerID: first by primary identity, then by
// the legacy network_offer_id column. A (nil, nil) return means unmapped; the
// caller decides what that costs, not this service.
func (s *service) Resolve(ctx context.Context, offerID string) (*models.OfferMapping, error) {
	offerID = strings.TrimSpace(offerID)
	if offerID == "" {
		return nil, nil
	}

	mapping, err := s.repo.FindByOfferID(ctx, offerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup mapping by offer id")
	}
	if mapping != nil {
		return mapping, nil
	}

	mapping, err = s.repo.FindByNetworkOfferID(ctx, offerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup mapping by network offer id")
	}
	return mapping, nil
}

func (s *service) List(ctx context.Context, params ListParams) (*ListResult, error) {
	query := listMappingsParams{Limit: params.Limit}
	if params.Cursor != "" {
		cursor, err := pagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		query.Cursor = cursor
	}

	rows, next, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list mappings")
	}

	cursor := ""
	if next != nil {
		cursor = pagination.EncodeCursor(*next)
	}

	return &ListResult{
		Items:  rows,
		Cursor: cursor,
	}, nil
}
