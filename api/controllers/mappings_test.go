package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prizelink/prizelink-backend/internal/mappings"
	"github.com/prizelink/prizelink-backend/pkg/db/models"
)

type stubMappingsService struct {
	created *mappings.CreateParams
	list    *mappings.ListResult
}

func (s *stubMappingsService) Create(_ context.Context, params mappings.CreateParams) (*models.OfferMapping, error) {
	s.created = &params
	return &models.OfferMapping{OfferID: params.OfferID, PrizeID: params.PrizeID}, nil
}

func (s *stubMappingsService) Resolve(_ context.Context, _ string) (*models.OfferMapping, error) {
	return nil, nil
}

func (s *stubMappingsService) List(_ context.Context, _ mappings.ListParams) (*mappings.ListResult, error) {
	return s.list, nil
}

func TestCreateMapping(t *testing.T) {
	svc := &stubMappingsService{}
	handler := CreateMapping(svc, nil)

	body := strings.NewReader(`{"offerId":"42","prizeId":"P9","prizeName":"Gold Pack"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/mappings", body)
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.created == nil || svc.created.OfferID != "42" || svc.created.PrizeName != "Gold Pack" {
		t.Fatalf("unexpected create params: %+v", svc.created)
	}
}

func TestCreateMapping_RejectsMissingFields(t *testing.T) {
	svc := &stubMappingsService{}
	handler := CreateMapping(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/mappings", strings.NewReader(`{"offerId":"42"}`))
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if svc.created != nil {
		t.Fatalf("service must not be called for invalid body")
	}
}

func TestListMappings_RejectsBadLimit(t *testing.T) {
	svc := &stubMappingsService{list: &mappings.ListResult{}}
	handler := ListMappings(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/v1/mappings?limit=abc", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestListMappings(t *testing.T) {
	svc := &stubMappingsService{list: &mappings.ListResult{Items: []models.OfferMapping{{OfferID: "42"}}}}
	handler := ListMappings(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/v1/mappings?limit=10", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"42"`) {
		t.Fatalf("expected mapping in payload: %s", rec.Body.String())
	}
}
