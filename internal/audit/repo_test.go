package audit

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prizelink/prizelink-backend/pkg/db/models"
	"github.com/prizelink/prizelink-backend/pkg/enums"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestRepo(t *testing.T) Repository {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&models.PostbackError{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return NewRepository(conn)
}

func TestRepository_AppendAssignsIdentity(t *testing.T) {
	repo := newTestRepo(t)

	entry := &models.PostbackError{
		Reason:    enums.PostbackErrorMappingNotFound,
		OfferID:   "77",
		Subject:   "a@b.com",
		RawParams: []byte(`{"offer_id":"77"}`),
	}
	if err := repo.Append(context.Background(), entry); err != nil {
		t.Fatalf("append: %v", err)
	}
	if entry.ID == uuid.Nil {
		t.Fatalf("expected generated id")
	}
	if entry.CreatedAt.IsZero() {
		t.Fatalf("expected created timestamp")
	}
}

func TestRepository_ListPaginates(t *testing.T) {
	repo := newTestRepo(t)
	base := time.Date(2025, 9, 2, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		entry := &models.PostbackError{
			Reason:    enums.PostbackErrorMissingOffer,
			Subject:   "a@b.com",
			RawParams: []byte(`{}`),
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := repo.Append(context.Background(), entry); err != nil {
			t.Fatalf("seed %d: %v", i, err)
		}
	}

	first, cursor, err := repo.List(context.Background(), ListParams{Limit: 2})
	if err != nil {
		t.Fatalf("first page: %v", err)
	}
	if len(first) != 2 || cursor == nil {
		t.Fatalf("expected two rows and a cursor, got %d rows", len(first))
	}
	if !first[0].CreatedAt.After(first[1].CreatedAt) {
		t.Fatalf("expected newest first, got %v then %v", first[0].CreatedAt, first[1].CreatedAt)
	}

	second, next, err := repo.List(context.Background(), ListParams{Limit: 2, Cursor: cursor})
	if err != nil {
		t.Fatalf("second page: %v", err)
	}
	if len(second) != 1 || next != nil {
		t.Fatalf("expected final page of one row, got %d", len(second))
	}
}
