package registrations

import (
	"context"
	"testing"
	"time"

	"github.com/prizelink/prizelink-backend/pkg/db/models"
	pkgerrors "github.com/prizelink/prizelink-backend/pkg/errors"
	"github.com/prizelink/prizelink-backend/pkg/pagination"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubListRepo struct {
	rows []models.Registration
	next *pagination.Cursor
	err  error
	got  listRegistrationsParams
}

func (s *stubListRepo) FindByID(_ context.Context, _ string) (*models.Registration, error) {
	return nil, nil
}

func (s *stubListRepo) FindByKey(_ context.Context, _ string) (*models.Registration, error) {
	return nil, nil
}

func (s *stubListRepo) CreateIfAbsent(_ context.Context, _ *models.Registration) (bool, error) {
	return false, nil
}

func (s *stubListRepo) MarkVerified(_ context.Context, _ string, _ *decimal.Decimal, _ time.Time) (bool, error) {
	return false, nil
}

func (s *stubListRepo) List(_ context.Context, params listRegistrationsParams) ([]models.Registration, *pagination.Cursor, error) {
	s.got = params
	return s.rows, s.next, s.err
}

func TestService_ListEncodesNextCursor(t *testing.T) {
	repo := &stubListRepo{
		rows: []models.Registration{{ID: "T1"}},
		next: &pagination.Cursor{CreatedAt: time.Date(2025, 9, 2, 10, 0, 0, 0, time.UTC), ID: "T2"},
	}
	service, err := NewService(repo)
	require.NoError(t, err)

	result, err := service.List(context.Background(), ListParams{Limit: 1})
	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	assert.Equal(t, "T1", result.Items[0].ID)
	require.NotEmpty(t, result.Cursor)

	cursor, err := pagination.ParseCursor(result.Cursor)
	require.NoError(t, err)
	assert.Equal(t, "T2", cursor.ID)
}

func TestService_ListRejectsBadCursor(t *testing.T) {
	service, err := NewService(&stubListRepo{})
	require.NoError(t, err)

	_, err = service.List(context.Background(), ListParams{Cursor: "not-base64!"})
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
}

func TestService_ListPassesLimitThrough(t *testing.T) {
	repo := &stubListRepo{}
	service, err := NewService(repo)
	require.NoError(t, err)

	_, err = service.List(context.Background(), ListParams{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 10, repo.got.Limit)
}
