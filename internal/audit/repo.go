package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/prizelink/prizelink-backend/pkg/db/models"
	"github.com/prizelink/prizelink-backend/pkg/pagination"
	"gorm.io/gorm"
)

// Repository records postbacks that could not be matched to an offer mapping.
// Entries are append-only; nothing in the serving path ever reads them back.
type Repository interface {
	Append(ctx context.Context, entry *models.PostbackError) error
	List(ctx context.Context, params ListParams) ([]models.PostbackError, *pagination.Cursor, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns an audit repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

// ListParams configures pagination for the audit trail.
type ListParams struct {
	Limit  int
	Cursor *pagination.Cursor
}

func (r *repositoryImpl) Append(ctx context.Context, entry *models.PostbackError) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *repositoryImpl) List(ctx context.Context, params ListParams) ([]models.PostbackError, *pagination.Cursor, error) {
	limit := pagination.LimitWithBuffer(params.Limit)
	normalized := pagination.NormalizeLimit(params.Limit)
	query := r.db.WithContext(ctx).Model(&models.PostbackError{})
	if params.Cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", params.Cursor.CreatedAt, params.Cursor.ID)
	}

	var rows []models.PostbackError
	if err := query.Order("created_at DESC, id DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, nil, err
	}

	if len(rows) > normalized {
		next := rows[normalized]
		rows = rows[:normalized]
		return rows, &pagination.Cursor{CreatedAt: next.CreatedAt, ID: next.ID.String()}, nil
	}
	return rows, nil, nil
}
