package registrations

import (
	"context"
	"errors"
	"time"

	"github.com/prizelink/prizelink-backend/pkg/db"
	"github.com/prizelink/prizelink-backend/pkg/db/models"
	"github.com/prizelink/prizelink-backend/pkg/enums"
	"github.com/prizelink/prizelink-backend/pkg/pagination"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Repository exposes persistence helpers for participant registrations.
type Repository interface {
	FindByID(ctx context.Context, id string) (*models.Registration, error)
	FindByKey(ctx context.Context, key string) (*models.Registration, error)
	CreateIfAbsent(ctx context.Context, reg *models.Registration) (bool, error)
	MarkVerified(ctx context.Context, id string, payout *decimal.Decimal, now time.Time) (bool, error)
	List(ctx context.Context, params listRegistrationsParams) ([]models.Registration, *pagination.Cursor, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a registrations repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

type listRegistrationsParams struct {
	Limit  int
	Cursor *pagination.Cursor
}

func (r *repositoryImpl) FindByID(ctx context.Context, id string) (*models.Registration, error) {
	var reg models.Registration
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&reg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &reg, nil
}

func (r *repositoryImpl) FindByKey(ctx context.Context, key string) (*models.Registration, error) {
	var rows []models.Registration
	err := r.db.WithContext(ctx).Where("key = ?", key).Limit(1).Find(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// CreateIfAbsent inserts the registration at its derived identity. A unique
// violation means another delivery of the same event already won the race;
// that is reported as created=false, never as an error.
func (r *repositoryImpl) CreateIfAbsent(ctx context.Context, reg *models.Registration) (bool, error) {
	err := r.db.WithContext(ctx).Create(reg).Error
	if err == nil {
		return true, nil
	}
	if db.IsUniqueViolation(err, "") {
		return false, nil
	}
	return false, err
}

// MarkVerified flips the verification flags on the registration at id. Payout
// is backfilled only when the stored value is still absent, so a verification
// retry can never overwrite a previously reported amount.
func (r *repositoryImpl) MarkVerified(ctx context.Context, id string, payout *decimal.Decimal, now time.Time) (bool, error) {
	updates := map[string]any{
		"verified":    true,
		"completed":   true,
		"status":      enums.RegistrationStatusVerified,
		"verified_at": now,
		"updated_at":  now,
	}
	if payout != nil {
		updates["payout"] = gorm.Expr("COALESCE(payout, ?)", *payout)
	}

	result := r.db.WithContext(ctx).
		Model(&models.Registration{}).
		Where("id = ?", id).
		Updates(updates)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repositoryImpl) List(ctx context.Context, params listRegistrationsParams) ([]models.Registration, *pagination.Cursor, error) {
	limit := pagination.LimitWithBuffer(params.Limit)
	normalized := pagination.NormalizeLimit(params.Limit)
	query := r.db.WithContext(ctx).Model(&models.Registration{})
	if params.Cursor != nil {
		query = query.Where("(received_at, id) < (?, ?)", params.Cursor.CreatedAt, params.Cursor.ID)
	}

	var regs []models.Registration
	if err := query.Order("received_at DESC, id DESC").Limit(limit).Find(&regs).Error; err != nil {
		return nil, nil, err
	}

	if len(regs) > normalized {
		next := regs[normalized]
		regs = regs[:normalized]
		return regs, &pagination.Cursor{CreatedAt: next.ReceivedAt, ID: next.ID}, nil
	}
	return regs, nil, nil
}
