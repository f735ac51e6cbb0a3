package mappings

import (
	"context"
	"errors"

	"github.com/prizelink/prizelink-backend/pkg/db/models"
	"github.com/prizelink/prizelink-backend/pkg/pagination"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository exposes persistence helpers for offer mappings.
type Repository interface {
	Upsert(ctx context.Context, mapping *models.OfferMapping) error
	FindByOfferID(ctx context.Context, offerID string) (*models.OfferMapping, error)
	FindByNetworkOfferID(ctx context.Context, value string) (*models.OfferMapping, error)
	List(ctx context.Context, params listMappingsParams) ([]models.OfferMapping, *pagination.Cursor, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a mappings repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

type listMappingsParams struct {
	Limit  int
	Cursor *pagination.Cursor
}

func (r *repositoryImpl) Upsert(ctx context.Context, mapping *models.OfferMapping) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "offer_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"network_offer_id", "prize_id", "prize_name", "updated_at"}),
		}).
		Create(mapping).Error
}

func (r *repositoryImpl) FindByOfferID(ctx context.Context, offerID string) (*models.OfferMapping, error) {
	var mapping models.OfferMapping
	err := r.db.WithContext(ctx).Where("offer_id = ?", offerID).First(&mapping).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &mapping, nil
}

func (r *repositoryImpl) FindByNetworkOfferID(ctx context.Context, value string) (*models.OfferMapping, error) {
	var rows []models.OfferMapping
	err := r.db.WithContext(ctx).Where("network_offer_id = ?", value).Limit(1).Find(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

func (r *repositoryImpl) List(ctx context.Context, params listMappingsParams) ([]models.OfferMapping, *pagination.Cursor, error) {
	limit := pagination.LimitWithBuffer(params.Limit)
	normalized := pagination.NormalizeLimit(params.Limit)
	query := r.db.WithContext(ctx).Model(&models.OfferMapping{})
	if params.Cursor != nil {
		query = query.Where("(created_at, offer_id) < (?, ?)", params.Cursor.CreatedAt, params.Cursor.ID)
	}

	var mappings []models.OfferMapping
	if err := query.Order("created_at DESC, offer_id DESC").Limit(limit).Find(&mappings).Error; err != nil {
		return nil, nil, err
	}

	if len(mappings) > normalized {
		next := mappings[normalized]
		mappings = mappings[:normalized]
		return mappings, &pagination.Cursor{CreatedAt: next.CreatedAt, ID: next.OfferID}, nil
	}
	return mappings, nil, nil
}
