package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/prizelink/prizelink-backend/pkg/enums"
)

// PostbackError is an append-only audit row written when a postback cannot be
// reconciled against a mapping. It never blocks the caller's response.
type PostbackError struct {
	ID        uuid.UUID                 `gorm:"column:id;type:uuid;primaryKey"`
	Reason    enums.PostbackErrorReason `gorm:"column:reason;type:text;not null"`
	OfferID   string                    `gorm:"column:offer_id;type:text"`
	Subject   string                    `gorm:"column:subject;type:text"`
	RawParams json.RawMessage           `gorm:"column:raw_params;type:jsonb"`
	CreatedAt time.Time                 `gorm:"column:created_at;autoCreateTime"`
}
