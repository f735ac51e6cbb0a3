package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/prizelink/prizelink-backend/pkg/enums"
)

// Registration is one subject's engagement with one offer. The row id is the
// derived dedup key (transaction id when the network sent one, subject+offer
// otherwise), so existence at the id doubles as the processing ledger.
type Registration struct {
	ID         string                   `gorm:"column:id;type:text;primaryKey"`
	Key        *string                  `gorm:"column:key;type:text;index"`
	Subject    string                   `gorm:"column:subject;type:text;not null;index"`
	OfferID    string                   `gorm:"column:offer_id;type:text"`
	PrizeID    *string                  `gorm:"column:prize_id;type:text"`
	Prize      string                   `gorm:"column:prize;type:text;not null"`
	Status     enums.RegistrationStatus `gorm:"column:status;type:registration_status;not null;default:'accepted'"`
	Verified   bool                     `gorm:"column:verified;not null;default:false"`
	Completed  bool                     `gorm:"column:completed;not null;default:false"`
	Payout     *decimal.Decimal         `gorm:"column:payout;type:numeric(14,4)"`
	TxID       *string                  `gorm:"column:tx_id;type:text"`
	RawParams  json.RawMessage          `gorm:"column:raw_params;type:jsonb"`
	ReceivedAt time.Time                `gorm:"column:received_at;not null"`
	VerifiedAt *time.Time               `gorm:"column:verified_at"`
	CreatedAt  time.Time                `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time                `gorm:"column:updated_at;autoUpdateTime"`
}
