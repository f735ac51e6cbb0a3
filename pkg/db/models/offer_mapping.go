package models

import "time"

// OfferMapping links a network-side offer id to the internal prize it awards.
// New mappings are addressed by offer_id as the primary key; rows imported from
// the legacy dataset are only reachable through network_offer_id, so resolution
// falls back to an equality query on that column.
type OfferMapping struct {
	OfferID        string     `gorm:"column:offer_id;type:text;primaryKey"`
	NetworkOfferID *string    `gorm:"column:network_offer_id;type:text;index"`
	PrizeID        string     `gorm:"column:prize_id;type:text;not null"`
	PrizeName      *string    `gorm:"column:prize_name;type:text"`
	CreatedAt      time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
