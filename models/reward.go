package models

import "time"

// Reward is redeemable once, on the exact RedeemDate, by a player whose
// attendance counter has reached RequiredDays.
type Reward struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	Name         string    `gorm:"size:255;not null" json:"name"`
	Description  string    `gorm:"size:1024" json:"description"`
	RequiredDays int       `gorm:"not null" json:"required_days"`
	RedeemDate   string    `gorm:"size:10;not null;index" json:"redeem_date"` // YYYY-MM-DD
	Claimed      bool      `gorm:"default:false" json:"claimed"`
	ClaimedBy    string    `gorm:"size:64" json:"claimed_by"` // empty for admin overrides
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
