package models

import "time"

// CheckIn stores one row per successful daily check-in.
type CheckIn struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PlayerID  uint      `gorm:"index;not null" json:"player_id"`
	Username  string    `gorm:"size:64;index;not null" json:"username"`
	Date      string    `gorm:"size:10;index;not null" json:"date"` // YYYY-MM-DD
	CreatedAt time.Time `json:"created_at"`
}
