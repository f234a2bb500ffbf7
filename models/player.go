package models

import (
	"time"

	"gorm.io/gorm"
)

// Player represents a registered participant. Password and pincode are stored
// as bcrypt hashes only; the 4-digit pincode is a separate secret used solely
// for the daily check-in action.
type Player struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Username       string    `gorm:"size:64;not null;uniqueIndex" json:"username"`
	PasswordHash   string    `gorm:"size:255;not null" json:"-"`
	PincodeHash    string    `gorm:"size:255;not null" json:"-"`
	AttendanceDays int       `gorm:"default:0" json:"attendance_days"`
	LastCheckIn    string    `gorm:"size:10" json:"last_check_in"` // YYYY-MM-DD, empty when never checked in
	// Deleted is a restorable soft-delete flag. A plain column instead of
	// gorm.DeletedAt: deleted players stay queryable for the history view and
	// the username stays reserved across live and deleted records.
	Deleted   bool      `gorm:"default:false;index" json:"deleted"`
	Facebook  string    `gorm:"size:512" json:"facebook"`
	Instagram string    `gorm:"size:512" json:"instagram"`
	TikTok    string    `gorm:"size:512" json:"tiktok"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate hook ensures timestamps are set even when not provided.
func (p *Player) BeforeCreate(tx *gorm.DB) error {
	now := time.Now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	return nil
}

// BeforeUpdate ensures the UpdatedAt timestamp is refreshed.
func (p *Player) BeforeUpdate(tx *gorm.DB) error {
	p.UpdatedAt = time.Now()
	return nil
}
