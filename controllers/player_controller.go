package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ssenpaii/playtally/models"
	"github.com/ssenpaii/playtally/utils"
)

// PlayerController handles admin management of players plus the player-owned
// social-links edit.
type PlayerController struct {
	db *gorm.DB
}

// NewPlayerController creates a new controller instance.
func NewPlayerController(db *gorm.DB) *PlayerController {
	return &PlayerController{db: db}
}

// List returns all non-deleted players.
func (p *PlayerController) List(ctx *gin.Context) {
	players := make([]models.Player, 0)
	if err := p.db.Where("deleted = ?", false).Order("username ASC").Find(&players).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50040, "failed to load players")
		return
	}
	utils.Success(ctx, gin.H{"items": players})
}

// ListDeleted returns the soft-deleted history view.
func (p *PlayerController) ListDeleted(ctx *gin.Context) {
	players := make([]models.Player, 0)
	if err := p.db.Where("deleted = ?", true).Order("username ASC").Find(&players).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50041, "failed to load deleted players")
		return
	}
	utils.Success(ctx, gin.H{"items": players})
}

func (p *PlayerController) findPlayer(username string, deleted bool) (*models.Player, error) {
	var player models.Player
	err := p.db.Where("username = ? AND deleted = ?", username, deleted).First(&player).Error
	if err != nil {
		return nil, err
	}
	return &player, nil
}

// SoftDelete flips the deleted flag; the record stays in the table and the
// username stays reserved.
func (p *PlayerController) SoftDelete(ctx *gin.Context) {
	username := ctx.Param("username")
	player, err := p.findPlayer(username, false)
	if err != nil {
		utils.Error(ctx, http.StatusNotFound, 40420, "player not found")
		return
	}

	player.Deleted = true
	if err := p.db.Save(player).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50042, "failed to delete player")
		return
	}
	utils.InvalidateByPrefix(leaderboardCachePrefix)
	utils.Sugar.Infof("player soft-deleted username=%s", username)
	utils.Success(ctx, gin.H{"username": username, "deleted": true})
}

// Restore moves a soft-deleted player back to the live view, counters intact.
func (p *PlayerController) Restore(ctx *gin.Context) {
	username := ctx.Param("username")
	player, err := p.findPlayer(username, true)
	if err != nil {
		utils.Error(ctx, http.StatusNotFound, 40421, "deleted player not found")
		return
	}

	player.Deleted = false
	if err := p.db.Save(player).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50043, "failed to restore player")
		return
	}
	utils.InvalidateByPrefix(leaderboardCachePrefix)
	utils.Sugar.Infof("player restored username=%s", username)
	utils.Success(ctx, gin.H{"username": username, "deleted": false})
}

// UpdateCredentials replaces a player's password and pincode. Only the admin
// may change these after registration.
func (p *PlayerController) UpdateCredentials(ctx *gin.Context) {
	username := ctx.Param("username")

	type request struct {
		Password string `json:"password" binding:"required"`
		Pincode  string `json:"pincode" binding:"required"`
	}
	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40040, "invalid request payload")
		return
	}
	if len(req.Password) < 6 || len(req.Password) > 64 {
		utils.Error(ctx, http.StatusBadRequest, 40041, "password must be 6-64 characters")
		return
	}
	if !utils.ValidPincode(req.Pincode) {
		utils.Error(ctx, http.StatusBadRequest, 40042, "pincode must be exactly 4 digits")
		return
	}

	player, err := p.findPlayer(username, false)
	if err != nil {
		utils.Error(ctx, http.StatusNotFound, 40420, "player not found")
		return
	}

	passwordHash, err := utils.HashSecret(req.Password)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50044, "failed to hash password")
		return
	}
	pincodeHash, err := utils.HashSecret(req.Pincode)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50045, "failed to hash pincode")
		return
	}

	player.PasswordHash = passwordHash
	player.PincodeHash = pincodeHash
	if err := p.db.Save(player).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50046, "failed to update credentials")
		return
	}
	utils.Sugar.Infof("credentials updated username=%s", username)
	utils.Success(ctx, gin.H{"username": username})
}

// ResetAttendance zeroes the counter and clears the last check-in date.
func (p *PlayerController) ResetAttendance(ctx *gin.Context) {
	username := ctx.Param("username")
	player, err := p.findPlayer(username, false)
	if err != nil {
		utils.Error(ctx, http.StatusNotFound, 40420, "player not found")
		return
	}

	player.AttendanceDays = 0
	player.LastCheckIn = ""
	if err := p.db.Save(player).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50047, "failed to reset attendance")
		return
	}
	utils.InvalidateByPrefix(leaderboardCachePrefix)
	utils.Sugar.Infof("attendance reset username=%s", username)
	utils.Success(ctx, gin.H{"username": username, "attendance_days": 0})
}

// UpdateMySocials lets the authenticated player edit their own social links.
func (p *PlayerController) UpdateMySocials(ctx *gin.Context) {
	username, ok := getUsername(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	type request struct {
		Facebook  string `json:"facebook"`
		Instagram string `json:"instagram"`
		TikTok    string `json:"tiktok"`
	}
	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40043, "invalid request payload")
		return
	}

	player, err := p.findPlayer(username, false)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40420, "player not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50048, "failed to load player")
		return
	}

	player.Facebook = utils.SanitizeURL(strings.TrimSpace(req.Facebook))
	player.Instagram = utils.SanitizeURL(strings.TrimSpace(req.Instagram))
	player.TikTok = utils.SanitizeURL(strings.TrimSpace(req.TikTok))
	if err := p.db.Save(player).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50049, "failed to update socials")
		return
	}

	utils.Success(ctx, gin.H{
		"facebook":  player.Facebook,
		"instagram": player.Instagram,
		"tiktok":    player.TikTok,
	})
}
