package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ssenpaii/playtally/models"
	"github.com/ssenpaii/playtally/utils"
)

var errRewardClaimed = errors.New("reward already claimed")

// RewardController handles reward CRUD for the admin and availability /
// redemption for players.
type RewardController struct {
	db *gorm.DB
}

// NewRewardController creates a new controller instance.
func NewRewardController(db *gorm.DB) *RewardController {
	return &RewardController{db: db}
}

type rewardRequest struct {
	Name         string `json:"name" binding:"required"`
	Description  string `json:"description"`
	RequiredDays int    `json:"required_days" binding:"required"`
	RedeemDate   string `json:"redeem_date" binding:"required"`
}

func (r *rewardRequest) validate() string {
	r.Name = utils.SanitizeText(r.Name)
	r.Description = utils.SanitizeText(r.Description)
	r.RedeemDate = strings.TrimSpace(r.RedeemDate)
	if r.Name == "" {
		return "name is required"
	}
	if r.RequiredDays <= 0 {
		return "required_days must be a positive integer"
	}
	if !validDate(r.RedeemDate) {
		return "redeem_date must be a YYYY-MM-DD date"
	}
	return ""
}

// List returns all rewards.
func (r *RewardController) List(ctx *gin.Context) {
	rewards := make([]models.Reward, 0)
	if err := r.db.Order("redeem_date ASC").Find(&rewards).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50030, "failed to load rewards")
		return
	}
	utils.Success(ctx, gin.H{"items": rewards})
}

// Create adds a reward with a freshly generated id.
func (r *RewardController) Create(ctx *gin.Context) {
	var req rewardRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40030, "invalid request payload")
		return
	}
	if msg := req.validate(); msg != "" {
		utils.Error(ctx, http.StatusBadRequest, 40031, msg)
		return
	}

	reward := models.Reward{
		ID:           uuid.NewString(),
		Name:         req.Name,
		Description:  req.Description,
		RequiredDays: req.RequiredDays,
		RedeemDate:   req.RedeemDate,
	}
	if err := r.db.Create(&reward).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50031, "failed to create reward")
		return
	}
	utils.Sugar.Infof("reward created id=%s name=%s", reward.ID, reward.Name)
	utils.Success(ctx, reward)
}

// Update merges fields into an existing reward.
func (r *RewardController) Update(ctx *gin.Context) {
	id := ctx.Param("id")

	var reward models.Reward
	if err := r.db.First(&reward, "id = ?", id).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40430, "reward not found")
		return
	}

	var req rewardRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40030, "invalid request payload")
		return
	}
	if msg := req.validate(); msg != "" {
		utils.Error(ctx, http.StatusBadRequest, 40031, msg)
		return
	}

	reward.Name = req.Name
	reward.Description = req.Description
	reward.RequiredDays = req.RequiredDays
	reward.RedeemDate = req.RedeemDate
	if err := r.db.Save(&reward).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50032, "failed to update reward")
		return
	}
	utils.Success(ctx, reward)
}

// Delete removes a reward outright. Unlike players, rewards are hard-deleted.
func (r *RewardController) Delete(ctx *gin.Context) {
	id := ctx.Param("id")
	res := r.db.Delete(&models.Reward{}, "id = ?", id)
	if res.Error != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50033, "failed to delete reward")
		return
	}
	if res.RowsAffected == 0 {
		utils.Error(ctx, http.StatusNotFound, 40430, "reward not found")
		return
	}
	utils.Success(ctx, gin.H{"deleted": id})
}

// Available lists rewards the authenticated player can redeem right now:
// threshold reached (inclusive), redeem date is exactly today, not claimed.
func (r *RewardController) Available(ctx *gin.Context) {
	username, ok := getUsername(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var player models.Player
	if err := r.db.Where("username = ? AND deleted = ?", username, false).First(&player).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40420, "player not found")
		return
	}

	rewards := make([]models.Reward, 0)
	err := r.db.Where("required_days <= ? AND redeem_date = ? AND claimed = ?",
		player.AttendanceDays, Today(), false).
		Order("required_days DESC").
		Find(&rewards).Error
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50034, "failed to load rewards")
		return
	}
	utils.Success(ctx, gin.H{"items": rewards})
}

// Redeem claims a reward for the authenticated player. Eligibility is
// re-validated server-side; the claimed flag never transitions back.
func (r *RewardController) Redeem(ctx *gin.Context) {
	username, ok := getUsername(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}
	id := ctx.Param("id")

	var player models.Player
	if err := r.db.Where("username = ? AND deleted = ?", username, false).First(&player).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40420, "player not found")
		return
	}

	var reward models.Reward
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&reward, "id = ?", id).Error; err != nil {
			return err
		}
		if reward.Claimed {
			return errRewardClaimed
		}
		if reward.RedeemDate != Today() {
			return errNotRedeemableToday
		}
		if player.AttendanceDays < reward.RequiredDays {
			return errThresholdNotReached
		}
		reward.Claimed = true
		reward.ClaimedBy = player.Username
		return tx.Save(&reward).Error
	})

	switch {
	case err == nil:
		utils.Sugar.Infof("reward redeemed id=%s by=%s", reward.ID, username)
		utils.Success(ctx, reward)
	case errors.Is(err, gorm.ErrRecordNotFound):
		utils.Error(ctx, http.StatusNotFound, 40430, "reward not found")
	case errors.Is(err, errRewardClaimed):
		utils.Error(ctx, http.StatusBadRequest, 40032, "reward already claimed")
	case errors.Is(err, errNotRedeemableToday):
		utils.Error(ctx, http.StatusBadRequest, 40033, "reward is not redeemable today")
	case errors.Is(err, errThresholdNotReached):
		utils.Error(ctx, http.StatusBadRequest, 40034, "attendance days below required threshold")
	default:
		utils.Error(ctx, http.StatusInternalServerError, 50035, "failed to redeem reward")
	}
}

// MarkClaimed is the admin override: it flips the claimed flag without an
// eligibility check, but still only once.
func (r *RewardController) MarkClaimed(ctx *gin.Context) {
	id := ctx.Param("id")

	var reward models.Reward
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&reward, "id = ?", id).Error; err != nil {
			return err
		}
		if reward.Claimed {
			return errRewardClaimed
		}
		reward.Claimed = true
		return tx.Save(&reward).Error
	})

	switch {
	case err == nil:
		utils.Success(ctx, reward)
	case errors.Is(err, gorm.ErrRecordNotFound):
		utils.Error(ctx, http.StatusNotFound, 40430, "reward not found")
	case errors.Is(err, errRewardClaimed):
		utils.Error(ctx, http.StatusBadRequest, 40032, "reward already claimed")
	default:
		utils.Error(ctx, http.StatusInternalServerError, 50036, "failed to mark reward claimed")
	}
}

var (
	errNotRedeemableToday  = errors.New("reward not redeemable today")
	errThresholdNotReached = errors.New("attendance threshold not reached")
)
