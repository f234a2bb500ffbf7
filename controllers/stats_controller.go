package controllers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ssenpaii/playtally/models"
	"github.com/ssenpaii/playtally/utils"
)

// StatsController provides aggregate figures for the dashboards.
type StatsController struct {
	db *gorm.DB
}

// NewStatsController creates a new StatsController instance.
func NewStatsController(db *gorm.DB) *StatsController {
	return &StatsController{db: db}
}

// GetStats returns player, reward and check-in counts plus today's visits.
// Each figure falls back to zero instead of failing the whole endpoint.
func (s *StatsController) GetStats(ctx *gin.Context) {
	var playerCount int64
	var rewardCount int64
	var checkInsToday int64
	var dailyVisits int64

	if err := s.db.Model(&models.Player{}).Where("deleted = ?", false).Count(&playerCount).Error; err != nil {
		playerCount = 0
	}

	if err := s.db.Model(&models.Reward{}).Count(&rewardCount).Error; err != nil {
		rewardCount = 0
	}

	today := Today()
	if err := s.db.Model(&models.CheckIn{}).Where("date = ?", today).Count(&checkInsToday).Error; err != nil {
		checkInsToday = 0
	}

	if err := s.db.Model(&models.PageView{}).
		Where("date = ?", today).
		Select("COALESCE(SUM(count),0)").
		Scan(&dailyVisits).Error; err != nil {
		dailyVisits = 0
	}

	utils.Success(ctx, gin.H{
		"player_count":   playerCount,
		"reward_count":   rewardCount,
		"checkins_today": checkInsToday,
		"daily_visits":   dailyVisits,
	})
}
