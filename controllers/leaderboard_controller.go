package controllers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ssenpaii/playtally/config"
	"github.com/ssenpaii/playtally/models"
	"github.com/ssenpaii/playtally/utils"
)

const leaderboardCachePrefix = "cache:leaderboard:"

// LeaderboardController serves the attendance ranking of non-deleted players.
type LeaderboardController struct {
	db *gorm.DB
}

// NewLeaderboardController creates a new controller instance.
func NewLeaderboardController(db *gorm.DB) *LeaderboardController {
	return &LeaderboardController{db: db}
}

type leaderboardEntry struct {
	Rank           int    `json:"rank"`
	Username       string `json:"username"`
	AttendanceDays int    `json:"attendance_days"`
	LastCheckIn    string `json:"last_check_in"`
}

// Get returns players ordered by attendance days, highest first. Responses
// are cached in redis per limit and invalidated on every player mutation.
func (l *LeaderboardController) Get(ctx *gin.Context) {
	limit := 0
	if v := strings.TrimSpace(ctx.Query("limit")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			utils.Error(ctx, http.StatusBadRequest, 40050, "limit must be a positive integer")
			return
		}
		limit = n
	}

	cacheKey := leaderboardCachePrefix + strconv.Itoa(limit)
	if b, ok := utils.CacheGetBytes(cacheKey); ok {
		ctx.Data(http.StatusOK, "application/json", b)
		return
	}

	q := l.db.Where("deleted = ?", false).Order("attendance_days DESC, username ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	players := make([]models.Player, 0)
	if err := q.Find(&players).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50050, "failed to load leaderboard")
		return
	}

	entries := make([]leaderboardEntry, 0, len(players))
	for i, p := range players {
		entries = append(entries, leaderboardEntry{
			Rank:           i + 1,
			Username:       p.Username,
			AttendanceDays: p.AttendanceDays,
			LastCheckIn:    p.LastCheckIn,
		})
	}

	wrapper := utils.JSONResponse{Code: 0, Message: "success", Data: gin.H{"items": entries}}
	ttl := time.Duration(config.Get().LeaderboardCacheTTLSec) * time.Second
	utils.CacheSetJSON(cacheKey, wrapper, ttl)
	utils.Success(ctx, gin.H{"items": entries})
}
