package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/ssenpaii/playtally/middleware"
	"github.com/ssenpaii/playtally/models"
	"github.com/ssenpaii/playtally/utils"
)

// newTestDB opens a throwaway sqlite database with all tables migrated.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	testRedis.FlushAll()

	dsn := filepath.Join(t.TempDir(), "playtally.db") + "?_busy_timeout=10000"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Player{}, &models.Reward{}, &models.CheckIn{}, &models.PageView{}))
	return db
}

// createPlayer inserts a player with hashed secrets and returns the record.
func createPlayer(t *testing.T, db *gorm.DB, username, password, pincode string) models.Player {
	t.Helper()
	passwordHash, err := utils.HashSecret(password)
	require.NoError(t, err)
	pincodeHash, err := utils.HashSecret(pincode)
	require.NoError(t, err)

	player := models.Player{
		Username:     username,
		PasswordHash: passwordHash,
		PincodeHash:  pincodeHash,
	}
	require.NoError(t, db.Create(&player).Error)
	return player
}

func playerToken(t *testing.T, player models.Player) string {
	t.Helper()
	token, err := utils.GenerateToken(player.ID, player.Username, utils.RolePlayer, time.Hour)
	require.NoError(t, err)
	return token
}

func adminToken(t *testing.T) string {
	t.Helper()
	token, err := utils.GenerateToken(0, "ssenpaii21", utils.RoleAdmin, time.Hour)
	require.NoError(t, err)
	return token
}

// newAPIRouter wires the full authenticated route table against the given db.
func newAPIRouter(db *gorm.DB) *gin.Engine {
	r := gin.New()

	authController := NewAuthController(db)
	playerController := NewPlayerController(db)
	checkInController := NewCheckInController(db)
	rewardController := NewRewardController(db)
	leaderboardController := NewLeaderboardController(db)
	statsController := NewStatsController(db)

	api := r.Group("/api/v1")
	api.POST("/auth/register", authController.Register)
	api.POST("/auth/login", authController.Login)
	api.POST("/auth/admin/login", authController.AdminLogin)
	api.POST("/auth/logout", middleware.AuthRequired(), authController.Logout)
	api.GET("/auth/me", middleware.AuthRequired(), authController.Me)
	api.GET("/leaderboard", leaderboardController.Get)
	api.GET("/stats", statsController.GetStats)

	player := api.Group("")
	player.Use(middleware.AuthRequired(), middleware.PlayerRequired())
	player.POST("/checkin", checkInController.CheckIn)
	player.GET("/checkin/status", checkInController.Status)
	player.GET("/checkin/history", checkInController.History)
	player.GET("/rewards/available", rewardController.Available)
	player.POST("/rewards/:id/redeem", rewardController.Redeem)
	player.PATCH("/players/me/socials", playerController.UpdateMySocials)

	admin := api.Group("/admin")
	admin.Use(middleware.AuthRequired(), middleware.AdminRequired())
	admin.GET("/players", playerController.List)
	admin.GET("/players/deleted", playerController.ListDeleted)
	admin.DELETE("/players/:username", playerController.SoftDelete)
	admin.POST("/players/:username/restore", playerController.Restore)
	admin.PUT("/players/:username/credentials", playerController.UpdateCredentials)
	admin.POST("/players/:username/reset", playerController.ResetAttendance)
	admin.GET("/rewards", rewardController.List)
	admin.POST("/rewards", rewardController.Create)
	admin.PUT("/rewards/:id", rewardController.Update)
	admin.DELETE("/rewards/:id", rewardController.Delete)
	admin.POST("/rewards/:id/claim", rewardController.MarkClaimed)

	return r
}

// doJSON performs a request with an optional bearer token and JSON body.
func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// decodeResponse parses the uniform JSON envelope.
func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) utils.JSONResponse {
	t.Helper()
	var resp utils.JSONResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func dataMap(t *testing.T, resp utils.JSONResponse) map[string]interface{} {
	t.Helper()
	m, ok := resp.Data.(map[string]interface{})
	require.True(t, ok, "expected data to be an object, got %T", resp.Data)
	return m
}
