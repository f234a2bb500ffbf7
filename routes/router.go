package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ssenpaii/playtally/config"
	"github.com/ssenpaii/playtally/controllers"
	"github.com/ssenpaii/playtally/middleware"
	"github.com/ssenpaii/playtally/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(db *gorm.DB) *gin.Engine {
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// Replace default console logger with file-based zap logger
	gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
	if err == nil {
		r.Use(utils.Ginzap(gl, time.RFC3339, true))
		r.Use(utils.RecoveryWithZap(gl, false))
	} else {
		r.Use(gin.Recovery())
	}

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	// Record visits after each request
	r.Use(middleware.PageViewRecorder(db))

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	authController := controllers.NewAuthController(db)
	playerController := controllers.NewPlayerController(db)
	checkInController := controllers.NewCheckInController(db)
	rewardController := controllers.NewRewardController(db)
	leaderboardController := controllers.NewLeaderboardController(db)
	statsController := controllers.NewStatsController(db)

	api := r.Group("/api/v1")

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware())
	authGroup.POST("/register", authController.Register)
	authGroup.POST("/login", authController.Login)
	authGroup.POST("/admin/login", authController.AdminLogin)
	authGroup.POST("/logout", middleware.AuthRequired(), authController.Logout)
	authGroup.GET("/me", middleware.AuthRequired(), authController.Me)

	// Public surfaces
	api.GET("/leaderboard", leaderboardController.Get)
	api.GET("/stats", statsController.GetStats)

	// Player surfaces
	player := api.Group("")
	player.Use(middleware.AuthRequired(), middleware.PlayerRequired(), middleware.RateLimitMiddleware())
	player.POST("/checkin", checkInController.CheckIn)
	player.GET("/checkin/status", checkInController.Status)
	player.GET("/checkin/history", checkInController.History)
	player.GET("/rewards/available", rewardController.Available)
	player.POST("/rewards/:id/redeem", rewardController.Redeem)
	player.PATCH("/players/me/socials", playerController.UpdateMySocials)

	// Admin surfaces
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

	r.NoRoute(func(ctx *gin.Context) {
		utils.Error(ctx, http.StatusNotFound, 40400, "route not found")
	})

	return r
}
