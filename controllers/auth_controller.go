package controllers

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ssenpaii/playtally/config"
	"github.com/ssenpaii/playtally/models"
	"github.com/ssenpaii/playtally/utils"
)

const tokenLifetime = 24 * time.Hour

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_.-]+$`)

// AuthController handles registration, login and session endpoints for both
// players and the fixed admin credential pair.
type AuthController struct {
	db *gorm.DB
}

// NewAuthController creates an AuthController.
func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{db: db}
}

// Register creates a player account with bcrypt-hashed password and pincode.
func (a *AuthController) Register(ctx *gin.Context) {
	type request struct {
		Username  string `json:"username" binding:"required"`
		Password  string `json:"password" binding:"required"`
		Confirm   string `json:"confirm"`
		Pincode   string `json:"pincode" binding:"required"`
		Facebook  string `json:"facebook"`
		Instagram string `json:"instagram"`
		TikTok    string `json:"tiktok"`
	}

	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40001, "invalid request payload")
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	if l := len(req.Username); l < 2 || l > 32 || !usernamePattern.MatchString(req.Username) {
		utils.Error(ctx, http.StatusBadRequest, 40002, "username must be 2-32 characters of letters, digits and -_.")
		return
	}
	if req.Confirm != "" && req.Password != req.Confirm {
		utils.Error(ctx, http.StatusBadRequest, 40003, "passwords do not match")
		return
	}
	if len(req.Password) < 6 || len(req.Password) > 64 {
		utils.Error(ctx, http.StatusBadRequest, 40004, "password must be 6-64 characters")
		return
	}
	if !utils.ValidPincode(req.Pincode) {
		utils.Error(ctx, http.StatusBadRequest, 40005, "pincode must be exactly 4 digits")
		return
	}

	// Usernames stay reserved even after soft deletion, so the whole table is
	// consulted here, not just the live view.
	var existing models.Player
	if err := a.db.Where("username = ?", req.Username).First(&existing).Error; err == nil {
		utils.Error(ctx, http.StatusConflict, 40901, "username already exists")
		return
	}

	passwordHash, err := utils.HashSecret(req.Password)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50001, "failed to hash password")
		return
	}
	pincodeHash, err := utils.HashSecret(req.Pincode)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50002, "failed to hash pincode")
		return
	}

	player := models.Player{
		Username:     req.Username,
		PasswordHash: passwordHash,
		PincodeHash:  pincodeHash,
		Facebook:     utils.SanitizeURL(req.Facebook),
		Instagram:    utils.SanitizeURL(req.Instagram),
		TikTok:       utils.SanitizeURL(req.TikTok),
	}

	if err := a.db.Create(&player).Error; err != nil {
		// A racing registration can slip past the existence check and fail on
		// the unique index instead.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			utils.Error(ctx, http.StatusConflict, 40901, "username already exists")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50003, "failed to create player")
		return
	}

	utils.InvalidateByPrefix(leaderboardCachePrefix)
	utils.Sugar.Infof("player registered username=%s", player.Username)
	utils.Success(ctx, gin.H{"username": player.Username})
}

// Login authenticates a player. Soft-deleted players cannot authenticate.
func (a *AuthController) Login(ctx *gin.Context) {
	type request struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40001, "invalid request payload")
		return
	}

	var player models.Player
	err := a.db.Where("username = ? AND deleted = ?", strings.TrimSpace(req.Username), false).First(&player).Error
	if err != nil || !utils.CheckSecret(player.PasswordHash, req.Password) {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "invalid username or password")
		return
	}

	token, err := utils.GenerateToken(player.ID, player.Username, utils.RolePlayer, tokenLifetime)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50010, "failed to issue token")
		return
	}

	utils.Success(ctx, gin.H{
		"token":    token,
		"username": player.Username,
		"role":     utils.RolePlayer,
	})
}

// AdminLogin authenticates against the fixed admin pair from configuration
// using constant-time comparison.
func (a *AuthController) AdminLogin(ctx *gin.Context) {
	type request struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40001, "invalid request payload")
		return
	}

	cfg := config.Get()
	userOK := subtle.ConstantTimeCompare([]byte(req.Username), []byte(cfg.AdminUsername)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(req.Password), []byte(cfg.AdminPassword)) == 1
	if !userOK || !passOK {
		utils.Error(ctx, http.StatusUnauthorized, 40111, "invalid admin credentials")
		return
	}

	token, err := utils.GenerateToken(0, cfg.AdminUsername, utils.RoleAdmin, tokenLifetime)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50011, "failed to issue token")
		return
	}

	utils.Success(ctx, gin.H{
		"token":    token,
		"username": cfg.AdminUsername,
		"role":     utils.RoleAdmin,
	})
}

// Logout revokes the presented token until its natural expiration.
func (a *AuthController) Logout(ctx *gin.Context) {
	authHeader := ctx.GetHeader("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		utils.Error(ctx, http.StatusBadRequest, 40006, "missing bearer token")
		return
	}
	tokenString := strings.TrimSpace(parts[1])

	claims, err := utils.ParseToken(tokenString)
	if err != nil {
		utils.Error(ctx, http.StatusUnauthorized, 40105, "invalid token")
		return
	}

	utils.BlacklistToken(tokenString, claims.ExpiresAt.Time)
	utils.Success(ctx, gin.H{"message": "logged out"})
}

// Me returns the authenticated identity. Players get their full own record.
func (a *AuthController) Me(ctx *gin.Context) {
	username, ok := getUsername(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	if getRole(ctx) == utils.RoleAdmin {
		utils.Success(ctx, gin.H{"username": username, "role": utils.RoleAdmin})
		return
	}

	var player models.Player
	if err := a.db.Where("username = ? AND deleted = ?", username, false).First(&player).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40410, "player not found")
		return
	}
	utils.Success(ctx, player)
}
