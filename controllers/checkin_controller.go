package controllers

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ssenpaii/playtally/models"
	"github.com/ssenpaii/playtally/utils"
)

const dateLayout = "2006-01-02"

var errAlreadyCheckedIn = errors.New("already checked in today")

// CheckInController implements the daily check-in policy: one increment per
// player per calendar date, unlocked by the 4-digit pincode.
type CheckInController struct {
	db *gorm.DB

	// per-username locks serialize the read-modify-write on the attendance
	// counter so concurrent same-day check-ins cannot double-increment
	locks   map[string]*sync.Mutex
	locksMu sync.Mutex
}

// NewCheckInController creates a new controller instance.
func NewCheckInController(db *gorm.DB) *CheckInController {
	return &CheckInController{db: db, locks: map[string]*sync.Mutex{}}
}

func (c *CheckInController) lockFor(username string) *sync.Mutex {
	c.locksMu.Lock()
	defer c.locksMu.Unlock()
	if mu, ok := c.locks[username]; ok {
		return mu
	}
	mu := &sync.Mutex{}
	c.locks[username] = mu
	return mu
}

// Today returns the current calendar date as YYYY-MM-DD. The date is derived
// server-side at the moment of the call; clients never supply it.
func Today() string {
	return time.Now().Format(dateLayout)
}

func validDate(s string) bool {
	_, err := time.Parse(dateLayout, s)
	return err == nil
}

// CheckIn records a daily check-in for the authenticated player.
func (c *CheckInController) CheckIn(ctx *gin.Context) {
	username, ok := getUsername(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	type request struct {
		Pincode string `json:"pincode" binding:"required"`
	}
	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40020, "invalid request payload")
		return
	}
	if !utils.ValidPincode(req.Pincode) {
		utils.Error(ctx, http.StatusBadRequest, 40021, "pincode must be exactly 4 digits")
		return
	}

	var player models.Player
	if err := c.db.Where("username = ? AND deleted = ?", username, false).First(&player).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40420, "player not found")
		return
	}

	// The pincode gate never mutates state.
	if !utils.CheckSecret(player.PincodeHash, req.Pincode) {
		utils.Error(ctx, http.StatusBadRequest, 40022, "invalid pincode")
		return
	}

	today := Today()
	if player.LastCheckIn == today {
		utils.Error(ctx, http.StatusBadRequest, 40023, "already checked in today")
		return
	}

	mu := c.lockFor(username)
	mu.Lock()
	defer mu.Unlock()

	err := c.db.Transaction(func(tx *gorm.DB) error {
		var fresh models.Player
		if err := tx.Where("username = ? AND deleted = ?", username, false).First(&fresh).Error; err != nil {
			return err
		}
		// Re-check under the lock: a racing request may have won.
		if fresh.LastCheckIn == today {
			return errAlreadyCheckedIn
		}

		fresh.AttendanceDays++
		fresh.LastCheckIn = today
		if err := tx.Save(&fresh).Error; err != nil {
			return err
		}

		record := models.CheckIn{
			PlayerID: fresh.ID,
			Username: fresh.Username,
			Date:     today,
		}
		if err := tx.Create(&record).Error; err != nil {
			return err
		}

		player = fresh
		return nil
	})

	if err != nil {
		if errors.Is(err, errAlreadyCheckedIn) {
			utils.Error(ctx, http.StatusBadRequest, 40023, "already checked in today")
			return
		}
		utils.Sugar.Errorf("check-in failed username=%s err=%v", username, err)
		utils.Error(ctx, http.StatusInternalServerError, 50020, "failed to record check-in")
		return
	}

	utils.InvalidateByPrefix(leaderboardCachePrefix)
	utils.Sugar.Infof("check-in recorded username=%s attendance_days=%d", username, player.AttendanceDays)
	utils.Success(ctx, gin.H{
		"message":         "Successfully checked in!",
		"attendance_days": player.AttendanceDays,
		"last_check_in":   player.LastCheckIn,
	})
}

// Status returns the player's counter, last check-in date and today flag.
func (c *CheckInController) Status(ctx *gin.Context) {
	username, ok := getUsername(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var player models.Player
	if err := c.db.Where("username = ? AND deleted = ?", username, false).First(&player).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40420, "player not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50021, "failed to load player")
		return
	}

	utils.Success(ctx, gin.H{
		"attendance_days":  player.AttendanceDays,
		"last_check_in":    player.LastCheckIn,
		"checked_in_today": player.LastCheckIn == Today(),
	})
}

// History lists the player's check-in records, newest first.
func (c *CheckInController) History(ctx *gin.Context) {
	username, ok := getUsername(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	records := make([]models.CheckIn, 0)
	if err := c.db.Where("username = ?", username).Order("date DESC").Limit(100).Find(&records).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50022, "failed to load check-ins")
		return
	}
	utils.Success(ctx, gin.H{"items": records})
}
