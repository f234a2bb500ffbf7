package controllers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssenpaii/playtally/models"
	"github.com/ssenpaii/playtally/utils"
)

func listedUsernames(t *testing.T, resp utils.JSONResponse) []string {
	t.Helper()
	items, ok := dataMap(t, resp)["items"].([]interface{})
	require.True(t, ok)
	names := make([]string, 0, len(items))
	for _, it := range items {
		entry, ok := it.(map[string]interface{})
		require.True(t, ok)
		names = append(names, entry["username"].(string))
	}
	return names
}

func TestSoftDeleteAndRestoreLifecycle(t *testing.T) {
	db := newTestDB(t)
	r := newAPIRouter(db)
	admin := adminToken(t)
	player := createPlayer(t, db, "kenth", "secret123", "4321")
	require.NoError(t, db.Model(&player).Update("attendance_days", 7).Error)

	w := doJSON(t, r, "DELETE", "/api/v1/admin/players/kenth", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, "GET", "/api/v1/admin/players", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, listedUsernames(t, decodeResponse(t, w)), "kenth")

	w = doJSON(t, r, "GET", "/api/v1/admin/players/deleted", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, listedUsernames(t, decodeResponse(t, w)), "kenth")

	w = doJSON(t, r, "POST", "/api/v1/admin/players/kenth/restore", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, "GET", "/api/v1/admin/players", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, listedUsernames(t, decodeResponse(t, w)), "kenth")

	// Attendance survives the delete/restore round trip.
	var restored models.Player
	require.NoError(t, db.Where("username = ?", "kenth").First(&restored).Error)
	assert.Equal(t, 7, restored.AttendanceDays)
	assert.False(t, restored.Deleted)
}

func TestSoftDeleteUnknownPlayer(t *testing.T) {
	db := newTestDB(t)
	r := newAPIRouter(db)

	w := doJSON(t, r, "DELETE", "/api/v1/admin/players/ghost", adminToken(t), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRestoreRequiresDeletedPlayer(t *testing.T) {
	db := newTestDB(t)
	r := newAPIRouter(db)
	createPlayer(t, db, "kenth", "secret123", "4321")

	// Restoring a live player is a not-found on the deleted view.
	w := doJSON(t, r, "POST", "/api/v1/admin/players/kenth/restore", adminToken(t), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateCredentials(t *testing.T) {
	db := newTestDB(t)
	r := newAPIRouter(db)
	admin := adminToken(t)
	createPlayer(t, db, "kenth", "secret123", "4321")

	w := doJSON(t, r, "PUT", "/api/v1/admin/players/kenth/credentials", admin, map[string]string{
		"password": "newsecret9",
		"pincode":  "9876",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var player models.Player
	require.NoError(t, db.Where("username = ?", "kenth").First(&player).Error)
	assert.True(t, utils.CheckSecret(player.PasswordHash, "newsecret9"))
	assert.True(t, utils.CheckSecret(player.PincodeHash, "9876"))
	assert.False(t, utils.CheckSecret(player.PasswordHash, "secret123"))

	// Old password no longer authenticates.
	w = doJSON(t, r, "POST", "/api/v1/auth/login", "", map[string]string{
		"username": "kenth",
		"password": "secret123",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, r, "POST", "/api/v1/auth/login", "", map[string]string{
		"username": "kenth",
		"password": "newsecret9",
	})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUpdateCredentialsValidation(t *testing.T) {
	db := newTestDB(t)
	r := newAPIRouter(db)
	admin := adminToken(t)
	createPlayer(t, db, "kenth", "secret123", "4321")

	w := doJSON(t, r, "PUT", "/api/v1/admin/players/kenth/credentials", admin, map[string]string{
		"password": "short",
		"pincode":  "9876",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, "PUT", "/api/v1/admin/players/kenth/credentials", admin, map[string]string{
		"password": "newsecret9",
		"pincode":  "98a6",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestResetAttendance(t *testing.T) {
	db := newTestDB(t)
	r := newAPIRouter(db)
	player := createPlayer(t, db, "kenth", "secret123", "4321")
	require.NoError(t, db.Model(&player).Updates(map[string]interface{}{
		"attendance_days": 12,
		"last_check_in":   Today(),
	}).Error)

	w := doJSON(t, r, "POST", "/api/v1/admin/players/kenth/reset", adminToken(t), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var reset models.Player
	require.NoError(t, db.Where("username = ?", "kenth").First(&reset).Error)
	assert.Zero(t, reset.AttendanceDays)
	assert.Empty(t, reset.LastCheckIn)
}

func TestUpdateMySocialsSanitizesLinks(t *testing.T) {
	db := newTestDB(t)
	r := newAPIRouter(db)
	player := createPlayer(t, db, "kenth", "secret123", "4321")
	token := playerToken(t, player)

	w := doJSON(t, r, "PATCH", "/api/v1/players/me/socials", token, map[string]string{
		"facebook":  "https://facebook.com/kenth",
		"instagram": "javascript:alert(1)",
		"tiktok":    "not a url",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var updated models.Player
	require.NoError(t, db.Where("username = ?", "kenth").First(&updated).Error)
	assert.Equal(t, "https://facebook.com/kenth", updated.Facebook)
	assert.Empty(t, updated.Instagram)
	assert.Empty(t, updated.TikTok)
}

func TestPlayerEndpointsRejectAdminToken(t *testing.T) {
	db := newTestDB(t)
	r := newAPIRouter(db)

	w := doJSON(t, r, "PATCH", "/api/v1/players/me/socials", adminToken(t), map[string]string{})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAdminEndpointsRejectPlayerToken(t *testing.T) {
	db := newTestDB(t)
	r := newAPIRouter(db)
	player := createPlayer(t, db, "kenth", "secret123", "4321")

	w := doJSON(t, r, "GET", "/api/v1/admin/players", playerToken(t, player), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
