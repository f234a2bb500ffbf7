package controllers

import (
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssenpaii/playtally/models"
)

func TestRegisterCreatesPlayerWithHashedSecrets(t *testing.T) {
	db := newTestDB(t)
	r := newAPIRouter(db)

	w := doJSON(t, r, "POST", "/api/v1/auth/register", "", map[string]string{
		"username": "kenth",
		"password": "secret123",
		"confirm":  "secret123",
		"pincode":  "4321",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var player models.Player
	require.NoError(t, db.Where("username = ?", "kenth").First(&player).Error)
	assert.Equal(t, 0, player.AttendanceDays)
	assert.Empty(t, player.LastCheckIn)
	assert.False(t, player.Deleted)
	// Secrets are stored hashed, never verbatim.
	assert.NotEqual(t, "secret123", player.PasswordHash)
	assert.NotEqual(t, "4321", player.PincodeHash)
	assert.NotContains(t, w.Body.String(), "secret123")
}

func TestRegisterValidation(t *testing.T) {
	db := newTestDB(t)
	r := newAPIRouter(db)

	cases := []struct {
		name string
		body map[string]string
	}{
		{"short username", map[string]string{"username": "k", "password": "secret123", "pincode": "4321"}},
		{"short password", map[string]string{"username": "kenth", "password": "abc", "pincode": "4321"}},
		{"password mismatch", map[string]string{"username": "kenth", "password": "secret123", "confirm": "other1234", "pincode": "4321"}},
		{"pincode too short", map[string]string{"username": "kenth", "password": "secret123", "pincode": "432"}},
		{"pincode non-numeric", map[string]string{"username": "kenth", "password": "secret123", "pincode": "43a1"}},
	}
	for _, tc := range cases {
		w := doJSON(t, r, "POST", "/api/v1/auth/register", "", tc.body)
		assert.Equal(t, http.StatusBadRequest, w.Code, tc.name)
	}

	var count int64
	require.NoError(t, db.Model(&models.Player{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestRegisterUsernameReservedAcrossSoftDelete(t *testing.T) {
	db := newTestDB(t)
	r := newAPIRouter(db)
	player := createPlayer(t, db, "kenth", "secret123", "4321")
	require.NoError(t, db.Model(&player).Update("deleted", true).Error)

	w := doJSON(t, r, "POST", "/api/v1/auth/register", "", map[string]string{
		"username": "kenth",
		"password": "secret123",
		"pincode":  "4321",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestRegisterConcurrentSameUsernameSingleWinner(t *testing.T) {
	db := newTestDB(t)
	r := newAPIRouter(db)

	const attempts = 8
	codes := make([]int, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			w := doJSON(t, r, "POST", "/api/v1/auth/register", "", map[string]string{
				"username": "kenth",
				"password": "secret123",
				"pincode":  "4321",
			})
			codes[i] = w.Code
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, code := range codes {
		switch code {
		case http.StatusOK:
			winners++
		case http.StatusConflict:
		default:
			t.Fatalf("unexpected status %d for duplicate registration", code)
		}
	}
	assert.Equal(t, 1, winners)

	var count int64
	require.NoError(t, db.Model(&models.Player{}).Where("username = ?", "kenth").Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestPlayerLogin(t *testing.T) {
	db := newTestDB(t)
	r := newAPIRouter(db)
	createPlayer(t, db, "kenth", "secret123", "4321")

	w := doJSON(t, r, "POST", "/api/v1/auth/login", "", map[string]string{
		"username": "kenth",
		"password": "secret123",
	})
	require.Equal(t, http.StatusOK, w.Code)
	data := dataMap(t, decodeResponse(t, w))
	assert.NotEmpty(t, data["token"])
	assert.Equal(t, "player", data["role"])

	w = doJSON(t, r, "POST", "/api/v1/auth/login", "", map[string]string{
		"username": "kenth",
		"password": "wrongpass",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSoftDeletedPlayerCannotLogin(t *testing.T) {
	db := newTestDB(t)
	r := newAPIRouter(db)
	player := createPlayer(t, db, "kenth", "secret123", "4321")
	require.NoError(t, db.Model(&player).Update("deleted", true).Error)

	w := doJSON(t, r, "POST", "/api/v1/auth/login", "", map[string]string{
		"username": "kenth",
		"password": "secret123",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminLogin(t *testing.T) {
	db := newTestDB(t)
	r := newAPIRouter(db)

	w := doJSON(t, r, "POST", "/api/v1/auth/admin/login", "", map[string]string{
		"username": "ssenpaii21",
		"password": "admin123",
	})
	require.Equal(t, http.StatusOK, w.Code)
	data := dataMap(t, decodeResponse(t, w))
	assert.Equal(t, "admin", data["role"])
	assert.NotEmpty(t, data["token"])

	w = doJSON(t, r, "POST", "/api/v1/auth/admin/login", "", map[string]string{
		"username": "ssenpaii21",
		"password": "nope",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogoutRevokesToken(t *testing.T) {
	db := newTestDB(t)
	r := newAPIRouter(db)
	player := createPlayer(t, db, "kenth", "secret123", "4321")
	token := playerToken(t, player)

	w := doJSON(t, r, "GET", "/api/v1/auth/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, "POST", "/api/v1/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, "GET", "/api/v1/auth/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMeRequiresToken(t *testing.T) {
	db := newTestDB(t)
	r := newAPIRouter(db)

	w := doJSON(t, r, "GET", "/api/v1/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
