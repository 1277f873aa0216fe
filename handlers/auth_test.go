package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"legal_aid_app_go/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObtainTokenHandler(t *testing.T) {
	database := setupTestDB(t)
	_, user := seedOfficer(t, database)

	t.Run("Success", func(t *testing.T) {
		body := `{"username":"Wanjiku@example.org","password":"s3cure-passphrase"}`
		_, c, rec := setupEcho(http.MethodPost, "/api/token", strings.NewReader(body))

		require.NoError(t, ObtainTokenHandler(c))
		assert.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Token  string `json:"token"`
			UserID uint   `json:"user_id"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Len(t, resp.Token, 40)
		assert.Equal(t, user.ID, resp.UserID)

		var stored models.Token
		require.NoError(t, database.Where("user_id = ?", user.ID).First(&stored).Error)
		assert.Equal(t, stored.Key, resp.Token)
	})

	t.Run("SameTokenOnSecondLogin", func(t *testing.T) {
		body := `{"email":"wanjiku@example.org","password":"s3cure-passphrase"}`
		_, c, rec := setupEcho(http.MethodPost, "/api/token", strings.NewReader(body))
		require.NoError(t, ObtainTokenHandler(c))

		var stored models.Token
		require.NoError(t, database.Where("user_id = ?", user.ID).First(&stored).Error)
		assert.Contains(t, rec.Body.String(), stored.Key)
	})

	t.Run("BadCredentials", func(t *testing.T) {
		body := `{"username":"wanjiku@example.org","password":"wrong-password"}`
		_, c, rec := setupEcho(http.MethodPost, "/api/token", strings.NewReader(body))

		require.NoError(t, ObtainTokenHandler(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "unable to log in with provided credentials")
	})

	t.Run("MissingFields", func(t *testing.T) {
		_, c, rec := setupEcho(http.MethodPost, "/api/token", strings.NewReader(`{}`))

		require.NoError(t, ObtainTokenHandler(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		var resp map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		fields := resp["fields"].(map[string]interface{})
		assert.Contains(t, fields, "username")
		assert.Contains(t, fields, "password")
	})
}

func TestCurrentUserHandler(t *testing.T) {
	database := setupTestDB(t)
	_, user := seedOfficer(t, database)

	_, c, rec := setupEcho(http.MethodGet, "/api/me", nil)
	require.NoError(t, CurrentUserHandler(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	_, c, rec = setupEcho(http.MethodGet, "/api/me", nil)
	c.Set("user", user)
	require.NoError(t, CurrentUserHandler(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "wanjiku@example.org")
	assert.NotContains(t, rec.Body.String(), "password")
}
