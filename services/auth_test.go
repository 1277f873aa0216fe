package services

import (
	"regexp"
	"testing"

	"legal_aid_app_go/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHashing(t *testing.T) {
	password := "SecretPass123!"

	hash, err := HashPassword(password)
	assert.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotEqual(t, password, hash)

	assert.True(t, CheckPassword(password, hash))
	assert.False(t, CheckPassword("WrongPass", hash))
}

func TestGenerateToken(t *testing.T) {
	first, err := GenerateToken()
	require.NoError(t, err)
	second, err := GenerateToken()
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^[0-9a-f]{40}$`), first)
	assert.NotEqual(t, first, second)
}

func TestGetOrCreateTokenIsStable(t *testing.T) {
	db := setupTestDB(t)
	user := createOfficer(t, db, "officer@example.org", nil)

	token, err := GetOrCreateToken(db, user.ID)
	require.NoError(t, err)
	again, err := GetOrCreateToken(db, user.ID)
	require.NoError(t, err)
	assert.Equal(t, token.Key, again.Key)

	var count int64
	db.Model(&models.Token{}).Where("user_id = ?", user.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestAuthenticate(t *testing.T) {
	db := setupTestDB(t)
	user := createOfficer(t, db, "officer@example.org", nil)

	t.Run("Success", func(t *testing.T) {
		got, err := Authenticate(db, "  Officer@Example.org ", "s3cure-passphrase")
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)
		assert.NotNil(t, got.LastLoginAt)
	})

	t.Run("WrongPassword", func(t *testing.T) {
		_, err := Authenticate(db, "officer@example.org", "not-the-password")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("UnknownEmail", func(t *testing.T) {
		_, err := Authenticate(db, "nobody@example.org", "s3cure-passphrase")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("Inactive", func(t *testing.T) {
		require.NoError(t, db.Model(user).UpdateColumn("is_active", false).Error)
		_, err := Authenticate(db, "officer@example.org", "s3cure-passphrase")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestUserForToken(t *testing.T) {
	db := setupTestDB(t)
	user := createOfficer(t, db, "officer@example.org", nil)
	token, err := GetOrCreateToken(db, user.ID)
	require.NoError(t, err)

	got, err := UserForToken(db, token.Key)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = UserForToken(db, "short")
	assert.ErrorIs(t, err, ErrInvalidToken)

	other, err := GenerateToken()
	require.NoError(t, err)
	_, err = UserForToken(db, other)
	assert.ErrorIs(t, err, ErrInvalidToken)

	require.NoError(t, db.Model(user).UpdateColumn("is_active", false).Error)
	_, err = UserForToken(db, token.Key)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestCreateUserAppliesPasswordPolicy(t *testing.T) {
	db := setupTestDB(t)

	user := &models.User{Name: "Jane", Email: "jane.doe@example.org"}
	err := CreateUser(db, user, "12345678")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "password")

	user = &models.User{Name: "Jane", Email: "JANE.DOE@example.org"}
	require.NoError(t, CreateUser(db, user, "long enough phrase"))
	assert.Equal(t, "jane.doe@example.org", user.Email)
	assert.True(t, user.IsActive)
	assert.NotEqual(t, "long enough phrase", user.Password)

	err = CreateUser(db, &models.User{Name: "Dup", Email: "jane.doe@example.org"}, "another phrase")
	assert.ErrorIs(t, err, ErrConflict)
}
