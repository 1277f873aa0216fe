package services

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"legal_aid_app_go/models"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	// BcryptCost is the cost factor for bcrypt hashing
	BcryptCost = 10
	// TokenLength is the length of an API token in bytes (40 chars hex)
	TokenLength = 20
)

// ErrInvalidCredentials is returned when an email/password pair does not match an active user
var ErrInvalidCredentials = errors.New("unable to log in with provided credentials")

// ErrInvalidToken is returned for unknown tokens and tokens of inactive users
var ErrInvalidToken = errors.New("invalid token")

// timingHash is compared against when the email is unknown so both paths cost one bcrypt check
var timingHash, _ = HashPassword("dummy_password_for_timing_mitigation")

// HashPassword hashes a password using bcrypt
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(bytes), nil
}

// CheckPassword verifies a password against a hash
func CheckPassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// GenerateToken generates a cryptographically secure random token key
func GenerateToken() (string, error) {
	bytes := make([]byte, TokenLength)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}

// GetOrCreateToken returns the user's token, issuing one on first login
func GetOrCreateToken(db *gorm.DB, userID uint) (*models.Token, error) {
	var token models.Token
	err := db.Where("user_id = ?", userID).First(&token).Error
	if err == nil {
		return &token, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to load token: %w", err)
	}

	key, err := GenerateToken()
	if err != nil {
		return nil, err
	}
	token = models.Token{Key: key, UserID: userID}
	if err := db.Create(&token).Error; err != nil {
		// Lost a race with a concurrent login for the same user
		if isDuplicateKey(err) {
			if err := db.Where("user_id = ?", userID).First(&token).Error; err == nil {
				return &token, nil
			}
		}
		return nil, fmt.Errorf("failed to create token: %w", err)
	}
	return &token, nil
}

// Authenticate checks an email/password pair and records the login time
func Authenticate(db *gorm.DB, email, password string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	var user models.User
	if err := db.Where("LOWER(email) = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			CheckPassword(password, timingHash)
			LogSecurityEvent("LOGIN_FAILED", 0, "unknown email")
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.IsActive || !CheckPassword(password, user.Password) {
		LogSecurityEvent("LOGIN_FAILED", user.ID, "bad password or inactive user")
		return nil, ErrInvalidCredentials
	}

	now := time.Now()
	if err := db.Model(&user).UpdateColumn("last_login_at", now).Error; err != nil {
		log.Warn().Str("component", "auth").Uint("user_id", user.ID).Err(err).Msg("Failed to record login time")
	}
	user.LastLoginAt = &now
	return &user, nil
}

// UserForToken resolves the active user behind a token key
func UserForToken(db *gorm.DB, key string) (*models.User, error) {
	if len(key) != TokenLength*2 {
		return nil, ErrInvalidToken
	}

	var token models.Token
	if err := db.Preload("User").Where(&models.Token{Key: key}).First(&token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("failed to validate token: %w", err)
	}
	if !token.User.IsActive {
		return nil, ErrInvalidToken
	}

	db.Model(&token).UpdateColumn("last_used_at", time.Now())
	return &token.User, nil
}

// LogSecurityEvent logs security-related events
func LogSecurityEvent(eventType string, userID uint, details string) {
	log.Warn().Str("component", "security").Str("event", eventType).Uint("user_id", userID).Msg(details)
}
