package services

import (
	"fmt"
	"strings"
	"unicode"
)

// MinPasswordLength is the shortest password accepted for new users
const MinPasswordLength = 8

// ValidatePassword checks a new password against the account it belongs to
func ValidatePassword(password, email string) error {
	if len(password) < MinPasswordLength {
		return fmt.Errorf("must be at least %d characters", MinPasswordLength)
	}

	numeric := true
	for _, char := range password {
		if !unicode.IsDigit(char) {
			numeric = false
			break
		}
	}
	if numeric {
		return fmt.Errorf("must not be entirely numeric")
	}

	if local, _, ok := strings.Cut(strings.ToLower(email), "@"); ok && len(local) >= 3 &&
		strings.Contains(strings.ToLower(password), local) {
		return fmt.Errorf("must not contain the email name")
	}
	return nil
}
