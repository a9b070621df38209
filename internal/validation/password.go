package validation

import (
	"strings"
)

var commonPatterns = []string{
	"password", "motdepasse", "123456", "azerty", "qwerty",
	"letmein", "welcome", "bienvenue", "soleil",
}

// ValidatePassword enforces a 10 character minimum and the 72 byte bcrypt
// ceiling, and blocks common patterns.
func ValidatePassword(password string) error {
	if len(password) < 10 {
		return Invalid("password", "password must be at least 10 characters")
	}

	// bcrypt silently truncates anything longer.
	if len(password) > 72 {
		return Invalid("password", "password must not exceed 72 characters")
	}

	lower := strings.ToLower(password)
	for _, pattern := range commonPatterns {
		if strings.Contains(lower, pattern) {
			return Invalid("password", "password is too common, please choose a stronger one")
		}
	}

	return nil
}
