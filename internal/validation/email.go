package validation

import (
	"net/mail"
	"strings"
)

// NormalizeEmail trims and lowercases an address before lookup or storage.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail uses net/mail's RFC 5322 parser and rejects display-name forms.
func ValidateEmail(email string) error {
	if email == "" {
		return Invalid("email", "email address is required")
	}

	// RFC 5321: total max 254 with @
	if len(email) > 254 {
		return Invalid("email", "email address is too long (max 254 characters)")
	}

	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return Invalid("email", "invalid email address format")
	}

	return nil
}
