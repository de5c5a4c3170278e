package security

import (
	"regexp"
	"strings"
)

// Single pass: exactly one @, no whitespace, at least one dot after the @.
// No DNS or mailbox verification happens here.
var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidateEmail checks the basic local@domain.tld shape. An empty email fails
// closed rather than erroring.
func ValidateEmail(email string) (bool, string) {
	if email == "" {
		return false, "Email is required"
	}

	if !emailRegex.MatchString(email) {
		return false, "Invalid email format"
	}

	return true, "Email is valid"
}

const passwordSpecials = `!@#$%^&*(),.?":{}|<>`

// ValidatePassword enforces the password policy: at least 8 characters with an
// uppercase letter, a lowercase letter, a digit and a special character.
// Checks short-circuit, so the message reflects only the first violated rule.
func ValidatePassword(password string) (bool, string) {
	if password == "" {
		return false, "Password is required"
	}

	if len(password) < 8 {
		return false, "Password must be at least 8 characters long"
	}

	if !strings.ContainsFunc(password, func(r rune) bool { return r >= 'A' && r <= 'Z' }) {
		return false, "Password must contain at least one uppercase letter"
	}

	if !strings.ContainsFunc(password, func(r rune) bool { return r >= 'a' && r <= 'z' }) {
		return false, "Password must contain at least one lowercase letter"
	}

	if !strings.ContainsFunc(password, func(r rune) bool { return r >= '0' && r <= '9' }) {
		return false, "Password must contain at least one number"
	}

	if !strings.ContainsAny(password, passwordSpecials) {
		return false, "Password must contain at least one special character"
	}

	return true, "Password is valid"
}
