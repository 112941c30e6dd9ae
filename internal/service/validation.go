package service

import (
	"regexp"
	"unicode/utf8"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// MinPasswordLength is the provider-enforced minimum, checked locally to
// fail fast before any remote call.
const MinPasswordLength = 6

// ValidateEmail reports whether the address has a non-empty local part,
// domain and TLD with no embedded whitespace. Shape check only; no DNS or
// deliverability lookup.
func ValidateEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// ValidatePassword reports whether the password is at least six characters
// long. Length counts Unicode code points, not bytes.
func ValidatePassword(password string) bool {
	return utf8.RuneCountInString(password) >= MinPasswordLength
}
