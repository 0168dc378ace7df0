// Package authutil wraps password hashing and the credential format checks
// shared by login and the profile forms.
package authutil

import (
	"errors"
	"regexp"

	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is the shortest password accepted on change.
const MinPasswordLength = 6

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ErrPasswordTooShort is returned by ValidatePassword.
var ErrPasswordTooShort = errors.New("password must be at least 6 characters")

// HashPassword returns the bcrypt hash of plain using the default cost.
func HashPassword(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CheckPassword reports whether plain matches the stored bcrypt hash.
// An empty hash never matches.
func CheckPassword(plain, hash string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// ValidatePassword enforces the minimum length for new passwords.
func ValidatePassword(plain string) error {
	if len(plain) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	return nil
}

// IsValidEmail reports whether s looks like an address: one @, a non-empty
// local part and a dotted domain.
func IsValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}
