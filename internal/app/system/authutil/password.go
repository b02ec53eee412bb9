// Package authutil holds password hashing and password policy helpers.
package authutil

import (
	"errors"
	"fmt"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

// BcryptCost is the work factor for new hashes.
const BcryptCost = 12

// MinPasswordLength is the shortest password accepted.
const MinPasswordLength = 8

// maxBcryptInput is bcrypt's input limit; longer passwords are rejected
// instead of being silently truncated.
const maxBcryptInput = 72

var (
	ErrPasswordTooShort = fmt.Errorf("Password must be at least %d characters.", MinPasswordLength)
	ErrPasswordTooLong  = fmt.Errorf("Password must be at most %d bytes.", maxBcryptInput)
	ErrPasswordNoDigit  = errors.New("Password must contain at least one digit.")
	ErrPasswordNoLetter = errors.New("Password must contain at least one letter.")
)

// PasswordRules describes the policy for display next to a password field.
func PasswordRules() []string {
	return []string{
		fmt.Sprintf("At least %d characters", MinPasswordLength),
		"At least one letter",
		"At least one digit",
	}
}

// ValidatePassword checks pw against PasswordRules.
func ValidatePassword(pw string) error {
	if len([]rune(pw)) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	if len(pw) > maxBcryptInput {
		return ErrPasswordTooLong
	}
	var letter, digit bool
	for _, r := range pw {
		switch {
		case unicode.IsLetter(r):
			letter = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !letter {
		return ErrPasswordNoLetter
	}
	if !digit {
		return ErrPasswordNoDigit
	}
	return nil
}

// HashPassword returns a bcrypt hash of pw.
func HashPassword(pw string) (string, error) {
	if len(pw) > maxBcryptInput {
		return "", ErrPasswordTooLong
	}
	b, err := bcrypt.GenerateFromPassword([]byte(pw), BcryptCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CheckPassword reports whether pw matches hash. An empty hash never matches.
func CheckPassword(pw, hash string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}
