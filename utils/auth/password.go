package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrPasswordTooShort = errors.New("password must be at least 8 characters")
	ErrPasswordMismatch = errors.New("password does not match")
)

const (
	// bcryptCost trades login latency for resistance to offline cracking
	bcryptCost = 12

	// MinPasswordLength is enforced on registration, password changes and
	// CSV-imported college credentials alike.
	MinPasswordLength = 8
)

// HashPassword returns the bcrypt hash of a password that meets the
// minimum length.
func HashPassword(password string) (string, error) {
	if !IsPasswordValid(password) {
		return "", ErrPasswordTooShort
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}

	return string(hashed), nil
}

// VerifyPassword compares a plaintext password against its stored hash
func VerifyPassword(hashedPassword, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrPasswordMismatch
		}
		return err
	}
	return nil
}

// IsPasswordValid reports whether the password meets the length floor
func IsPasswordValid(password string) bool {
	return len(password) >= MinPasswordLength
}
