package auth

import (
	"crypto/subtle"
	"fmt"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

const (
	// PasswordModeBcrypt stores salted bcrypt hashes
	PasswordModeBcrypt = "bcrypt"
	// PasswordModePlain stores the submitted password as is. Insecure, only
	// meant to show what the hashed variant protects against.
	PasswordModePlain = "plain"
)

// PlaintextPasswords keeps passwords in clear text
type PlaintextPasswords struct{}

var _ PasswordAuthenticator = PlaintextPasswords{}

// HashPassword returns the password unchanged
func (PlaintextPasswords) HashPassword(password string) (string, error) {
	if password == "" {
		return "", ErrNoEmptyString
	}
	return password, nil
}

// ComparePasswordAndHash compares both values in constant time
func (PlaintextPasswords) ComparePasswordAndHash(password, hash string) error {
	if subtle.ConstantTimeCompare([]byte(password), []byte(hash)) != 1 {
		return ErrMismatchedHashAndPassword
	}
	return nil
}

// NewPasswordAuthenticator returns the authenticator for the given mode
func NewPasswordAuthenticator(mode string) (PasswordAuthenticator, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", PasswordModeBcrypt:
		return BcryptPasswords{}, nil
	case PasswordModePlain:
		return PlaintextPasswords{}, nil
	default:
		return nil, goerrors.New(fmt.Sprintf("unknown password mode %q", mode), goerrors.CategoryValidation).
			WithCode(goerrors.CodeBadRequest)
	}
}

// VerifyPassword reports whether hash was produced from password.
// Malformed hashes and empty inputs are a mismatch, never an error.
func VerifyPassword(pa PasswordAuthenticator, password, hash string) bool {
	if pa == nil || password == "" || hash == "" {
		return false
	}
	return pa.ComparePasswordAndHash(password, hash) == nil
}
