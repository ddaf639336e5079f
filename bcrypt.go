package auth

import (
	"errors"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// BcryptPasswords stores salted bcrypt hashes
type BcryptPasswords struct {
	// Cost is the bcrypt work factor, zero means the build default
	Cost int
}

var _ PasswordAuthenticator = BcryptPasswords{}

// HashPassword will generate a password hash
func (b BcryptPasswords) HashPassword(password string) (string, error) {
	if password == "" {
		return "", ErrNoEmptyString
	}

	cost := b.Cost
	if cost == 0 {
		cost = passwordHashCost()
	}

	h, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	return string(h), err
}

// ComparePasswordAndHash will validate the given cleartext
// password matches the hashed password
func (b BcryptPasswords) ComparePasswordAndHash(password, hash string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrMismatchedHashAndPassword
		}
		return err
	}
	return nil
}

// HashPassword will generate a password hash with the default cost
func HashPassword(password string) (string, error) {
	return BcryptPasswords{}.HashPassword(password)
}

// ComparePasswordAndHash will validate the given cleartext
// password matches the hashed password
func ComparePasswordAndHash(password, hash string) error {
	return BcryptPasswords{}.ComparePasswordAndHash(password, hash)
}

// RandomPasswordHash is a temporary password
func RandomPasswordHash() string {
	pwd := uuid.New()

	h, err := HashPassword(pwd.String())
	if err != nil {
		return RandomPasswordHash()
	}

	return h
}

// dummyPasswordHash is compared against when the login email is unknown
var dummyPasswordHash = sync.OnceValue(RandomPasswordHash)
