package auth

import (
	"database/sql"
	"errors"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
)

// TextCodeUserNotFound is the text code for missing user records
const TextCodeUserNotFound = "USER_NOT_FOUND"

// ErrUserNotFound is the error we return for non found users
var ErrUserNotFound = goerrors.New("user not found", goerrors.CategoryNotFound).
	WithCode(goerrors.CodeNotFound).
	WithTextCode(TextCodeUserNotFound)

// ErrNoEmptyString is returned when hashing an empty password
var ErrNoEmptyString = goerrors.New("password can not be empty", goerrors.CategoryValidation).
	WithCode(goerrors.CodeBadRequest).
	WithTextCode(goerrors.TextCodeEmptyPassword)

// ErrMismatchedHashAndPassword is returned for unknown users and wrong
// passwords alike so callers can not tell them apart
var ErrMismatchedHashAndPassword = goerrors.New("incorrect username or password", goerrors.CategoryAuth).
	WithCode(goerrors.CodeUnauthorized).
	WithTextCode(goerrors.TextCodeInvalidCredentials)

// ErrUnableToFindSession is the error when our request has no cookie
var ErrUnableToFindSession = goerrors.New("unable to find session", goerrors.CategoryAuth).
	WithCode(goerrors.CodeUnauthorized).
	WithTextCode(goerrors.TextCodeSessionNotFound)

// ErrUnableToDecodeSession unable to decode the session cookie value
var ErrUnableToDecodeSession = goerrors.New("unable to decode session", goerrors.CategoryAuth).
	WithCode(goerrors.CodeUnauthorized).
	WithTextCode(goerrors.TextCodeSessionDecodeError)

// ErrMissingSessionSecret is returned when a codec that needs a secret has none
var ErrMissingSessionSecret = goerrors.New("session secret is required", goerrors.CategoryValidation).
	WithCode(goerrors.CodeBadRequest)

// IsInvalidCredentials reports whether err is a login failure that should be
// answered with the generic login message.
func IsInvalidCredentials(err error) bool {
	return matchesSentinel(err, ErrMismatchedHashAndPassword)
}

// IsSessionError reports whether err means the session cookie can not
// identify a user.
func IsSessionError(err error) bool {
	return matchesSentinel(err, ErrUnableToDecodeSession) ||
		matchesSentinel(err, ErrUnableToFindSession) ||
		matchesSentinel(err, ErrUserNotFound)
}

// matchesSentinel also matches wrapped copies, goerrors.Wrap clones rich
// errors so errors.Is alone misses them
func matchesSentinel(err error, sentinel *goerrors.Error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, sentinel) {
		return true
	}
	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		return richErr.Category == sentinel.Category && richErr.TextCode == sentinel.TextCode
	}
	return false
}

func isRecordNotFound(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, sql.ErrNoRows) || repository.IsRecordNotFound(err)
}
