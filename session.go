package auth

import (
	"context"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-router"
	"github.com/google/uuid"
)

// Middleware resolves the session cookie into the current user. Missing,
// undecodable or stale cookies leave the request anonymous, the last two
// also clear the cookie. Store failures are passed to ErrorHandler.
func (a *RouteAuthenticator) Middleware() router.MiddlewareFunc {
	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(c router.Context) error {
			user, err := a.ResolveSession(c.Context(), c.Cookies(a.cfg.GetCookieName()))
			switch {
			case err == nil:
				c.Locals(LocalsUserKey, user)
				c.SetContext(WithContext(c.Context(), user))
			case matchesSentinel(err, ErrUnableToFindSession):
			case IsSessionError(err):
				a.Logger.Debug("discarding session cookie", "reason", err.Error(), "path", c.Path())
				a.Logout(c)
			default:
				return a.ErrorHandler(c, err)
			}

			return next(c)
		}
	}
}

// ResolveSession maps a cookie value to a user. An empty token fails with
// ErrUnableToFindSession, a token the codec rejects with
// ErrUnableToDecodeSession and a token for a deleted user with
// ErrUserNotFound.
func (a *RouteAuthenticator) ResolveSession(ctx context.Context, token string) (*User, error) {
	if token == "" {
		return nil, ErrUnableToFindSession
	}

	raw, err := a.codec.Decode(token)
	if err != nil {
		return nil, ErrUnableToDecodeSession
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, ErrUnableToDecodeSession
	}

	user, err := a.users.GetByID(ctx, id)
	if err != nil {
		if matchesSentinel(err, ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to resolve session user")
	}

	return user, nil
}
