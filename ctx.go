package auth

import (
	"context"

	"github.com/goliatone/go-router"
)

var userCtxKey = &contextKey{"user"}

type contextKey struct {
	name string
}

// LocalsUserKey is the locals key holding the resolved *User
const LocalsUserKey = "user"

// WithContext sets the User in the given context
func WithContext(r context.Context, user *User) context.Context {
	return context.WithValue(r, userCtxKey, user)
}

// FromContext finds the user from the context.
func FromContext(ctx context.Context) (*User, bool) {
	raw, ok := ctx.Value(userCtxKey).(*User)
	return raw, ok && raw != nil
}

// CurrentUser returns the user the session middleware resolved for this
// request, if any
func CurrentUser(c router.Context) (*User, bool) {
	if raw, ok := c.Locals(LocalsUserKey).(*User); ok && raw != nil {
		return raw, true
	}
	return FromContext(c.Context())
}
