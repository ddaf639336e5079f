package auth

import (
	"context"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

type LoginUserMessage struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	OnResponse func(resp *LoginUserResponse)
}

func (e LoginUserMessage) Type() string { return "user.login" }

type LoginUserResponse struct {
	User *User
}

// LoginUserHandler verifies credentials. Unknown emails and wrong passwords
// both fail with ErrMismatchedHashAndPassword.
type LoginUserHandler struct {
	users     Users
	passwords PasswordAuthenticator
}

func NewLoginUserHandler(users Users, passwords PasswordAuthenticator) *LoginUserHandler {
	if passwords == nil {
		passwords = BcryptPasswords{}
	}
	return &LoginUserHandler{
		users:     users,
		passwords: passwords,
	}
}

func (h *LoginUserHandler) Execute(ctx context.Context, event LoginUserMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during login",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *LoginUserHandler) execute(ctx context.Context, event LoginUserMessage) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	user, err := h.users.GetByEmail(ctx, strings.TrimSpace(event.Email))
	if err != nil {
		if matchesSentinel(err, ErrUserNotFound) {
			// keep the work factor on this path close to a real compare
			_ = h.passwords.ComparePasswordAndHash(event.Password, dummyPasswordHash())
			return ErrMismatchedHashAndPassword
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to look up user for login")
	}

	if !VerifyPassword(h.passwords, event.Password, user.PasswordHash) {
		return ErrMismatchedHashAndPassword
	}

	if event.OnResponse != nil {
		event.OnResponse(&LoginUserResponse{User: user})
	}

	return nil
}
