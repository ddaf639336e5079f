package auth

import (
	"context"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/uptrace/bun"
)

type RegisterUserMessage struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	UseHashid  bool
	OnResponse func(resp *RegisterUserResponse)
}

func (e RegisterUserMessage) Type() string { return "user.register" }

// RegisterUserResponse carries the stored user. Created is false when the
// email was already registered, in which case User is the existing record
// and its password was left untouched.
type RegisterUserResponse struct {
	User    *User
	Created bool
}

type RegisterUserHandler struct {
	repo      RepositoryManager
	passwords PasswordAuthenticator
}

func NewRegisterUserHandler(repo RepositoryManager, passwords PasswordAuthenticator) *RegisterUserHandler {
	if passwords == nil {
		passwords = BcryptPasswords{}
	}
	return &RegisterUserHandler{
		repo:      repo,
		passwords: passwords,
	}
}

func (h *RegisterUserHandler) Execute(ctx context.Context, event RegisterUserMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during user registration",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *RegisterUserHandler) execute(ctx context.Context, event RegisterUserMessage) error {
	resp := &RegisterUserResponse{}
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	email := strings.TrimSpace(event.Email)

	hash, err := h.passwords.HashPassword(event.Password)
	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return goerrors.Wrap(richErr, goerrors.CategoryValidation, "invalid password provided")
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password")
	}

	err = h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		user := &User{
			Email:        email,
			PasswordHash: hash,
		}
		if event.UseHashid {
			if id, err := hashid.NewUUID(email); err == nil {
				user.ID = id
			}
		}

		stored, created, err := h.repo.Users().GetOrCreateTx(ctx, tx, user)
		if err != nil {
			return err
		}

		resp.User = stored
		resp.Created = created
		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}

		return goerrors.Wrap(err, goerrors.CategoryInternal, "user registration transaction failed")
	}

	if event.OnResponse != nil {
		event.OnResponse(resp)
	}

	return nil
}
