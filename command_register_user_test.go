package auth_test

import (
	"context"
	"errors"
	"testing"

	auth "github.com/goliatone/go-user-auth"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func registerUser(t *testing.T, repo auth.RepositoryManager, msg auth.RegisterUserMessage) (*auth.RegisterUserResponse, error) {
	t.Helper()

	var res *auth.RegisterUserResponse
	msg.OnResponse = func(resp *auth.RegisterUserResponse) { res = resp }

	err := auth.NewRegisterUserHandler(repo, fastPasswords()).Execute(context.Background(), msg)
	return res, err
}

func TestRegisterUserHandler(t *testing.T) {
	repo := auth.NewRepositoryManager(newTestDB(t))

	res, err := registerUser(t, repo, auth.RegisterUserMessage{Email: " ana@example.com ", Password: "first"})
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.True(t, res.Created)
	assert.Equal(t, "ana@example.com", res.User.Email)
	assert.NotEqual(t, "first", res.User.PasswordHash)
	assert.True(t, auth.VerifyPassword(fastPasswords(), "first", res.User.PasswordHash))

	dup, err := registerUser(t, repo, auth.RegisterUserMessage{Email: "ana@example.com", Password: "second"})
	require.NoError(t, err)
	require.NotNil(t, dup)
	assert.False(t, dup.Created)
	assert.Equal(t, res.User.ID, dup.User.ID)

	stored, err := repo.Users().GetByEmail(context.Background(), "ana@example.com")
	require.NoError(t, err)
	assert.True(t, auth.VerifyPassword(fastPasswords(), "first", stored.PasswordHash))
	assert.False(t, auth.VerifyPassword(fastPasswords(), "second", stored.PasswordHash))
}

func TestRegisterUserHandlerEmptyPassword(t *testing.T) {
	repo := auth.NewRepositoryManager(newTestDB(t))

	res, err := registerUser(t, repo, auth.RegisterUserMessage{Email: "ana@example.com"})
	assert.Error(t, err)
	assert.Nil(t, res)

	_, err = repo.Users().GetByEmail(context.Background(), "ana@example.com")
	assert.ErrorIs(t, err, auth.ErrUserNotFound)
}

func TestRegisterUserHandlerCancelledContext(t *testing.T) {
	users := &MockUsers{}
	repo := &MockRepositoryManager{users: users}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := auth.NewRegisterUserHandler(repo, fastPasswords()).Execute(ctx, auth.RegisterUserMessage{
		Email:    "ana@example.com",
		Password: "secret",
	})
	assert.ErrorIs(t, err, context.Canceled)
	users.AssertNotCalled(t, "GetOrCreateTx", mock.Anything, mock.Anything, mock.Anything)
}

func TestRegisterUserHandlerStoreFailure(t *testing.T) {
	users := &MockUsers{}
	users.On("GetOrCreateTx", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, false, errors.New("disk full"))

	res, err := registerUser(t, &MockRepositoryManager{users: users}, auth.RegisterUserMessage{
		Email:    "ana@example.com",
		Password: "secret",
	})
	assert.Error(t, err)
	assert.Nil(t, res)
	assert.False(t, auth.IsInvalidCredentials(err))
	users.AssertExpectations(t)
}

func TestRegisterUserHandlerTxFailure(t *testing.T) {
	repo := &MockRepositoryManager{users: &MockUsers{}, err: errors.New("begin failed")}

	_, err := registerUser(t, repo, auth.RegisterUserMessage{Email: "ana@example.com", Password: "secret"})
	assert.Error(t, err)
}

func TestRegisterUserHandlerHashidIDs(t *testing.T) {
	repo := auth.NewRepositoryManager(newTestDB(t))

	res, err := registerUser(t, repo, auth.RegisterUserMessage{
		Email:     "ana@example.com",
		Password:  "secret",
		UseHashid: true,
	})
	require.NoError(t, err)
	require.True(t, res.Created)

	want, err := hashid.NewUUID("ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, want, res.User.ID)

	dup, err := registerUser(t, repo, auth.RegisterUserMessage{
		Email:     "ana@example.com",
		Password:  "other",
		UseHashid: true,
	})
	require.NoError(t, err)
	assert.False(t, dup.Created)
	assert.Equal(t, want, dup.User.ID)
}

func TestRegisterUserMessageType(t *testing.T) {
	assert.Equal(t, "user.register", auth.RegisterUserMessage{}.Type())
	assert.Equal(t, "user.login", auth.LoginUserMessage{}.Type())
}
