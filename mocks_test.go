package auth_test

import (
	"context"
	"database/sql"

	auth "github.com/goliatone/go-user-auth"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/uptrace/bun"
)

// MockUsers implements auth.Users
type MockUsers struct {
	mock.Mock
}

func (m *MockUsers) GetByID(ctx context.Context, id uuid.UUID) (*auth.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*auth.User)
	return user, args.Error(1)
}

func (m *MockUsers) GetByEmail(ctx context.Context, email string) (*auth.User, error) {
	args := m.Called(ctx, email)
	user, _ := args.Get(0).(*auth.User)
	return user, args.Error(1)
}

func (m *MockUsers) GetByEmailTx(ctx context.Context, tx bun.IDB, email string) (*auth.User, error) {
	args := m.Called(ctx, tx, email)
	user, _ := args.Get(0).(*auth.User)
	return user, args.Error(1)
}

func (m *MockUsers) Create(ctx context.Context, record *auth.User) (*auth.User, error) {
	args := m.Called(ctx, record)
	user, _ := args.Get(0).(*auth.User)
	return user, args.Error(1)
}

func (m *MockUsers) CreateTx(ctx context.Context, tx bun.IDB, record *auth.User) (*auth.User, error) {
	args := m.Called(ctx, tx, record)
	user, _ := args.Get(0).(*auth.User)
	return user, args.Error(1)
}

func (m *MockUsers) GetOrCreate(ctx context.Context, record *auth.User) (*auth.User, bool, error) {
	args := m.Called(ctx, record)
	user, _ := args.Get(0).(*auth.User)
	return user, args.Bool(1), args.Error(2)
}

func (m *MockUsers) GetOrCreateTx(ctx context.Context, tx bun.IDB, record *auth.User) (*auth.User, bool, error) {
	args := m.Called(ctx, tx, record)
	user, _ := args.Get(0).(*auth.User)
	return user, args.Bool(1), args.Error(2)
}

// MockRepositoryManager runs transactions without a database
type MockRepositoryManager struct {
	users auth.Users
	err   error
}

func (m *MockRepositoryManager) Validate() error { return nil }

func (m *MockRepositoryManager) MustValidate() {}

func (m *MockRepositoryManager) RunInTx(ctx context.Context, _ *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error {
	if m.err != nil {
		return m.err
	}
	return f(ctx, bun.Tx{})
}

func (m *MockRepositoryManager) Users() auth.Users { return m.users }

// MockSessionCodec implements auth.SessionCodec
type MockSessionCodec struct {
	mock.Mock
}

func (m *MockSessionCodec) Encode(userID string) (string, error) {
	args := m.Called(userID)
	return args.String(0), args.Error(1)
}

func (m *MockSessionCodec) Decode(token string) (string, error) {
	args := m.Called(token)
	return args.String(0), args.Error(1)
}

// captureSink keeps every recorded activity event
type captureSink struct {
	events []auth.ActivityEvent
}

func (s *captureSink) Record(_ context.Context, event auth.ActivityEvent) error {
	s.events = append(s.events, event)
	return nil
}

func (s *captureSink) types() []auth.ActivityEventType {
	out := make([]auth.ActivityEventType, 0, len(s.events))
	for _, e := range s.events {
		out = append(out, e.EventType)
	}
	return out
}
