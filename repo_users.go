package auth

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Users is the credential store
type Users interface {
	UserFinder

	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByEmailTx(ctx context.Context, tx bun.IDB, email string) (*User, error)
	Create(ctx context.Context, record *User) (*User, error)
	CreateTx(ctx context.Context, tx bun.IDB, record *User) (*User, error)

	// GetOrCreate returns the user registered under record.Email, inserting
	// record when there is none. The bool reports whether record was inserted.
	GetOrCreate(ctx context.Context, record *User) (*User, bool, error)
	GetOrCreateTx(ctx context.Context, tx bun.IDB, record *User) (*User, bool, error)
}

type users struct {
	repo repository.Repository[*User]
	db   *bun.DB
}

var _ Users = (*users)(nil)

// NewUsersRepository returns the bun backed users store
func NewUsersRepository(db *bun.DB) Users {
	repo := repository.NewRepository[*User](db, repository.ModelHandlers[*User]{
		NewRecord: func() *User { return &User{} },
		GetID: func(u *User) uuid.UUID {
			if u == nil {
				return uuid.Nil
			}
			return u.ID
		},
		SetID: func(u *User, id uuid.UUID) {
			if u != nil {
				u.ID = id
			}
		},
		GetIdentifier: func() string {
			return "email"
		},
	})

	return &users{
		repo: repo,
		db:   db,
	}
}

func (a *users) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	if id == uuid.Nil {
		return nil, ErrUserNotFound
	}

	user, err := a.repo.GetByID(ctx, id.String())
	if err != nil {
		if isRecordNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to find user by id").
			WithMetadata(map[string]any{"id": id.String()})
	}

	return user, nil
}

func (a *users) GetByEmail(ctx context.Context, email string) (*User, error) {
	return a.GetByEmailTx(ctx, a.db, email)
}

func (a *users) GetByEmailTx(ctx context.Context, tx bun.IDB, email string) (*User, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, ErrUserNotFound
	}

	record := &User{}
	err := tx.NewSelect().
		Model(record).
		Where("?TableAlias.email = ?", email).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if isRecordNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to find user by email")
	}

	return record, nil
}

func (a *users) Create(ctx context.Context, record *User) (*User, error) {
	return a.CreateTx(ctx, a.db, record)
}

func (a *users) CreateTx(ctx context.Context, tx bun.IDB, record *User) (*User, error) {
	prepareUserDefaults(record)

	if _, err := tx.NewInsert().Model(record).Exec(ctx); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryConflict, "could not create user").
			WithCode(goerrors.CodeConflict)
	}

	return record, nil
}

func (a *users) GetOrCreate(ctx context.Context, record *User) (*User, bool, error) {
	return a.GetOrCreateTx(ctx, a.db, record)
}

func (a *users) GetOrCreateTx(ctx context.Context, tx bun.IDB, record *User) (*User, bool, error) {
	if record == nil || strings.TrimSpace(record.Email) == "" {
		return nil, false, goerrors.New("email is required", goerrors.CategoryValidation).
			WithCode(goerrors.CodeBadRequest)
	}

	existing, err := a.GetByEmailTx(ctx, tx, record.Email)
	switch {
	case err == nil:
		return existing, false, nil
	case !errors.Is(err, ErrUserNotFound):
		return nil, false, err
	}

	prepareUserDefaults(record)

	// the unique index on email decides the race, the loser inserts nothing
	res, err := tx.NewInsert().
		Model(record).
		On("CONFLICT (email) DO NOTHING").
		Exec(ctx)

	inserted := false
	switch {
	case err == nil:
		n, rerr := res.RowsAffected()
		if rerr != nil {
			return nil, false, goerrors.Wrap(rerr, goerrors.CategoryInternal, "failed to read insert result")
		}
		inserted = n == 1
	case errors.Is(err, sql.ErrNoRows):
	default:
		return nil, false, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to insert user")
	}

	if inserted {
		return record, true, nil
	}

	existing, err = a.GetByEmailTx(ctx, tx, record.Email)
	if err != nil {
		return nil, false, err
	}

	return existing, false, nil
}
