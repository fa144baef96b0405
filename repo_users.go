package auth

import (
	"context"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ResetUserPasswordSQL rotates the password hash and consumes the reset token
// in a single statement, so a concurrent consumer of the same token loses at
// the store rather than double-spending it.
var ResetUserPasswordSQL = `UPDATE "users" AS "usr"
SET
	"password_hash" = ?,
	"reset_token" = NULL,
	"updated_at" = CURRENT_TIMESTAMP
WHERE
	"usr"."deleted_at" IS NULL
AND (
	"usr"."id" = ?
) RETURNING *;`

// Users is the store contract for User records. Lookups are a small set of
// explicit named finders keyed by the columns the service actually queries;
// there is no generic filter.
type Users interface {
	repository.Repository[*User]

	Register(ctx context.Context, user *User) (*User, error)
	RegisterTx(ctx context.Context, tx bun.IDB, user *User) (*User, error)

	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByEmailTx(ctx context.Context, tx bun.IDB, email string) (*User, error)
	FindBySessionToken(ctx context.Context, token string) (*User, error)
	FindBySessionTokenTx(ctx context.Context, tx bun.IDB, token string) (*User, error)
	FindByResetToken(ctx context.Context, token string) (*User, error)
	FindByResetTokenTx(ctx context.Context, tx bun.IDB, token string) (*User, error)

	StoreSessionToken(ctx context.Context, id uuid.UUID, token string) error
	StoreSessionTokenTx(ctx context.Context, tx bun.IDB, id uuid.UUID, token string) error
	ClearSessionToken(ctx context.Context, id uuid.UUID) error
	ClearSessionTokenTx(ctx context.Context, tx bun.IDB, id uuid.UUID) error
	StoreResetToken(ctx context.Context, id uuid.UUID, token string) error
	StoreResetTokenTx(ctx context.Context, tx bun.IDB, id uuid.UUID, token string) error

	ResetPassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	ResetPasswordTx(ctx context.Context, tx bun.IDB, id uuid.UUID, passwordHash string) error
}

type users struct {
	repository.Repository[*User]
	db *bun.DB
}

var (
	_ Users                        = (*users)(nil)
	_ repository.Repository[*User] = (*users)(nil)
)

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
		Repository: repo,
		db:         db,
	}
}

func (a *users) Register(ctx context.Context, user *User) (*User, error) {
	return a.RegisterTx(ctx, a.db, user)
}

// RegisterTx inserts a new user. The unique index on email is the authority
// on uniqueness: a losing concurrent insert surfaces as ErrDuplicateEmail.
func (a *users) RegisterTx(ctx context.Context, tx bun.IDB, user *User) (*User, error) {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	record, err := a.CreateTx(ctx, tx, user)
	if err != nil {
		if IsUniqueViolation(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}
	return record, nil
}

func (a *users) FindByEmail(ctx context.Context, email string) (*User, error) {
	return a.FindByEmailTx(ctx, a.db, email)
}

func (a *users) FindByEmailTx(ctx context.Context, tx bun.IDB, email string) (*User, error) {
	return a.findByColumnTx(ctx, tx, "email", email)
}

func (a *users) FindBySessionToken(ctx context.Context, token string) (*User, error) {
	return a.FindBySessionTokenTx(ctx, a.db, token)
}

func (a *users) FindBySessionTokenTx(ctx context.Context, tx bun.IDB, token string) (*User, error) {
	return a.findByColumnTx(ctx, tx, "session_token", token)
}

func (a *users) FindByResetToken(ctx context.Context, token string) (*User, error) {
	return a.FindByResetTokenTx(ctx, a.db, token)
}

func (a *users) FindByResetTokenTx(ctx context.Context, tx bun.IDB, token string) (*User, error) {
	return a.findByColumnTx(ctx, tx, "reset_token", token)
}

func (a *users) findByColumnTx(ctx context.Context, tx bun.IDB, column, value string) (*User, error) {
	record := &User{}
	err := tx.NewSelect().
		Model(record).
		Where("?TableAlias."+column+" = ?", value).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{
					"column": column,
				})
		}
		return nil, err
	}
	return record, nil
}

func (a *users) StoreSessionToken(ctx context.Context, id uuid.UUID, token string) error {
	return a.StoreSessionTokenTx(ctx, a.db, id, token)
}

func (a *users) StoreSessionTokenTx(ctx context.Context, tx bun.IDB, id uuid.UUID, token string) error {
	return a.setColumnTx(ctx, tx, id, "session_token = ?", token)
}

func (a *users) ClearSessionToken(ctx context.Context, id uuid.UUID) error {
	return a.ClearSessionTokenTx(ctx, a.db, id)
}

func (a *users) ClearSessionTokenTx(ctx context.Context, tx bun.IDB, id uuid.UUID) error {
	_, err := tx.NewUpdate().
		Model((*User)(nil)).
		Set("session_token = NULL").
		Set("updated_at = CURRENT_TIMESTAMP").
		Where("?TableAlias.id = ?", id).
		Exec(ctx)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to clear session token")
	}
	return nil
}

func (a *users) StoreResetToken(ctx context.Context, id uuid.UUID, token string) error {
	return a.StoreResetTokenTx(ctx, a.db, id, token)
}

func (a *users) StoreResetTokenTx(ctx context.Context, tx bun.IDB, id uuid.UUID, token string) error {
	return a.setColumnTx(ctx, tx, id, "reset_token = ?", token)
}

func (a *users) setColumnTx(ctx context.Context, tx bun.IDB, id uuid.UUID, assignment string, value string) error {
	_, err := tx.NewUpdate().
		Model((*User)(nil)).
		Set(assignment, value).
		Set("updated_at = CURRENT_TIMESTAMP").
		Where("?TableAlias.id = ?", id).
		Exec(ctx)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to update user token")
	}
	return nil
}

func (a *users) ResetPassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	return a.ResetPasswordTx(ctx, a.db, id, passwordHash)
}

func (a *users) ResetPasswordTx(ctx context.Context, tx bun.IDB, id uuid.UUID, passwordHash string) error {
	_, err := a.RawTx(ctx, tx, ResetUserPasswordSQL, passwordHash, id.String())
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to update user password in database")
	}
	return nil
}
