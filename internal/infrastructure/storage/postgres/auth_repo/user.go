// Package auth_repo provides the PostgreSQL implementation of the user
// repository.
package auth_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"voltstore/internal/core/apperror"
	"voltstore/internal/core/id"
	"voltstore/internal/domain/auth"
	"voltstore/internal/infrastructure/storage/postgres"
)

const usersTable = "sys_users"

var userColumns = []string{
	"id", "email", "password_hash", "name", "role",
	"is_active", "last_login_at", "created_at", "updated_at",
}

// UserRepo implements auth.Repository.
type UserRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

// NewUserRepo creates a new user repository.
func NewUserRepo(txManager *postgres.TxManager) *UserRepo {
	return &UserRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new user.
func (r *UserRepo) Create(ctx context.Context, user *auth.User) error {
	q := r.builder.Insert(usersTable).
		Columns(userColumns...).
		Values(
			user.ID, user.Email, user.PasswordHash, user.Name, user.Role,
			user.IsActive, user.LastLoginAt, user.CreatedAt, user.UpdatedAt,
		)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert user: %w", err)
	}

	return nil
}

// GetByID returns one user.
func (r *UserRepo) GetByID(ctx context.Context, userID id.ID) (*auth.User, error) {
	q := r.builder.Select(userColumns...).
		From(usersTable).
		Where(squirrel.Eq{"id": userID})

	return r.getOne(ctx, q, userID.String())
}

// GetByEmail returns one user by email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*auth.User, error) {
	q := r.builder.Select(userColumns...).
		From(usersTable).
		Where(squirrel.Eq{"email": email})

	return r.getOne(ctx, q, email)
}

func (r *UserRepo) getOne(ctx context.Context, q squirrel.SelectBuilder, key string) (*auth.User, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var user auth.User
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &user, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("user", key)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	return &user, nil
}

// UpdateLastLogin persists the last login timestamp.
func (r *UserRepo) UpdateLastLogin(ctx context.Context, user *auth.User) error {
	q := r.builder.Update(usersTable).
		Set("last_login_at", user.LastLoginAt).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": user.ID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	tag, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update last login: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("user", user.ID.String())
	}

	return nil
}
