package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"banking/internal/domain"

	"github.com/lib/pq"
)

type UserRepository struct{}

func NewUserRepository() *UserRepository {
	return &UserRepository{}
}

func (r *UserRepository) CreateTx(ctx context.Context, querier domain.Querier, user *domain.User) (int64, error) {
	query := `
		INSERT INTO users (username, password_hash, created_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	var id int64
	err := querier.QueryRowContext(ctx, query, user.Username, user.PasswordHash, user.CreatedAt).Scan(&id)
	if err != nil {
		if pgErr, ok := err.(*pq.Error); ok && pgErr.Code == "23505" {
			return 0, domain.ErrUserAlreadyExists
		}
		return 0, fmt.Errorf("failed to create user %q: %w", user.Username, err)
	}
	return id, nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, querier domain.Querier, username string) (*domain.User, error) {
	query := `
		SELECT id, username, password_hash, created_at
		FROM users
		WHERE username = $1
	`
	user := &domain.User{}
	err := querier.QueryRowContext(ctx, query, username).Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&user.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user %q: %w", username, err)
	}
	return user, nil
}

func (r *UserRepository) GetByID(ctx context.Context, querier domain.Querier, id int64) (*domain.User, error) {
	query := `
		SELECT id, username, password_hash, created_at
		FROM users
		WHERE id = $1
	`
	user := &domain.User{}
	err := querier.QueryRowContext(ctx, query, id).Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&user.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user %d: %w", id, err)
	}
	return user, nil
}

func (r *UserRepository) Count(ctx context.Context, querier domain.Querier) (int64, error) {
	var count int64
	err := querier.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}
