package users_repo

import (
	"context"

	"banking/internal/domain"
)

type UserRepository interface {
	CreateTx(ctx context.Context, querier domain.Querier, user *domain.User) (int64, error)
	GetByUsername(ctx context.Context, querier domain.Querier, username string) (*domain.User, error)
	GetByID(ctx context.Context, querier domain.Querier, id int64) (*domain.User, error)
	Count(ctx context.Context, querier domain.Querier) (int64, error)
}
