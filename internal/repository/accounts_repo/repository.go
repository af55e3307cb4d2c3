package accounts_repo

import (
	"context"

	"banking/internal/domain"

	"github.com/shopspring/decimal"
)

type AccountRepository interface {
	CreateTx(ctx context.Context, querier domain.Querier, account *domain.Account) (int64, error)
	// GetForOwnerTx returns the account only when it exists and belongs to
	// userID, locking the row for the rest of the transaction. Missing and
	// not-owned both come back as domain.ErrAccountNotFound.
	GetForOwnerTx(ctx context.Context, querier domain.Querier, accountID, userID int64) (*domain.Account, error)
	ListByUser(ctx context.Context, querier domain.Querier, userID int64) ([]domain.Account, error)
	// DebitTx subtracts amount (amount > 0, validated by the caller) only if
	// the resulting balance stays >= 0, as one atomic check-and-mutate.
	DebitTx(ctx context.Context, querier domain.Querier, accountID int64, amount decimal.Decimal) error
	CreditTx(ctx context.Context, querier domain.Querier, accountID int64, amount decimal.Decimal) error
}
