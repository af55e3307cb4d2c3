package transactions_repo

import (
	"context"

	"banking/internal/domain"
)

type TransactionRepository interface {
	// AppendTx writes a new immutable ledger record and returns the id the
	// store assigned to it. Records are never updated or deleted afterwards.
	AppendTx(ctx context.Context, querier domain.Querier, record *domain.TransactionRecord) (int64, error)
	// ListByUser returns the user's records most recent first, a snapshot at
	// call time.
	ListByUser(ctx context.Context, querier domain.Querier, userID int64) ([]domain.TransactionRecord, error)
}
