package idempotency_repo

import (
	"context"

	"banking/internal/domain"
)

type IdempotencyRepository interface {
	// GetReceiptTx returns the Receipt cached under (userID, key), or nil when
	// the key has not been seen.
	GetReceiptTx(ctx context.Context, querier domain.Querier, userID int64, key string) (*domain.Receipt, error)
	SaveReceiptTx(ctx context.Context, querier domain.Querier, userID int64, key string, receipt *domain.Receipt) error
}
