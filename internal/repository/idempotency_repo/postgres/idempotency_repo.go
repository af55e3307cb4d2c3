package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"banking/internal/domain"
	"banking/internal/repository/idempotency_repo"
)

type IdempotencyRepository struct{}

func NewIdempotencyRepository() *IdempotencyRepository {
	return &IdempotencyRepository{}
}

func (r *IdempotencyRepository) GetReceiptTx(ctx context.Context, querier domain.Querier, userID int64, key string) (*domain.Receipt, error) {
	query := `
		SELECT transaction_id, amount, new_balance
		FROM idempotency_keys
		WHERE user_id = $1 AND key_id = $2
	`
	receipt := &domain.Receipt{}
	err := querier.QueryRowContext(ctx, query, userID, key).Scan(
		&receipt.TransactionID,
		&receipt.Amount,
		&receipt.NewBalance,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to look up idempotency key: %w", err)
	}
	return receipt, nil
}

func (r *IdempotencyRepository) SaveReceiptTx(ctx context.Context, querier domain.Querier, userID int64, key string, receipt *domain.Receipt) error {
	query := `
		INSERT INTO idempotency_keys (user_id, key_id, transaction_id, amount, new_balance, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := querier.ExecContext(ctx, query,
		userID, key, receipt.TransactionID, receipt.Amount, receipt.NewBalance, time.Now())
	if err != nil {
		return fmt.Errorf("failed to save idempotency key: %w", err)
	}
	return nil
}

var _ idempotency_repo.IdempotencyRepository = (*IdempotencyRepository)(nil)
