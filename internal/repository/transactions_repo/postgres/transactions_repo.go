package postgres

import (
	"context"
	"fmt"

	"banking/internal/domain"
	"banking/internal/repository/transactions_repo"
)

type TransactionRepository struct{}

func NewTransactionRepository() *TransactionRepository {
	return &TransactionRepository{}
}

func (r *TransactionRepository) AppendTx(ctx context.Context, querier domain.Querier, record *domain.TransactionRecord) (int64, error) {
	query := `
		INSERT INTO transactions (user_id, when_date, description, amount)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	var id int64
	err := querier.QueryRowContext(ctx, query,
		record.UserID, record.Date, record.Description, record.Amount).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to append transaction for user %d: %w", record.UserID, err)
	}
	return id, nil
}

func (r *TransactionRepository) ListByUser(ctx context.Context, querier domain.Querier, userID int64) ([]domain.TransactionRecord, error) {
	query := `
		SELECT id, user_id, when_date, description, amount
		FROM transactions
		WHERE user_id = $1
		ORDER BY id DESC
	`
	rows, err := querier.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions for user %d: %w", userID, err)
	}
	defer rows.Close()

	var records []domain.TransactionRecord
	for rows.Next() {
		var record domain.TransactionRecord
		if err := rows.Scan(
			&record.ID,
			&record.UserID,
			&record.Date,
			&record.Description,
			&record.Amount,
		); err != nil {
			return nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction rows: %w", err)
	}
	return records, nil
}

var _ transactions_repo.TransactionRepository = (*TransactionRepository)(nil)
