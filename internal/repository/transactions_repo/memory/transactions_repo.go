// Package memory is an in-memory TransactionRepository used by tests.
package memory

import (
	"context"
	"sync"

	"banking/internal/domain"
	"banking/internal/repository/transactions_repo"
)

type TransactionRepository struct {
	mu      sync.Mutex
	nextID  int64
	records []domain.TransactionRecord
}

func NewTransactionRepository() *TransactionRepository {
	return &TransactionRepository{nextID: 1}
}

func (r *TransactionRepository) AppendTx(ctx context.Context, querier domain.Querier, record *domain.TransactionRecord) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.nextID
	r.nextID++
	stored := *record
	stored.ID = id
	r.records = append(r.records, stored)
	return id, nil
}

func (r *TransactionRepository) ListByUser(ctx context.Context, querier domain.Querier, userID int64) ([]domain.TransactionRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []domain.TransactionRecord
	for i := len(r.records) - 1; i >= 0; i-- {
		if r.records[i].UserID == userID {
			result = append(result, r.records[i])
		}
	}
	return result, nil
}

var _ transactions_repo.TransactionRepository = (*TransactionRepository)(nil)
