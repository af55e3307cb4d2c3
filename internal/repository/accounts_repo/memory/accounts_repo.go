// Package memory is an in-memory AccountRepository used by tests. It mirrors
// the postgres implementation's atomicity: the balance check and the
// subtraction happen under one lock.
package memory

import (
	"context"
	"sync"
	"time"

	"banking/internal/domain"
	"banking/internal/repository/accounts_repo"

	"github.com/shopspring/decimal"
)

type AccountRepository struct {
	mu       sync.Mutex
	nextID   int64
	accounts map[int64]domain.Account
}

func NewAccountRepository() *AccountRepository {
	return &AccountRepository{
		nextID:   1,
		accounts: make(map[int64]domain.Account),
	}
}

func (r *AccountRepository) CreateTx(ctx context.Context, querier domain.Querier, account *domain.Account) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.nextID
	r.nextID++
	stored := *account
	stored.ID = id
	r.accounts[id] = stored
	return id, nil
}

func (r *AccountRepository) GetForOwnerTx(ctx context.Context, querier domain.Querier, accountID, userID int64) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	account, ok := r.accounts[accountID]
	if !ok || account.UserID != userID {
		return nil, domain.ErrAccountNotFound
	}
	copied := account
	return &copied, nil
}

func (r *AccountRepository) ListByUser(ctx context.Context, querier domain.Querier, userID int64) ([]domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []domain.Account
	for id := int64(1); id < r.nextID; id++ {
		if account, ok := r.accounts[id]; ok && account.UserID == userID {
			result = append(result, account)
		}
	}
	return result, nil
}

func (r *AccountRepository) DebitTx(ctx context.Context, querier domain.Querier, accountID int64, amount decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	account, ok := r.accounts[accountID]
	if !ok {
		return domain.ErrAccountNotFound
	}
	if account.Balance.Cmp(amount) < 0 {
		return domain.ErrInsufficientFunds
	}
	account.Balance = account.Balance.Sub(amount)
	account.UpdatedAt = time.Now()
	r.accounts[accountID] = account
	return nil
}

func (r *AccountRepository) CreditTx(ctx context.Context, querier domain.Querier, accountID int64, amount decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	account, ok := r.accounts[accountID]
	if !ok {
		return domain.ErrAccountNotFound
	}
	account.Balance = account.Balance.Add(amount)
	account.UpdatedAt = time.Now()
	r.accounts[accountID] = account
	return nil
}

var _ accounts_repo.AccountRepository = (*AccountRepository)(nil)
