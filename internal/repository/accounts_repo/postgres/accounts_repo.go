package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"banking/internal/domain"
	"banking/internal/repository/accounts_repo"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

type AccountRepository struct{}

func NewAccountRepository() *AccountRepository {
	return &AccountRepository{}
}

func (r *AccountRepository) CreateTx(ctx context.Context, querier domain.Querier, account *domain.Account) (int64, error) {
	query := `
		INSERT INTO accounts (user_id, name, account_no, balance, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	var id int64
	err := querier.QueryRowContext(ctx, query,
		account.UserID, account.Name, account.AccountNo, account.Balance, account.CreatedAt, account.UpdatedAt).Scan(&id)
	if err != nil {
		if pgErr, ok := err.(*pq.Error); ok && pgErr.Code == "23505" {
			return 0, fmt.Errorf("account number %s already taken: %w", account.AccountNo, err)
		}
		return 0, fmt.Errorf("failed to create account for user %d: %w", account.UserID, err)
	}
	return id, nil
}

func (r *AccountRepository) GetForOwnerTx(ctx context.Context, querier domain.Querier, accountID, userID int64) (*domain.Account, error) {
	query := `
		SELECT id, user_id, name, account_no, balance, created_at, updated_at
		FROM accounts
		WHERE id = $1 AND user_id = $2
		FOR UPDATE
	`
	account := &domain.Account{}
	err := querier.QueryRowContext(ctx, query, accountID, userID).Scan(
		&account.ID,
		&account.UserID,
		&account.Name,
		&account.AccountNo,
		&account.Balance,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get account %d: %w", accountID, err)
	}
	return account, nil
}

func (r *AccountRepository) ListByUser(ctx context.Context, querier domain.Querier, userID int64) ([]domain.Account, error) {
	query := `
		SELECT id, user_id, name, account_no, balance, created_at, updated_at
		FROM accounts
		WHERE user_id = $1
		ORDER BY id
	`
	rows, err := querier.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts for user %d: %w", userID, err)
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		var account domain.Account
		if err := rows.Scan(
			&account.ID,
			&account.UserID,
			&account.Name,
			&account.AccountNo,
			&account.Balance,
			&account.CreatedAt,
			&account.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account rows: %w", err)
	}
	return accounts, nil
}

// DebitTx is a single conditional UPDATE, so the balance check and the
// subtraction cannot be separated by a concurrent writer. Zero rows affected
// means the guard rejected the debit.
func (r *AccountRepository) DebitTx(ctx context.Context, querier domain.Querier, accountID int64, amount decimal.Decimal) error {
	query := `
		UPDATE accounts
		SET balance = balance - $1, updated_at = $2
		WHERE id = $3 AND balance >= $1
	`
	res, err := querier.ExecContext(ctx, query, amount, time.Now(), accountID)
	if err != nil {
		return fmt.Errorf("failed to debit account %d: %w", accountID, err)
	}
	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected for debit: %w", err)
	}
	if rowsAffected == 0 {
		return domain.ErrInsufficientFunds
	}
	return nil
}

func (r *AccountRepository) CreditTx(ctx context.Context, querier domain.Querier, accountID int64, amount decimal.Decimal) error {
	query := `
		UPDATE accounts
		SET balance = balance + $1, updated_at = $2
		WHERE id = $3
	`
	res, err := querier.ExecContext(ctx, query, amount, time.Now(), accountID)
	if err != nil {
		return fmt.Errorf("failed to credit account %d: %w", accountID, err)
	}
	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected for credit: %w", err)
	}
	if rowsAffected == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

var _ accounts_repo.AccountRepository = (*AccountRepository)(nil)
