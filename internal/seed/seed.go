// Package seed provisions the demo user on an empty database, mirroring what
// the service's own registration flow would create plus some ledger history.
package seed

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"banking/internal/domain"
	"banking/internal/repository/accounts_repo"
	"banking/internal/repository/transactions_repo"
	"banking/internal/repository/users_repo"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	demoUsername = "demo"
	demoPassword = "demo123"
)

func Run(
	ctx context.Context,
	db *sql.DB,
	userRepo users_repo.UserRepository,
	accountRepo accounts_repo.AccountRepository,
	transactionRepo transactions_repo.TransactionRepository,
	logger *zap.Logger,
) error {
	count, err := userRepo.Count(ctx, db)
	if err != nil {
		return fmt.Errorf("failed to check for existing users: %w", err)
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(demoPassword), 10)
	if err != nil {
		return fmt.Errorf("failed to hash demo password: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin seed transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()
	userID, err := userRepo.CreateTx(ctx, tx, &domain.User{
		Username:     demoUsername,
		PasswordHash: string(hash),
		CreatedAt:    now,
	})
	if err != nil {
		return fmt.Errorf("failed to create demo user: %w", err)
	}

	accounts := []domain.Account{
		{UserID: userID, Name: "Savings", AccountNo: "SAV-001", Balance: decimal.RequireFromString("52340.75"), CreatedAt: now, UpdatedAt: now},
		{UserID: userID, Name: "Checking", AccountNo: "CHK-201", Balance: decimal.RequireFromString("8340.10"), CreatedAt: now, UpdatedAt: now},
	}
	for i := range accounts {
		if _, err := accountRepo.CreateTx(ctx, tx, &accounts[i]); err != nil {
			return fmt.Errorf("failed to create demo account %s: %w", accounts[i].AccountNo, err)
		}
	}

	history := []domain.TransactionRecord{
		{UserID: userID, Date: time.Date(2025, 9, 5, 0, 0, 0, 0, time.UTC), Description: "UPI • Grocery", Amount: decimal.RequireFromString("-1450.50")},
		{UserID: userID, Date: time.Date(2025, 9, 3, 0, 0, 0, 0, time.UTC), Description: "NEFT • Salary", Amount: decimal.RequireFromString("35000.00")},
		{UserID: userID, Date: time.Date(2025, 8, 30, 0, 0, 0, 0, time.UTC), Description: "Card • Fuel", Amount: decimal.RequireFromString("-1200.00")},
	}
	for i := range history {
		if _, err := transactionRepo.AppendTx(ctx, tx, &history[i]); err != nil {
			return fmt.Errorf("failed to seed transaction history: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit seed transaction: %w", err)
	}

	logger.Info("Seeded demo user", zap.String("username", demoUsername), zap.Int64("user_id", userID))
	return nil
}
