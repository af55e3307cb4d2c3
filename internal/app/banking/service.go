package banking

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"banking/internal/domain"
	"banking/internal/repository/accounts_repo"
	"banking/internal/repository/idempotency_repo"
	"banking/internal/repository/outbox_repo"
	"banking/internal/repository/transactions_repo"
	"banking/internal/util"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type BankingService interface {
	GetAccounts(ctx context.Context, userID int64) ([]domain.Account, error)
	GetTransactions(ctx context.Context, userID int64) ([]domain.TransactionRecord, error)
	Transfer(ctx context.Context, userID, fromAccountID int64, payee string, amount decimal.Decimal, idempotencyKey string) (*domain.Receipt, error)
}

type bankingService struct {
	db              *sql.DB
	accountRepo     accounts_repo.AccountRepository
	transactionRepo transactions_repo.TransactionRepository
	outboxRepo      outbox_repo.OutboxRepository
	idempotencyRepo idempotency_repo.IdempotencyRepository
	eventsTopic     string
	logger          *zap.Logger
}

func NewBankingService(
	db *sql.DB,
	accountRepo accounts_repo.AccountRepository,
	transactionRepo transactions_repo.TransactionRepository,
	outboxRepo outbox_repo.OutboxRepository,
	idempotencyRepo idempotency_repo.IdempotencyRepository,
	eventsTopic string,
	logger *zap.Logger,
) BankingService {
	return &bankingService{
		db:              db,
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
		outboxRepo:      outboxRepo,
		idempotencyRepo: idempotencyRepo,
		eventsTopic:     eventsTopic,
		logger:          logger,
	}
}

func (s *bankingService) GetAccounts(ctx context.Context, userID int64) ([]domain.Account, error) {
	accounts, err := s.accountRepo.ListByUser(ctx, s.db, userID)
	if err != nil {
		s.logger.Error("Failed to list accounts", zap.Int64("user_id", userID), zap.Error(err))
		return nil, storageErr("list accounts", err)
	}
	return accounts, nil
}

func (s *bankingService) GetTransactions(ctx context.Context, userID int64) ([]domain.TransactionRecord, error) {
	records, err := s.transactionRepo.ListByUser(ctx, s.db, userID)
	if err != nil {
		s.logger.Error("Failed to list transactions", zap.Int64("user_id", userID), zap.Error(err))
		return nil, storageErr("list transactions", err)
	}
	return records, nil
}

// Transfer debits fromAccountID and appends the matching ledger record as one
// database transaction; either both persist or neither does. The conditional
// debit inside the transaction is what keeps two concurrent transfers from
// jointly overdrawing an account. Once the transaction has begun it runs to
// commit or rollback; client-side cancellation is not honored mid-flight.
func (s *bankingService) Transfer(ctx context.Context, userID, fromAccountID int64, payee string, amount decimal.Decimal, idempotencyKey string) (*domain.Receipt, error) {
	if amount.Sign() <= 0 {
		return nil, domain.ErrInvalidAmount
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("Failed to begin transfer transaction", zap.Int64("user_id", userID), zap.Error(err))
		return nil, storageErr("begin transfer", err)
	}
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Recovered panic during transfer, rolling back", zap.Int64("user_id", userID), zap.Any("panic", r))
			tx.Rollback()
			panic(r)
		}
	}()

	receipt, replayed, err := s.transferTx(ctx, tx, userID, fromAccountID, payee, amount, idempotencyKey)
	if err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			s.logger.Error("Failed to roll back transfer transaction", zap.Int64("user_id", userID), zap.Error(rbErr))
		}
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("Failed to commit transfer transaction", zap.Int64("user_id", userID), zap.Error(err))
		return nil, storageErr("commit transfer", err)
	}

	if replayed {
		s.logger.Info("Transfer replayed from idempotency cache",
			zap.Int64("user_id", userID),
			zap.String("idempotency_key", idempotencyKey),
			zap.Int64("transaction_id", receipt.TransactionID))
		return receipt, nil
	}

	s.logger.Info("Transfer completed",
		zap.Int64("user_id", userID),
		zap.Int64("account_id", fromAccountID),
		zap.Int64("transaction_id", receipt.TransactionID),
		zap.String("amount", amount.String()),
		zap.String("new_balance", receipt.NewBalance.String()))
	return receipt, nil
}

func (s *bankingService) transferTx(ctx context.Context, tx *sql.Tx, userID, fromAccountID int64, payee string, amount decimal.Decimal, idempotencyKey string) (*domain.Receipt, bool, error) {
	if idempotencyKey != "" {
		cached, err := s.idempotencyRepo.GetReceiptTx(ctx, tx, userID, idempotencyKey)
		if err != nil {
			return nil, false, storageErr("look up idempotency key", err)
		}
		if cached != nil {
			return cached, true, nil
		}
	}

	account, err := s.accountRepo.GetForOwnerTx(ctx, tx, fromAccountID, userID)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			s.logger.Warn("Transfer from unknown or foreign account",
				zap.Int64("user_id", userID), zap.Int64("account_id", fromAccountID))
			return nil, false, domain.ErrAccountNotFound
		}
		return nil, false, storageErr("get source account", err)
	}

	if err := s.accountRepo.DebitTx(ctx, tx, account.ID, amount); err != nil {
		if errors.Is(err, domain.ErrInsufficientFunds) {
			s.logger.Warn("Transfer rejected, insufficient funds",
				zap.Int64("user_id", userID),
				zap.Int64("account_id", account.ID),
				zap.String("amount", amount.String()),
				zap.String("balance", account.Balance.String()))
			return nil, false, domain.ErrInsufficientFunds
		}
		return nil, false, storageErr("debit account", err)
	}

	now := time.Now()
	record := &domain.TransactionRecord{
		UserID:      userID,
		Date:        now,
		Description: "Transfer to " + payee,
		Amount:      amount.Neg(),
	}
	transactionID, err := s.transactionRepo.AppendTx(ctx, tx, record)
	if err != nil {
		return nil, false, storageErr("append ledger record", err)
	}

	newBalance := account.Balance.Sub(amount)
	receipt := &domain.Receipt{
		TransactionID: transactionID,
		Amount:        amount,
		NewBalance:    newBalance,
	}

	event := domain.TransferCompletedEvent{
		TransactionID: transactionID,
		UserID:        userID,
		AccountID:     account.ID,
		Payee:         payee,
		Amount:        amount,
		NewBalance:    newBalance,
		Timestamp:     now,
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, false, fmt.Errorf("failed to marshal transfer event: %w", err)
	}

	outboxMsg := &domain.OutboxMessage{
		ID:            util.GenerateUUID(),
		AggregateID:   strconv.FormatInt(account.ID, 10),
		AggregateType: "account",
		MessageType:   "TransferCompleted",
		Topic:         s.eventsTopic,
		Key:           strconv.FormatInt(account.ID, 10),
		Payload:       payload,
		Status:        domain.OutboxStatusPending,
		CreatedAt:     now,
	}
	if err := s.outboxRepo.CreateMessageTx(ctx, tx, outboxMsg); err != nil {
		return nil, false, storageErr("create outbox message", err)
	}

	if idempotencyKey != "" {
		if err := s.idempotencyRepo.SaveReceiptTx(ctx, tx, userID, idempotencyKey, receipt); err != nil {
			return nil, false, storageErr("save idempotency key", err)
		}
	}

	return receipt, false, nil
}

func storageErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", domain.ErrStorageUnavailable, op, err)
}
