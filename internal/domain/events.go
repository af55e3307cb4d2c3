package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransferCompletedEvent is published after a transfer has committed.
type TransferCompletedEvent struct {
	TransactionID int64           `json:"transaction_id"`
	UserID        int64           `json:"user_id"`
	AccountID     int64           `json:"account_id"`
	Payee         string          `json:"payee"`
	Amount        decimal.Decimal `json:"amount"`
	NewBalance    decimal.Decimal `json:"new_balance"`
	Timestamp     time.Time       `json:"timestamp"`
}
