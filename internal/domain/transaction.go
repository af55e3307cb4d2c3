package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionRecord is one immutable row of the ledger. Ids are assigned by
// the store in a single monotonic order; gaps left by failed appends are fine.
type TransactionRecord struct {
	ID          int64
	UserID      int64
	Date        time.Time // calendar date, time-of-day is not meaningful
	Description string
	Amount      decimal.Decimal // negative = debit, positive = credit
}

// Receipt is the success payload of a completed transfer.
type Receipt struct {
	TransactionID int64
	Amount        decimal.Decimal
	NewBalance    decimal.Decimal
}
