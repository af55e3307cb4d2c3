package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// ErrAccountNotFound covers both a missing account and an account owned by a
// different user; callers must not be able to tell the two apart.
var ErrAccountNotFound = errors.New("account not found")
var ErrInsufficientFunds = errors.New("insufficient funds")
var ErrInvalidAmount = errors.New("invalid amount")
var ErrStorageUnavailable = errors.New("storage unavailable")

type Account struct {
	ID        int64
	UserID    int64
	Name      string
	AccountNo string
	Balance   decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
}
