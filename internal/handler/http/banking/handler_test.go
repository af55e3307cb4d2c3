package banking_http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"banking/internal/domain"
	"banking/internal/handler/http/middleware"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubBankingService struct {
	accounts     []domain.Account
	transactions []domain.TransactionRecord
	receipt      *domain.Receipt
	err          error

	gotUserID        int64
	gotFromAccountID int64
	gotPayee         string
	gotAmount        decimal.Decimal
	gotKey           string
}

func (s *stubBankingService) GetAccounts(ctx context.Context, userID int64) ([]domain.Account, error) {
	s.gotUserID = userID
	return s.accounts, s.err
}

func (s *stubBankingService) GetTransactions(ctx context.Context, userID int64) ([]domain.TransactionRecord, error) {
	s.gotUserID = userID
	return s.transactions, s.err
}

func (s *stubBankingService) Transfer(ctx context.Context, userID, fromAccountID int64, payee string, amount decimal.Decimal, idempotencyKey string) (*domain.Receipt, error) {
	s.gotUserID = userID
	s.gotFromAccountID = fromAccountID
	s.gotPayee = payee
	s.gotAmount = amount
	s.gotKey = idempotencyKey
	if s.err != nil {
		return nil, s.err
	}
	return s.receipt, nil
}

func authedRequest(method, target string, body []byte, userID int64) *http.Request {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, bytes.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	return req.WithContext(middleware.WithUserID(req.Context(), userID))
}

func TestGetAccountsHandler(t *testing.T) {
	stub := &stubBankingService{accounts: []domain.Account{
		{ID: 1, UserID: 1, Name: "Savings", AccountNo: "SAV-001", Balance: decimal.RequireFromString("52340.75")},
		{ID: 2, UserID: 1, Name: "Checking", AccountNo: "CHK-201", Balance: decimal.RequireFromString("8340.10")},
	}}
	handler := NewBankingHandler(stub, zap.NewNop())

	rec := httptest.NewRecorder()
	handler.GetAccountsHandler(rec, authedRequest(http.MethodGet, "/api/accounts", nil, 1))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, int64(1), stub.gotUserID)

	var resp []AccountResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 2)
	assert.Equal(t, "SAV-001", resp[0].AccountNo)
	assert.True(t, resp[0].Balance.Equal(decimal.RequireFromString("52340.75")))

	// Balances travel as JSON strings, never floats.
	assert.Contains(t, rec.Body.String(), `"balance":"52340.75"`)
}

func TestGetAccountsHandlerEmptyListIsArray(t *testing.T) {
	handler := NewBankingHandler(&stubBankingService{}, zap.NewNop())

	rec := httptest.NewRecorder()
	handler.GetAccountsHandler(rec, authedRequest(http.MethodGet, "/api/accounts", nil, 1))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestGetTransactionsHandler(t *testing.T) {
	stub := &stubBankingService{transactions: []domain.TransactionRecord{
		{
			ID:          3,
			UserID:      1,
			Date:        time.Date(2025, 9, 5, 0, 0, 0, 0, time.UTC),
			Description: "UPI • Grocery",
			Amount:      decimal.RequireFromString("-1450.50"),
		},
	}}
	handler := NewBankingHandler(stub, zap.NewNop())

	rec := httptest.NewRecorder()
	handler.GetTransactionsHandler(rec, authedRequest(http.MethodGet, "/api/transactions", nil, 1))

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp []TransactionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	assert.Equal(t, "2025-09-05", resp[0].When)
	assert.Equal(t, "UPI • Grocery", resp[0].Description)
}

func TestTransferHandlerSuccess(t *testing.T) {
	stub := &stubBankingService{receipt: &domain.Receipt{
		TransactionID: 7,
		Amount:        decimal.RequireFromString("1450.50"),
		NewBalance:    decimal.RequireFromString("50890.25"),
	}}
	handler := NewBankingHandler(stub, zap.NewNop())

	body := []byte(`{"fromAccountId":1,"toPayee":"Grocery","amount":"1450.50"}`)
	req := authedRequest(http.MethodPost, "/api/transfer", body, 1)
	req.Header.Set("Idempotency-Key", "retry-1")
	rec := httptest.NewRecorder()
	handler.TransferHandler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(1), stub.gotFromAccountID)
	assert.Equal(t, "Grocery", stub.gotPayee)
	assert.True(t, stub.gotAmount.Equal(decimal.RequireFromString("1450.50")))
	assert.Equal(t, "retry-1", stub.gotKey)

	var resp TransferResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(7), resp.TransactionID)
	assert.True(t, resp.NewBalance.Equal(decimal.RequireFromString("50890.25")))
}

func TestTransferHandlerErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"invalid amount", domain.ErrInvalidAmount, http.StatusBadRequest},
		{"account not found", domain.ErrAccountNotFound, http.StatusNotFound},
		{"insufficient funds", domain.ErrInsufficientFunds, http.StatusBadRequest},
		{"storage unavailable", domain.ErrStorageUnavailable, http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewBankingHandler(&stubBankingService{err: tt.err}, zap.NewNop())

			body := []byte(`{"fromAccountId":1,"toPayee":"Grocery","amount":"10.00"}`)
			rec := httptest.NewRecorder()
			handler.TransferHandler(rec, authedRequest(http.MethodPost, "/api/transfer", body, 1))

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestTransferHandlerRejectsBadPayloads(t *testing.T) {
	handler := NewBankingHandler(&stubBankingService{}, zap.NewNop())

	for _, body := range []string{
		`not json`,
		`{"toPayee":"Grocery","amount":"10.00"}`,
		`{"fromAccountId":1,"amount":"10.00"}`,
	} {
		rec := httptest.NewRecorder()
		handler.TransferHandler(rec, authedRequest(http.MethodPost, "/api/transfer", []byte(body), 1))
		assert.Equal(t, http.StatusBadRequest, rec.Code, "body: %s", body)
	}
}

func TestHandlersRequireAuthenticatedContext(t *testing.T) {
	handler := NewBankingHandler(&stubBankingService{}, zap.NewNop())

	for name, fn := range map[string]http.HandlerFunc{
		"accounts":     handler.GetAccountsHandler,
		"transactions": handler.GetTransactionsHandler,
		"transfer":     handler.TransferHandler,
	} {
		rec := httptest.NewRecorder()
		fn(rec, httptest.NewRequest(http.MethodGet, "/api/"+name, nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code, name)
	}
}
