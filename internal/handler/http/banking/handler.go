package banking_http

import (
	"encoding/json"
	"errors"
	"net/http"

	"banking/internal/app/banking"
	"banking/internal/domain"
	"banking/internal/handler/http/middleware"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type BankingHandler struct {
	service banking.BankingService
	logger  *zap.Logger
}

func NewBankingHandler(s banking.BankingService, l *zap.Logger) *BankingHandler {
	return &BankingHandler{service: s, logger: l}
}

type AccountResponse struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	AccountNo string          `json:"accountNo"`
	Balance   decimal.Decimal `json:"balance"`
}

type TransactionResponse struct {
	ID          int64           `json:"id"`
	When        string          `json:"when"`
	Description string          `json:"desc"`
	Amount      decimal.Decimal `json:"amount"`
}

type TransferRequest struct {
	FromAccountID int64           `json:"fromAccountId"`
	ToPayee       string          `json:"toPayee"`
	Amount        decimal.Decimal `json:"amount"`
}

type TransferResponse struct {
	TransactionID int64           `json:"transactionId"`
	Amount        decimal.Decimal `json:"amount"`
	NewBalance    decimal.Decimal `json:"newBalance"`
}

func (h *BankingHandler) GetAccountsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	accounts, err := h.service.GetAccounts(r.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to get accounts", zap.Int64("user_id", userID), zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	resp := make([]AccountResponse, 0, len(accounts))
	for _, account := range accounts {
		resp = append(resp, AccountResponse{
			ID:        account.ID,
			Name:      account.Name,
			AccountNo: account.AccountNo,
			Balance:   account.Balance,
		})
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *BankingHandler) GetTransactionsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	records, err := h.service.GetTransactions(r.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to get transactions", zap.Int64("user_id", userID), zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	resp := make([]TransactionResponse, 0, len(records))
	for _, record := range records {
		resp = append(resp, TransactionResponse{
			ID:          record.ID,
			When:        record.Date.Format("2006-01-02"),
			Description: record.Description,
			Amount:      record.Amount,
		})
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *BankingHandler) TransferHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.FromAccountID == 0 || req.ToPayee == "" {
		http.Error(w, "invalid params", http.StatusBadRequest)
		return
	}

	idempotencyKey := r.Header.Get("Idempotency-Key")

	receipt, err := h.service.Transfer(r.Context(), userID, req.FromAccountID, req.ToPayee, req.Amount, idempotencyKey)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidAmount):
			http.Error(w, "invalid amount", http.StatusBadRequest)
		case errors.Is(err, domain.ErrAccountNotFound):
			http.Error(w, "account not found", http.StatusNotFound)
		case errors.Is(err, domain.ErrInsufficientFunds):
			http.Error(w, "insufficient funds", http.StatusBadRequest)
		case errors.Is(err, domain.ErrStorageUnavailable):
			h.logger.Error("Transfer failed on storage", zap.Int64("user_id", userID), zap.Error(err))
			http.Error(w, "service temporarily unavailable", http.StatusServiceUnavailable)
		default:
			h.logger.Error("Transfer failed", zap.Int64("user_id", userID), zap.Error(err))
			http.Error(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	resp := TransferResponse{
		TransactionID: receipt.TransactionID,
		Amount:        receipt.Amount,
		NewBalance:    receipt.NewBalance,
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *BankingHandler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("Failed to write JSON response", zap.Error(err))
	}
}
