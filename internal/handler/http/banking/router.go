package banking_http

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"banking/internal/app/banking"
)

// RegisterRoutes mounts the account, ledger and transfer endpoints. Callers
// must wrap the router in the auth middleware first.
func RegisterRoutes(r chi.Router, s banking.BankingService, l *zap.Logger) {
	handler := NewBankingHandler(s, l.With(zap.String("component", "BankingHTTPHandler")))

	r.Get("/accounts", handler.GetAccountsHandler)
	r.Get("/transactions", handler.GetTransactionsHandler)
	r.Post("/transfer", handler.TransferHandler)
}
