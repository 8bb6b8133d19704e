package webapi

import "github.com/shopspring/decimal"

// CreateAccountRequest is the payload for POST /api/accounts.
type CreateAccountRequest struct {
	AccountNumber string          `json:"accountNumber" validate:"required,len=10,numeric"`
	HolderName    string          `json:"holderName" validate:"required,min=2,max=100"`
	Email         string          `json:"email" validate:"required,email"`
	Balance       decimal.Decimal `json:"balance"`
	AccountType   string          `json:"accountType" validate:"required,oneof=SAVINGS CHECKING"`
}

// AmountRequest is the payload for the deposit and withdraw endpoints.
// Amount positivity is a business rule enforced by the ledger engine, not the
// transport layer.
type AmountRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
}

// TransactionRequest is the payload for the generic transaction endpoint.
type TransactionRequest struct {
	AccountNumber   string          `json:"accountNumber" validate:"required,len=10,numeric"`
	TransactionType string          `json:"transactionType" validate:"required"`
	Amount          decimal.Decimal `json:"amount"`
	Description     string          `json:"description"`
}
