package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionRead is a read-optimized snapshot of one ledger record.
type TransactionRead struct {
	ID            uuid.UUID       `json:"id"`
	AccountID     uuid.UUID       `json:"accountId"`
	AccountNumber string          `json:"accountNumber"`
	Type          string          `json:"transactionType"`
	Amount        decimal.Decimal `json:"amount"`
	BalanceAfter  decimal.Decimal `json:"balanceAfter"`
	Status        string          `json:"status"`
	Description   string          `json:"description"`
	Reference     string          `json:"reference"`
	Timestamp     time.Time       `json:"timestamp"`
}

// TransactionCreate carries the fields persisted for a new ledger record.
// Records are append-only; there is no update DTO.
type TransactionCreate struct {
	ID            uuid.UUID
	AccountID     uuid.UUID
	AccountNumber string
	Type          string
	Amount        decimal.Decimal
	BalanceAfter  decimal.Decimal
	Status        string
	Description   string
	Reference     string
	Timestamp     time.Time
}

// TransactionSummary aggregates the COMPLETED records of one account.
// Net is deposits minus withdrawals; Count spans the full history including
// FAILED records.
type TransactionSummary struct {
	TotalDeposits    decimal.Decimal `json:"totalDeposits"`
	TotalWithdrawals decimal.Decimal `json:"totalWithdrawals"`
	Net              decimal.Decimal `json:"netBalance"`
	Count            int64           `json:"totalTransactions"`
}
