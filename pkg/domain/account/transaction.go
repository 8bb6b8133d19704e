package account

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType identifies the direction of a ledger operation.
type TransactionType string

// Transaction types.
const (
	TransactionDeposit    TransactionType = "DEPOSIT"
	TransactionWithdrawal TransactionType = "WITHDRAWAL"
)

// ParseTransactionType validates a raw transaction type string.
func ParseTransactionType(raw string) (TransactionType, error) {
	switch TransactionType(raw) {
	case TransactionDeposit, TransactionWithdrawal:
		return TransactionType(raw), nil
	default:
		return "", ErrInvalidTransactionType
	}
}

// TransactionStatus is the terminal state of a ledger record.
type TransactionStatus string

// Transaction statuses. Records are created in a terminal state and never change.
const (
	TransactionCompleted TransactionStatus = "COMPLETED"
	TransactionFailed    TransactionStatus = "FAILED"
)

// Transaction is one append-only ledger record. Once created it is never
// mutated or deleted. BalanceAfter is the account balance immediately after a
// COMPLETED record, or the unchanged balance for a FAILED one.
type Transaction struct {
	ID            uuid.UUID
	AccountID     uuid.UUID
	AccountNumber string
	Type          TransactionType
	Amount        decimal.Decimal
	BalanceAfter  decimal.Decimal
	Status        TransactionStatus
	Description   string
	Reference     string
	Timestamp     time.Time
}

// NewReference generates a globally unique transaction reference. A random
// 128-bit identifier rules out the collisions the old timestamp+rand scheme
// allowed for commits landing in the same millisecond.
func NewReference() string {
	return "TXN-" + uuid.NewString()
}

// DefaultDescription returns the description used when a request omits one.
func DefaultDescription(t TransactionType) string {
	switch t {
	case TransactionDeposit:
		return "Deposit to account"
	case TransactionWithdrawal:
		return "Withdrawal from account"
	default:
		return string(t) + " transaction"
	}
}
