package repository

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Account is the persisted account row. The unique indexes on account number
// and email are authoritative for duplicate detection; the service-level
// existence checks are only a fast path.
type Account struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	AccountNumber string          `gorm:"column:account_number;size:10;not null;uniqueIndex:idx_accounts_account_number"`
	HolderName    string          `gorm:"size:100;not null"`
	Email         string          `gorm:"size:255;not null;uniqueIndex:idx_accounts_email"`
	Balance       decimal.Decimal `gorm:"type:numeric(19,4);not null"`
	AccountType   string          `gorm:"size:16;not null"`
	Status        string          `gorm:"size:16;not null;default:'ACTIVE'"`
	CreatedAt     time.Time       `gorm:"not null"`
	UpdatedAt     time.Time       `gorm:"not null"`
}

// TableName specifies the table name for the Account model.
func (Account) TableName() string {
	return "accounts"
}

// Transaction is one persisted ledger record. Rows are insert-only: nothing in
// the codebase updates or deletes them, and account deletion leaves them in
// place.
type Transaction struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	AccountID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	AccountNumber   string          `gorm:"column:account_number;size:10;not null;index"`
	TransactionType string          `gorm:"size:16;not null"`
	Amount          decimal.Decimal `gorm:"type:numeric(19,4);not null"`
	BalanceAfter    decimal.Decimal `gorm:"type:numeric(19,4);not null"`
	Status          string          `gorm:"size:16;not null"`
	Description     string          `gorm:"size:255"`
	Reference       string          `gorm:"size:64;not null;uniqueIndex:idx_transactions_reference"`
	Timestamp       time.Time       `gorm:"not null;index;autoCreateTime"`
}

// TableName specifies the table name for the Transaction model.
func (Transaction) TableName() string {
	return "transactions"
}
