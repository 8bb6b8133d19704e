// Package dto holds the data-transfer shapes exchanged between services and
// repositories. Read DTOs are query-optimized snapshots; create/update DTOs
// carry only the fields a write is allowed to touch.
package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountRead is a read-optimized snapshot of an account.
type AccountRead struct {
	ID            uuid.UUID       `json:"id"`
	AccountNumber string          `json:"accountNumber"`
	HolderName    string          `json:"holderName"`
	Email         string          `json:"email"`
	Balance       decimal.Decimal `json:"balance"`
	AccountType   string          `json:"accountType"`
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// AccountCreate carries the fields persisted when an account is created.
type AccountCreate struct {
	ID            uuid.UUID
	AccountNumber string
	HolderName    string
	Email         string
	Balance       decimal.Decimal
	AccountType   string
	Status        string
}

// AccountUpdate is a partial update. Only the ledger engine sets Balance;
// nil fields are left untouched.
type AccountUpdate struct {
	Balance *decimal.Decimal
	Status  *string
}
