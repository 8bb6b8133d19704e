// Package account defines the core entities of the ledger: accounts and their
// append-only transaction records. It acts as the aggregate boundary for
// balance mutation: every invariant the ledger engine enforces (non-negative
// balance, strictly positive amounts, active-status gating) lives here.
package account

import (
	"net/mail"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BalanceScale is the number of fractional digits balances and amounts are
// stored with. Display formatting rounds to two.
const BalanceScale = 4

// Type identifies the product kind of an account.
type Type string

// Account types.
const (
	TypeSavings  Type = "SAVINGS"
	TypeChecking Type = "CHECKING"
)

// ParseType validates a raw account type string.
func ParseType(raw string) (Type, error) {
	switch Type(raw) {
	case TypeSavings, TypeChecking:
		return Type(raw), nil
	default:
		return "", ErrInvalidAccountType
	}
}

// Status is the lifecycle state of an account. Only ACTIVE accounts accept
// balance mutations.
type Status string

// Account statuses.
const (
	StatusActive   Status = "ACTIVE"
	StatusInactive Status = "INACTIVE"
	StatusFrozen   Status = "FROZEN"
)

// ParseStatus validates a raw account status string.
func ParseStatus(raw string) (Status, error) {
	switch Status(raw) {
	case StatusActive, StatusInactive, StatusFrozen:
		return Status(raw), nil
	default:
		return "", ErrInvalidAccountStatus
	}
}

// Account represents a monetary account. The balance is the only field mutated
// after creation, and only by the ledger engine.
//
// Invariants:
//   - Number is exactly 10 ASCII digits and immutable.
//   - Balance is an exact decimal and never negative.
//   - UpdatedAt is refreshed on every successful balance change.
type Account struct {
	ID         uuid.UUID
	Number     string
	HolderName string
	Email      string
	Balance    decimal.Decimal
	Type       Type
	Status     Status
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Builder provides a fluent API for constructing valid Account instances.
type Builder struct {
	id         uuid.UUID
	number     string
	holderName string
	email      string
	balance    decimal.Decimal
	accType    Type
	status     Status
	createdAt  time.Time
	updatedAt  time.Time
}

// New creates a Builder with a fresh ID, ACTIVE status and a zero balance.
func New() *Builder {
	now := time.Now()
	return &Builder{
		id:        uuid.New(),
		accType:   TypeChecking,
		status:    StatusActive,
		createdAt: now,
		updatedAt: now,
	}
}

// WithID sets the ID. Used when hydrating an account from the store.
func (b *Builder) WithID(id uuid.UUID) *Builder {
	b.id = id
	return b
}

// WithNumber sets the 10-digit account number.
func (b *Builder) WithNumber(number string) *Builder {
	b.number = number
	return b
}

// WithHolderName sets the account holder's name.
func (b *Builder) WithHolderName(name string) *Builder {
	b.holderName = name
	return b
}

// WithEmail sets the holder's email address.
func (b *Builder) WithEmail(email string) *Builder {
	b.email = email
	return b
}

// WithBalance sets the opening balance.
func (b *Builder) WithBalance(balance decimal.Decimal) *Builder {
	b.balance = balance
	return b
}

// WithType sets the account type.
func (b *Builder) WithType(t Type) *Builder {
	b.accType = t
	return b
}

// WithStatus sets the account status.
func (b *Builder) WithStatus(s Status) *Builder {
	b.status = s
	return b
}

// WithCreatedAt sets the creation timestamp. Used for hydration.
func (b *Builder) WithCreatedAt(t time.Time) *Builder {
	b.createdAt = t
	return b
}

// WithUpdatedAt sets the last-updated timestamp. Used for hydration.
func (b *Builder) WithUpdatedAt(t time.Time) *Builder {
	b.updatedAt = t
	return b
}

// Build validates all invariants and returns the Account.
func (b *Builder) Build() (*Account, error) {
	if !ValidNumber(b.number) {
		return nil, ErrInvalidAccountNumber
	}
	if n := len(b.holderName); n < 2 || n > 100 {
		return nil, ErrInvalidHolderName
	}
	if _, err := mail.ParseAddress(b.email); err != nil {
		return nil, ErrInvalidEmail
	}
	if _, err := ParseType(string(b.accType)); err != nil {
		return nil, err
	}
	if _, err := ParseStatus(string(b.status)); err != nil {
		return nil, err
	}
	if b.balance.IsNegative() {
		return nil, ErrNegativeBalance
	}
	return &Account{
		ID:         b.id,
		Number:     b.number,
		HolderName: b.holderName,
		Email:      b.email,
		Balance:    b.balance.Round(BalanceScale),
		Type:       b.accType,
		Status:     b.status,
		CreatedAt:  b.createdAt,
		UpdatedAt:  b.updatedAt,
	}, nil
}

// ValidNumber reports whether raw is exactly 10 ASCII digits.
func ValidNumber(raw string) bool {
	if len(raw) != 10 {
		return false
	}
	for _, ch := range raw {
		if ch < '0' || ch > '9' {
			return false
		}
	}
	return true
}

// CanTransact reports whether the account accepts balance mutations.
func (a *Account) CanTransact() bool {
	return a.Status == StatusActive
}

// ValidateDeposit checks the invariants for a deposit of amount.
func (a *Account) ValidateDeposit(amount decimal.Decimal) error {
	if !a.CanTransact() {
		return ErrAccountNotActive
	}
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	return nil
}

// ValidateWithdraw checks the invariants for a withdrawal of amount.
// An amount exceeding the current balance yields ErrInsufficientFunds; the
// caller is responsible for committing the corresponding FAILED record.
func (a *Account) ValidateWithdraw(amount decimal.Decimal) error {
	if !a.CanTransact() {
		return ErrAccountNotActive
	}
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	if amount.GreaterThan(a.Balance) {
		return ErrInsufficientFunds
	}
	return nil
}
