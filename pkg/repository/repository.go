// Package repository defines the persistence contracts of the ledger. The
// gorm-backed implementations live under infra/repository; tests use the
// in-memory fixtures.
package repository

import (
	"context"
	"iter"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/corebank/ledger/pkg/dto"
)

// AccountRepository is the account store: keyed durable storage with lookup by
// opaque id and by account number.
type AccountRepository interface {
	// Create persists a new account. Uniqueness of account number and email is
	// enforced by the store; violations surface as the corresponding
	// account.ErrDuplicate* error.
	Create(ctx context.Context, create dto.AccountCreate) error

	Get(ctx context.Context, id uuid.UUID) (*dto.AccountRead, error)
	GetByNumber(ctx context.Context, accountNumber string) (*dto.AccountRead, error)

	// GetByNumberForUpdate resolves an account and locks its row for the
	// remainder of the enclosing unit of work. The ledger engine uses it to
	// serialize concurrent mutations of the same account.
	GetByNumberForUpdate(ctx context.Context, accountNumber string) (*dto.AccountRead, error)

	ExistsByNumber(ctx context.Context, accountNumber string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// Update applies a partial update. Used by the ledger engine to persist a
	// mutated balance within the same unit of work as the ledger insert.
	Update(ctx context.Context, id uuid.UUID, update dto.AccountUpdate) error

	Delete(ctx context.Context, id uuid.UUID) error

	// List yields all accounts lazily in creation order. The sequence is
	// restartable: each range re-runs the query. Snapshot consistency across
	// one iteration is not guaranteed.
	List(ctx context.Context) iter.Seq2[dto.AccountRead, error]
	ListByStatus(ctx context.Context, status string) iter.Seq2[dto.AccountRead, error]
}

// TransactionRepository is the append-only ledger record set. There are no
// update or delete operations.
type TransactionRepository interface {
	Create(ctx context.Context, create dto.TransactionCreate) error

	GetByReference(ctx context.Context, reference string) (*dto.TransactionRead, error)

	// ListByAccount returns the account's history, most recent first.
	ListByAccount(ctx context.Context, accountNumber string) ([]dto.TransactionRead, error)
	ListByAccountAndType(ctx context.Context, accountNumber, txType string) ([]dto.TransactionRead, error)
	ListByDateRange(ctx context.Context, accountNumber string, start, end time.Time) ([]dto.TransactionRead, error)

	// SumCompletedByType totals the amounts of COMPLETED records of one type.
	SumCompletedByType(ctx context.Context, accountNumber, txType string) (decimal.Decimal, error)
	CountByAccount(ctx context.Context, accountNumber string) (int64, error)
}
