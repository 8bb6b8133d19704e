package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/corebank/ledger/pkg/domain/account"
)

func TestMapStoreError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   error
		want error
	}{
		{"nil", nil, nil},
		{
			"domain error passes through",
			account.ErrInsufficientFunds,
			account.ErrInsufficientFunds,
		},
		{
			"wrapped domain error passes through",
			fmt.Errorf("attempt: %w", account.ErrAccountNotFound),
			account.ErrAccountNotFound,
		},
		{
			"record not found left to repositories",
			gorm.ErrRecordNotFound,
			gorm.ErrRecordNotFound,
		},
		{"context cancellation", context.Canceled, context.Canceled},
		{
			"unique violation on email",
			&pgconn.PgError{Code: pgUniqueViolation, ConstraintName: "idx_accounts_email"},
			account.ErrDuplicateEmail,
		},
		{
			"unique violation on account number",
			&pgconn.PgError{Code: pgUniqueViolation, ConstraintName: "idx_accounts_account_number"},
			account.ErrDuplicateAccountNumber,
		},
		{
			"unique violation on reference is retryable",
			&pgconn.PgError{Code: pgUniqueViolation, ConstraintName: "idx_transactions_reference"},
			account.ErrWriteConflict,
		},
		{
			"serialization failure",
			&pgconn.PgError{Code: pgSerializationFailure},
			account.ErrWriteConflict,
		},
		{
			"deadlock",
			&pgconn.PgError{Code: pgDeadlockDetected},
			account.ErrWriteConflict,
		},
		{
			"lock not available",
			&pgconn.PgError{Code: pgLockNotAvailable},
			account.ErrWriteConflict,
		},
		{
			"translated duplicate key",
			gorm.ErrDuplicatedKey,
			account.ErrDuplicateAccountNumber,
		},
		{
			"unknown driver error becomes storage failure",
			errors.New("connection refused"),
			account.ErrStorageFailure,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := MapStoreError(tt.in)
			if tt.want == nil {
				assert.NoError(t, got)
				return
			}
			assert.ErrorIs(t, got, tt.want)
		})
	}
}

func TestMapStoreErrorKeepsCause(t *testing.T) {
	t.Parallel()
	cause := errors.New("connection refused")
	got := MapStoreError(cause)
	assert.ErrorIs(t, got, account.ErrStorageFailure)
	assert.ErrorIs(t, got, cause)
}

func TestWrapError(t *testing.T) {
	t.Parallel()
	assert.NoError(t, WrapError(func() error { return nil }))
	err := WrapError(func() error {
		return &pgconn.PgError{Code: pgSerializationFailure}
	})
	assert.ErrorIs(t, err, account.ErrWriteConflict)
}
