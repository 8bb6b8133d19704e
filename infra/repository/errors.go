// Package repository provides the gorm-backed implementations of the
// persistence contracts in pkg/repository, plus the unit of work that binds
// them to one database transaction.
package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/corebank/ledger/pkg/domain/account"
)

// Postgres SQLSTATE codes the ledger cares about.
const (
	pgUniqueViolation      = "23505"
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
	pgLockNotAvailable     = "55P03"
)

// domainErrors are passed through untouched: they were already classified,
// either by a repository or by business logic running inside a unit of work.
var domainErrors = []error{
	account.ErrAccountNotFound,
	account.ErrTransactionNotFound,
	account.ErrDuplicateAccountNumber,
	account.ErrDuplicateEmail,
	account.ErrInvalidAmount,
	account.ErrInsufficientFunds,
	account.ErrInvalidTransactionType,
	account.ErrAccountNotActive,
	account.ErrWriteConflict,
	account.ErrStorageFailure,
}

// MapStoreError converts driver and gorm errors into domain errors at the
// infrastructure boundary. Record-not-found is left to the individual
// repositories, which know whether an account or a transaction was missing.
func MapStoreError(err error) error {
	if err == nil {
		return nil
	}
	for _, domainErr := range domainErrors {
		if errors.Is(err, domainErr) {
			return err
		}
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return mapUniqueViolation(pgErr)
		case pgSerializationFailure, pgDeadlockDetected, pgLockNotAvailable:
			return account.ErrWriteConflict
		}
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// Translated duplicate without constraint detail (non-postgres dialects).
		return account.ErrDuplicateAccountNumber
	}

	// Anything else is the store misbehaving, not the caller.
	return errors.Join(account.ErrStorageFailure, err)
}

func mapUniqueViolation(pgErr *pgconn.PgError) error {
	switch {
	case strings.Contains(pgErr.ConstraintName, "email"):
		return account.ErrDuplicateEmail
	case strings.Contains(pgErr.ConstraintName, "account_number"):
		return account.ErrDuplicateAccountNumber
	case strings.Contains(pgErr.ConstraintName, "reference"):
		// A reference collision is retryable: the engine generates a fresh
		// reference on the next attempt.
		return account.ErrWriteConflict
	default:
		return account.ErrDuplicateAccountNumber
	}
}

// WrapError wraps a store operation and maps its error.
//
//	err := WrapError(func() error {
//	    return r.db.WithContext(ctx).Create(&row).Error
//	})
func WrapError(op func() error) error {
	return MapStoreError(op())
}
