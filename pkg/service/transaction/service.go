// Package transaction provides read-only queries over the append-only ledger
// record set: per-account history, filters, reference lookup and aggregation.
// It never writes; the ledger engine is the only writer.
package transaction

import (
	"context"
	"log/slog"
	"time"

	domain "github.com/corebank/ledger/pkg/domain/account"
	"github.com/corebank/ledger/pkg/dto"
	"github.com/corebank/ledger/pkg/repository"
)

// Service answers ledger history queries. All queries are snapshot-isolated to
// themselves and take no account locks.
type Service struct {
	uow    repository.UnitOfWork
	logger *slog.Logger
}

// NewService creates a transaction query service.
func NewService(uow repository.UnitOfWork, logger *slog.Logger) *Service {
	return &Service{uow: uow, logger: logger}
}

// ListByAccount returns the account's full history, most recent first.
func (s *Service) ListByAccount(ctx context.Context, accountNumber string) (txs []dto.TransactionRead, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.TransactionRepository()
		if err != nil {
			return err
		}
		txs, err = repo.ListByAccount(ctx, accountNumber)
		return err
	})
	return
}

// ListByAccountAndType returns the account's history filtered by DEPOSIT or
// WITHDRAWAL, most recent first.
func (s *Service) ListByAccountAndType(ctx context.Context, accountNumber, txType string) (txs []dto.TransactionRead, err error) {
	if _, err := domain.ParseTransactionType(txType); err != nil {
		return nil, err
	}
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.TransactionRepository()
		if err != nil {
			return err
		}
		txs, err = repo.ListByAccountAndType(ctx, accountNumber, txType)
		return err
	})
	return
}

// ListByDateRange returns the account's records with start <= timestamp <= end.
func (s *Service) ListByDateRange(ctx context.Context, accountNumber string, start, end time.Time) (txs []dto.TransactionRead, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.TransactionRepository()
		if err != nil {
			return err
		}
		txs, err = repo.ListByDateRange(ctx, accountNumber, start, end)
		return err
	})
	return
}

// GetByReference resolves a single record by its globally unique reference.
func (s *Service) GetByReference(ctx context.Context, reference string) (tx *dto.TransactionRead, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.TransactionRepository()
		if err != nil {
			return err
		}
		tx, err = repo.GetByReference(ctx, reference)
		return err
	})
	return
}

// Summary aggregates the account's COMPLETED records per type. FAILED records
// never count toward the totals; the record count spans the full history.
func (s *Service) Summary(ctx context.Context, accountNumber string) (*dto.TransactionSummary, error) {
	var summary dto.TransactionSummary
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.TransactionRepository()
		if err != nil {
			return err
		}
		deposits, err := repo.SumCompletedByType(ctx, accountNumber, string(domain.TransactionDeposit))
		if err != nil {
			return err
		}
		withdrawals, err := repo.SumCompletedByType(ctx, accountNumber, string(domain.TransactionWithdrawal))
		if err != nil {
			return err
		}
		count, err := repo.CountByAccount(ctx, accountNumber)
		if err != nil {
			return err
		}
		summary = dto.TransactionSummary{
			TotalDeposits:    deposits,
			TotalWithdrawals: withdrawals,
			Net:              deposits.Sub(withdrawals),
			Count:            count,
		}
		return nil
	})
	if err != nil {
		s.logger.Error("transaction summary failed", "accountNumber", accountNumber, "error", err)
		return nil, err
	}
	return &summary, nil
}
