// Package account provides the application service for account lifecycle:
// creation with uniqueness enforcement, lookups, listing and deletion.
// Balance mutation is deliberately absent; that belongs to the ledger engine.
package account

import (
	"context"
	"iter"
	"log/slog"

	"github.com/google/uuid"

	domain "github.com/corebank/ledger/pkg/domain/account"
	"github.com/corebank/ledger/pkg/dto"
	"github.com/corebank/ledger/pkg/repository"
)

// Service provides account lifecycle operations.
type Service struct {
	uow    repository.UnitOfWork
	logger *slog.Logger
}

// NewService creates an account service backed by the given unit of work.
func NewService(uow repository.UnitOfWork, logger *slog.Logger) *Service {
	return &Service{uow: uow, logger: logger}
}

// CreateAccount validates and persists a new account. The existence checks are
// a fast path only; the store's unique constraints are the authority, so a
// race between check and insert still surfaces as the right duplicate error.
func (s *Service) CreateAccount(ctx context.Context, create dto.AccountCreate) (*dto.AccountRead, error) {
	logger := s.logger.With("accountNumber", create.AccountNumber, "email", create.Email)

	status := create.Status
	if status == "" {
		status = string(domain.StatusActive)
	}
	acct, err := domain.New().
		WithNumber(create.AccountNumber).
		WithHolderName(create.HolderName).
		WithEmail(create.Email).
		WithBalance(create.Balance).
		WithType(domain.Type(create.AccountType)).
		WithStatus(domain.Status(status)).
		Build()
	if err != nil {
		logger.Warn("account rejected", "error", err)
		return nil, err
	}

	var out *dto.AccountRead
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		if taken, err := repo.ExistsByNumber(ctx, acct.Number); err != nil {
			return err
		} else if taken {
			return domain.ErrDuplicateAccountNumber
		}
		if taken, err := repo.ExistsByEmail(ctx, acct.Email); err != nil {
			return err
		} else if taken {
			return domain.ErrDuplicateEmail
		}
		if err := repo.Create(ctx, dto.AccountCreate{
			ID:            acct.ID,
			AccountNumber: acct.Number,
			HolderName:    acct.HolderName,
			Email:         acct.Email,
			Balance:       acct.Balance,
			AccountType:   string(acct.Type),
			Status:        string(acct.Status),
		}); err != nil {
			return err
		}
		out, err = repo.Get(ctx, acct.ID)
		return err
	})
	if err != nil {
		logger.Error("account creation failed", "error", err)
		return nil, err
	}
	logger.Info("account created", "id", out.ID)
	return out, nil
}

// GetAccount looks an account up by its opaque id.
func (s *Service) GetAccount(ctx context.Context, id uuid.UUID) (acct *dto.AccountRead, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		acct, err = repo.Get(ctx, id)
		return err
	})
	return
}

// GetAccountByNumber looks an account up by its 10-digit account number.
func (s *Service) GetAccountByNumber(ctx context.Context, accountNumber string) (acct *dto.AccountRead, err error) {
	if !domain.ValidNumber(accountNumber) {
		return nil, domain.ErrAccountNotFound
	}
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		acct, err = repo.GetByNumber(ctx, accountNumber)
		return err
	})
	return
}

// ListAccounts yields all accounts lazily. Listing is read-only and does not
// participate in per-account locking.
func (s *Service) ListAccounts(ctx context.Context) (iter.Seq2[dto.AccountRead, error], error) {
	repo, err := s.uow.AccountRepository()
	if err != nil {
		return nil, err
	}
	return repo.List(ctx), nil
}

// ListAccountsByStatus yields the accounts with the given status.
func (s *Service) ListAccountsByStatus(ctx context.Context, status string) (iter.Seq2[dto.AccountRead, error], error) {
	if _, err := domain.ParseStatus(status); err != nil {
		return nil, err
	}
	repo, err := s.uow.AccountRepository()
	if err != nil {
		return nil, err
	}
	return repo.ListByStatus(ctx, status), nil
}

// DeleteAccount removes the account row. Ledger records are retained: the
// transaction history of a deleted account stays queryable by account number.
func (s *Service) DeleteAccount(ctx context.Context, id uuid.UUID) error {
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		return repo.Delete(ctx, id)
	})
	if err != nil {
		s.logger.Error("account deletion failed", "id", id, "error", err)
		return err
	}
	s.logger.Info("account deleted", "id", id)
	return nil
}
