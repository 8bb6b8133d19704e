// Package ledger implements the balance-mutation core. The Service here is
// the sole authority for changing account balances: it resolves the account,
// validates the operation, computes the new balance with exact decimal
// arithmetic, and commits the account update together with an append-only
// transaction record in one unit of work.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/corebank/ledger/pkg/domain/account"
	"github.com/corebank/ledger/pkg/dto"
	"github.com/corebank/ledger/pkg/repository"
)

// Config tunes the engine's write-conflict retry policy. Conflicts are the
// only errors retried; storage failures surface immediately.
type Config struct {
	MaxRetries   int
	RetryBackoff time.Duration
}

// DefaultConfig matches the server defaults.
func DefaultConfig() Config {
	return Config{MaxRetries: 3, RetryBackoff: 25 * time.Millisecond}
}

// Result is the outcome of a committed ledger operation: the updated account
// snapshot, the transaction record, and a human-readable confirmation.
// For an insufficient-funds rejection the snapshot is unchanged and the
// record has status FAILED.
type Result struct {
	Account     *dto.AccountRead     `json:"account"`
	Transaction *dto.TransactionRead `json:"transaction"`
	Message     string               `json:"message"`
}

// Service executes ledger operations. All mutations run inside the unit of
// work with the account row locked, so two operations on the same account
// never interleave while operations on different accounts run in parallel.
type Service struct {
	uow    repository.UnitOfWork
	cfg    Config
	logger *slog.Logger
}

// NewService creates a ledger engine backed by the given unit of work.
func NewService(uow repository.UnitOfWork, cfg Config, logger *slog.Logger) *Service {
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.RetryBackoff <= 0 {
		cfg.RetryBackoff = DefaultConfig().RetryBackoff
	}
	return &Service{uow: uow, cfg: cfg, logger: logger}
}

// Deposit adds amount to the account's balance and appends a COMPLETED record.
func (s *Service) Deposit(
	ctx context.Context,
	accountNumber string,
	amount decimal.Decimal,
	description string,
) (*Result, error) {
	res, err := s.apply(ctx, accountNumber, string(account.TransactionDeposit), amount, description)
	if err != nil {
		return res, err
	}
	res.Message = fmt.Sprintf(
		"Deposited $%s successfully. Reference: %s",
		amount.StringFixed(2), res.Transaction.Reference,
	)
	return res, nil
}

// Withdraw subtracts amount from the account's balance and appends a COMPLETED
// record. If the balance is insufficient it commits a FAILED record with the
// unchanged balance and returns account.ErrInsufficientFunds.
func (s *Service) Withdraw(
	ctx context.Context,
	accountNumber string,
	amount decimal.Decimal,
	description string,
) (*Result, error) {
	res, err := s.apply(ctx, accountNumber, string(account.TransactionWithdrawal), amount, description)
	if err != nil {
		return res, err
	}
	res.Message = fmt.Sprintf(
		"Withdrew $%s successfully. Reference: %s",
		amount.StringFixed(2), res.Transaction.Reference,
	)
	return res, nil
}

// Transact is the uniform entry point: the operation kind arrives as a string
// and is validated after the account resolves. Unknown kinds are rejected with
// account.ErrInvalidTransactionType and write nothing.
func (s *Service) Transact(
	ctx context.Context,
	accountNumber, txType string,
	amount decimal.Decimal,
	description string,
) (*Result, error) {
	res, err := s.apply(ctx, accountNumber, txType, amount, description)
	if err != nil {
		return res, err
	}
	res.Message = fmt.Sprintf(
		"%s of $%s completed successfully. Reference: %s",
		txType, amount.StringFixed(2), res.Transaction.Reference,
	)
	return res, nil
}

// apply runs the resolve-validate-apply-commit stages, retrying the whole unit
// of work on write conflicts up to the configured bound.
func (s *Service) apply(
	ctx context.Context,
	accountNumber, rawType string,
	amount decimal.Decimal,
	description string,
) (*Result, error) {
	logger := s.logger.With(
		"accountNumber", accountNumber,
		"type", rawType,
		"amount", amount.StringFixed(2),
	)
	amount = amount.Round(account.BalanceScale)

	for attempt := 0; ; attempt++ {
		res, opErr, err := s.attempt(ctx, accountNumber, rawType, amount, description)
		switch {
		case err == nil:
			if opErr != nil {
				logger.Warn("ledger operation rejected", "error", opErr)
				return res, opErr
			}
			logger.Info("ledger operation committed",
				"reference", res.Transaction.Reference,
				"balanceAfter", res.Transaction.BalanceAfter.StringFixed(2),
			)
			return res, nil
		case errors.Is(err, account.ErrWriteConflict) && attempt < s.cfg.MaxRetries:
			logger.Warn("write conflict, retrying", "attempt", attempt+1)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(s.cfg.RetryBackoff << attempt):
			}
		default:
			logger.Error("ledger operation failed", "error", err)
			return nil, err
		}
	}
}

// attempt runs one transactional pass. opErr carries a business rejection that
// still commits (insufficient funds); err aborts and rolls back.
func (s *Service) attempt(
	ctx context.Context,
	accountNumber, rawType string,
	amount decimal.Decimal,
	description string,
) (res *Result, opErr error, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		accounts, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		records, err := uow.TransactionRepository()
		if err != nil {
			return err
		}

		// Resolve, taking the per-account lock for the rest of the commit.
		acct, err := accounts.GetByNumberForUpdate(ctx, accountNumber)
		if err != nil {
			return err
		}

		txType, err := account.ParseTransactionType(rawType)
		if err != nil {
			return err
		}

		snapshot := account.Account{
			ID:      acct.ID,
			Number:  acct.AccountNumber,
			Balance: acct.Balance,
			Status:  account.Status(acct.Status),
		}

		var newBalance decimal.Decimal
		switch txType {
		case account.TransactionDeposit:
			if err := snapshot.ValidateDeposit(amount); err != nil {
				return err
			}
			newBalance = acct.Balance.Add(amount)
		case account.TransactionWithdrawal:
			if err := snapshot.ValidateWithdraw(amount); err != nil {
				if errors.Is(err, account.ErrInsufficientFunds) {
					// The one rejection that still commits a record.
					failed, recErr := s.appendRecord(ctx, records, acct, txType, amount,
						acct.Balance, account.TransactionFailed, "Failed - Insufficient funds")
					if recErr != nil {
						return recErr
					}
					res = &Result{Account: acct, Transaction: failed}
					opErr = account.ErrInsufficientFunds
					return nil
				}
				return err
			}
			newBalance = acct.Balance.Sub(amount)
		}

		if description == "" {
			description = account.DefaultDescription(txType)
		}

		now := time.Now()
		if err := accounts.Update(ctx, acct.ID, dto.AccountUpdate{Balance: &newBalance}); err != nil {
			return err
		}
		record, err := s.appendRecord(ctx, records, acct, txType, amount,
			newBalance, account.TransactionCompleted, description)
		if err != nil {
			return err
		}

		updated := *acct
		updated.Balance = newBalance
		updated.UpdatedAt = now
		res = &Result{Account: &updated, Transaction: record}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return res, opErr, nil
}

func (s *Service) appendRecord(
	ctx context.Context,
	records repository.TransactionRepository,
	acct *dto.AccountRead,
	txType account.TransactionType,
	amount, balanceAfter decimal.Decimal,
	status account.TransactionStatus,
	description string,
) (*dto.TransactionRead, error) {
	create := dto.TransactionCreate{
		ID:            uuid.New(),
		AccountID:     acct.ID,
		AccountNumber: acct.AccountNumber,
		Type:          string(txType),
		Amount:        amount,
		BalanceAfter:  balanceAfter,
		Status:        string(status),
		Description:   description,
		Reference:     account.NewReference(),
		Timestamp:     time.Now(),
	}
	if err := records.Create(ctx, create); err != nil {
		return nil, err
	}
	// The returned snapshot mirrors the persisted row, timestamp included.
	return &dto.TransactionRead{
		ID:            create.ID,
		AccountID:     create.AccountID,
		AccountNumber: create.AccountNumber,
		Type:          create.Type,
		Amount:        create.Amount,
		BalanceAfter:  create.BalanceAfter,
		Status:        create.Status,
		Description:   create.Description,
		Reference:     create.Reference,
		Timestamp:     create.Timestamp,
	}, nil
}
