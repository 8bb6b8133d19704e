package ledger_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corebank/ledger/internal/fixtures"
	domainaccount "github.com/corebank/ledger/pkg/domain/account"
	"github.com/corebank/ledger/pkg/dto"
	"github.com/corebank/ledger/pkg/service/ledger"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig() ledger.Config {
	return ledger.Config{MaxRetries: 3, RetryBackoff: time.Millisecond}
}

func seedAccount(t *testing.T, uow *fixtures.MemoryUoW, number, balance string) uuid.UUID {
	t.Helper()
	accounts, err := uow.AccountRepository()
	require.NoError(t, err)
	id := uuid.New()
	err = accounts.Create(context.Background(), dto.AccountCreate{
		ID:            id,
		AccountNumber: number,
		HolderName:    "Jane Doe",
		Email:         fmt.Sprintf("%s@example.com", number),
		Balance:       decimal.RequireFromString(balance),
		AccountType:   string(domainaccount.TypeChecking),
		Status:        string(domainaccount.StatusActive),
	})
	require.NoError(t, err)
	return id
}

func history(t *testing.T, uow *fixtures.MemoryUoW, number string) []dto.TransactionRead {
	t.Helper()
	records, err := uow.TransactionRepository()
	require.NoError(t, err)
	txs, err := records.ListByAccount(context.Background(), number)
	require.NoError(t, err)
	return txs
}

func TestDeposit(t *testing.T) {
	t.Parallel()
	uow := fixtures.NewMemoryUoW()
	seedAccount(t, uow, "1234567890", "1000.00")
	svc := ledger.NewService(uow, testConfig(), testLogger())

	res, err := svc.Deposit(context.Background(), "1234567890", decimal.RequireFromString("250.50"), "")
	require.NoError(t, err)

	assert.True(t, res.Account.Balance.Equal(decimal.RequireFromString("1250.50")),
		"got balance %s", res.Account.Balance)
	assert.Equal(t, string(domainaccount.TransactionCompleted), res.Transaction.Status)
	assert.Equal(t, "Deposit to account", res.Transaction.Description)
	assert.True(t, res.Transaction.BalanceAfter.Equal(decimal.RequireFromString("1250.50")))
	assert.Equal(t,
		fmt.Sprintf("Deposited $250.50 successfully. Reference: %s", res.Transaction.Reference),
		res.Message)

	txs := history(t, uow, "1234567890")
	require.Len(t, txs, 1)
	assert.Equal(t, res.Transaction.Reference, txs[0].Reference)
}

func TestWithdraw(t *testing.T) {
	t.Parallel()
	uow := fixtures.NewMemoryUoW()
	seedAccount(t, uow, "1234567890", "1000.00")
	svc := ledger.NewService(uow, testConfig(), testLogger())

	res, err := svc.Withdraw(context.Background(), "1234567890", decimal.RequireFromString("200.00"), "rent")
	require.NoError(t, err)

	assert.True(t, res.Account.Balance.Equal(decimal.RequireFromString("800.00")),
		"got balance %s", res.Account.Balance)
	assert.Equal(t, string(domainaccount.TransactionCompleted), res.Transaction.Status)
	assert.Equal(t, "rent", res.Transaction.Description)
	assert.Equal(t,
		fmt.Sprintf("Withdrew $200.00 successfully. Reference: %s", res.Transaction.Reference),
		res.Message)
}

func TestWithdrawInsufficientFunds(t *testing.T) {
	t.Parallel()
	uow := fixtures.NewMemoryUoW()
	seedAccount(t, uow, "1234567890", "1000.00")
	svc := ledger.NewService(uow, testConfig(), testLogger())
	ctx := context.Background()

	_, err := svc.Withdraw(ctx, "1234567890", decimal.RequireFromString("200.00"), "")
	require.NoError(t, err)

	// The rejection must still commit a FAILED record with the unchanged balance.
	res, err := svc.Withdraw(ctx, "1234567890", decimal.RequireFromString("2000.00"), "")
	require.ErrorIs(t, err, domainaccount.ErrInsufficientFunds)
	require.NotNil(t, res)
	assert.Equal(t, string(domainaccount.TransactionFailed), res.Transaction.Status)
	assert.Equal(t, "Failed - Insufficient funds", res.Transaction.Description)
	assert.True(t, res.Transaction.BalanceAfter.Equal(decimal.RequireFromString("800.00")),
		"got balanceAfter %s", res.Transaction.BalanceAfter)

	accounts, err := uow.AccountRepository()
	require.NoError(t, err)
	acct, err := accounts.GetByNumber(ctx, "1234567890")
	require.NoError(t, err)
	assert.True(t, acct.Balance.Equal(decimal.RequireFromString("800.00")))

	txs := history(t, uow, "1234567890")
	require.Len(t, txs, 2)
	assert.Equal(t, string(domainaccount.TransactionFailed), txs[0].Status)
	assert.Equal(t, string(domainaccount.TransactionCompleted), txs[1].Status)
}

func TestInvalidAmountWritesNothing(t *testing.T) {
	t.Parallel()
	uow := fixtures.NewMemoryUoW()
	seedAccount(t, uow, "1234567890", "1000.00")
	svc := ledger.NewService(uow, testConfig(), testLogger())
	ctx := context.Background()

	for _, amount := range []string{"0", "-10"} {
		_, err := svc.Deposit(ctx, "1234567890", decimal.RequireFromString(amount), "")
		assert.ErrorIs(t, err, domainaccount.ErrInvalidAmount)
		_, err = svc.Withdraw(ctx, "1234567890", decimal.RequireFromString(amount), "")
		assert.ErrorIs(t, err, domainaccount.ErrInvalidAmount)
	}
	assert.Empty(t, history(t, uow, "1234567890"))
}

func TestUnknownAccount(t *testing.T) {
	t.Parallel()
	uow := fixtures.NewMemoryUoW()
	svc := ledger.NewService(uow, testConfig(), testLogger())

	_, err := svc.Deposit(context.Background(), "9999999999", decimal.NewFromInt(10), "")
	assert.ErrorIs(t, err, domainaccount.ErrAccountNotFound)
}

func TestTransactUnknownType(t *testing.T) {
	t.Parallel()
	uow := fixtures.NewMemoryUoW()
	seedAccount(t, uow, "1234567890", "1000.00")
	svc := ledger.NewService(uow, testConfig(), testLogger())

	_, err := svc.Transact(context.Background(), "1234567890", "TRANSFER", decimal.NewFromInt(10), "")
	assert.ErrorIs(t, err, domainaccount.ErrInvalidTransactionType)
	assert.Empty(t, history(t, uow, "1234567890"))
}

func TestTransactDispatch(t *testing.T) {
	t.Parallel()
	uow := fixtures.NewMemoryUoW()
	seedAccount(t, uow, "1234567890", "100.00")
	svc := ledger.NewService(uow, testConfig(), testLogger())
	ctx := context.Background()

	res, err := svc.Transact(ctx, "1234567890", "DEPOSIT", decimal.RequireFromString("50.00"), "")
	require.NoError(t, err)
	assert.True(t, res.Account.Balance.Equal(decimal.RequireFromString("150.00")))
	assert.Equal(t,
		fmt.Sprintf("DEPOSIT of $50.00 completed successfully. Reference: %s", res.Transaction.Reference),
		res.Message)

	res, err = svc.Transact(ctx, "1234567890", "WITHDRAWAL", decimal.RequireFromString("150.00"), "")
	require.NoError(t, err)
	assert.True(t, res.Account.Balance.IsZero())
}

func TestInactiveAccountRejected(t *testing.T) {
	t.Parallel()
	uow := fixtures.NewMemoryUoW()
	id := seedAccount(t, uow, "1234567890", "1000.00")
	ctx := context.Background()

	accounts, err := uow.AccountRepository()
	require.NoError(t, err)
	frozen := string(domainaccount.StatusFrozen)
	require.NoError(t, accounts.Update(ctx, id, dto.AccountUpdate{Status: &frozen}))

	svc := ledger.NewService(uow, testConfig(), testLogger())
	_, err = svc.Deposit(ctx, "1234567890", decimal.NewFromInt(10), "")
	assert.ErrorIs(t, err, domainaccount.ErrAccountNotActive)
	assert.Empty(t, history(t, uow, "1234567890"))
}

func TestWriteConflictRetry(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("recovers within budget", func(t *testing.T) {
		uow := fixtures.NewMemoryUoW()
		seedAccount(t, uow, "1234567890", "100.00")
		uow.InjectConflicts(2)

		svc := ledger.NewService(uow, testConfig(), testLogger())
		res, err := svc.Deposit(ctx, "1234567890", decimal.NewFromInt(10), "")
		require.NoError(t, err)
		assert.True(t, res.Account.Balance.Equal(decimal.NewFromInt(110)))

		// Rolled-back attempts must leave no records behind.
		assert.Len(t, history(t, uow, "1234567890"), 1)
	})

	t.Run("exhausts budget", func(t *testing.T) {
		uow := fixtures.NewMemoryUoW()
		seedAccount(t, uow, "1234567890", "100.00")
		uow.InjectConflicts(10)

		svc := ledger.NewService(uow, testConfig(), testLogger())
		_, err := svc.Deposit(ctx, "1234567890", decimal.NewFromInt(10), "")
		require.ErrorIs(t, err, domainaccount.ErrWriteConflict)
		assert.Empty(t, history(t, uow, "1234567890"))
	})
}

func TestStorageFailureNotRetried(t *testing.T) {
	t.Parallel()
	uow := fixtures.NewMemoryUoW()
	seedAccount(t, uow, "1234567890", "100.00")
	uow.InjectError(domainaccount.ErrStorageFailure)

	svc := ledger.NewService(uow, testConfig(), testLogger())
	_, err := svc.Deposit(context.Background(), "1234567890", decimal.NewFromInt(10), "")
	require.ErrorIs(t, err, domainaccount.ErrStorageFailure)

	// One injected failure only: a retry would have succeeded, so an empty
	// history shows the engine surfaced the error without retrying.
	assert.Empty(t, history(t, uow, "1234567890"))
}

func TestConcurrentWithdrawals(t *testing.T) {
	t.Parallel()
	uow := fixtures.NewMemoryUoW()
	seedAccount(t, uow, "1234567890", "1000.00")
	svc := ledger.NewService(uow, testConfig(), testLogger())
	ctx := context.Background()

	const workers = 20
	amount := decimal.RequireFromString("100.00")

	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = svc.Withdraw(ctx, "1234567890", amount, "")
		}()
	}
	wg.Wait()

	var completed, failed int
	for _, err := range errs {
		switch {
		case err == nil:
			completed++
		default:
			require.ErrorIs(t, err, domainaccount.ErrInsufficientFunds)
			failed++
		}
	}
	assert.Equal(t, 10, completed)
	assert.Equal(t, 10, failed)

	accounts, err := uow.AccountRepository()
	require.NoError(t, err)
	acct, err := accounts.GetByNumber(ctx, "1234567890")
	require.NoError(t, err)
	assert.True(t, acct.Balance.IsZero(), "got balance %s", acct.Balance)

	txs := history(t, uow, "1234567890")
	require.Len(t, txs, workers)
	var recordedCompleted int
	for _, tx := range txs {
		if tx.Status == string(domainaccount.TransactionCompleted) {
			recordedCompleted++
		}
	}
	assert.Equal(t, 10, recordedCompleted)
}

func TestConservation(t *testing.T) {
	t.Parallel()
	uow := fixtures.NewMemoryUoW()
	seedAccount(t, uow, "1234567890", "500.00")
	svc := ledger.NewService(uow, testConfig(), testLogger())
	ctx := context.Background()

	ops := []struct {
		deposit bool
		amount  string
	}{
		{true, "100.25"}, {false, "50.10"}, {true, "0.0001"}, {false, "200.00"}, {true, "19.99"},
	}
	for _, op := range ops {
		var err error
		if op.deposit {
			_, err = svc.Deposit(ctx, "1234567890", decimal.RequireFromString(op.amount), "")
		} else {
			_, err = svc.Withdraw(ctx, "1234567890", decimal.RequireFromString(op.amount), "")
		}
		require.NoError(t, err)
	}

	// Opening balance plus completed deposits minus completed withdrawals.
	want := decimal.RequireFromString("370.1401")
	accounts, err := uow.AccountRepository()
	require.NoError(t, err)
	acct, err := accounts.GetByNumber(ctx, "1234567890")
	require.NoError(t, err)
	assert.True(t, acct.Balance.Equal(want), "got balance %s", acct.Balance)
}

func TestReferenceResolvesCommittedRecord(t *testing.T) {
	t.Parallel()
	uow := fixtures.NewMemoryUoW()
	seedAccount(t, uow, "1234567890", "100.00")
	svc := ledger.NewService(uow, testConfig(), testLogger())
	ctx := context.Background()

	res, err := svc.Deposit(ctx, "1234567890", decimal.NewFromInt(25), "")
	require.NoError(t, err)

	records, err := uow.TransactionRepository()
	require.NoError(t, err)
	tx, err := records.GetByReference(ctx, res.Transaction.Reference)
	require.NoError(t, err)
	assert.Equal(t, res.Transaction.ID, tx.ID)
	assert.True(t, tx.Amount.Equal(decimal.NewFromInt(25)))

	// The confirmation payload carries the persisted timestamp, not a second
	// reading of the clock.
	require.False(t, res.Transaction.Timestamp.IsZero())
	assert.True(t, tx.Timestamp.Equal(res.Transaction.Timestamp),
		"stored %s, returned %s", tx.Timestamp, res.Transaction.Timestamp)
}

func TestAmountRoundedToScale(t *testing.T) {
	t.Parallel()
	uow := fixtures.NewMemoryUoW()
	seedAccount(t, uow, "1234567890", "100.00")
	svc := ledger.NewService(uow, testConfig(), testLogger())

	res, err := svc.Deposit(context.Background(), "1234567890",
		decimal.RequireFromString("10.00009"), "")
	require.NoError(t, err)
	assert.True(t, res.Account.Balance.Equal(decimal.RequireFromString("110.0001")),
		"got balance %s", res.Account.Balance)
}
