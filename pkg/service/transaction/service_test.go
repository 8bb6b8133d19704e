package transaction_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corebank/ledger/internal/fixtures"
	domain "github.com/corebank/ledger/pkg/domain/account"
	"github.com/corebank/ledger/pkg/dto"
	"github.com/corebank/ledger/pkg/service/transaction"
)

const accountNumber = "1234567890"

type seedTx struct {
	txType string
	amount string
	status domain.TransactionStatus
}

// newService seeds the in-memory ledger with the given records, oldest first.
func newService(t *testing.T, seeds []seedTx) (*transaction.Service, []string) {
	t.Helper()
	uow := fixtures.NewMemoryUoW()
	records, err := uow.TransactionRepository()
	require.NoError(t, err)

	accountID := uuid.New()
	refs := make([]string, 0, len(seeds))
	for _, s := range seeds {
		ref := domain.NewReference()
		require.NoError(t, records.Create(context.Background(), dto.TransactionCreate{
			ID:            uuid.New(),
			AccountID:     accountID,
			AccountNumber: accountNumber,
			Type:          s.txType,
			Amount:        decimal.RequireFromString(s.amount),
			BalanceAfter:  decimal.Zero,
			Status:        string(s.status),
			Reference:     ref,
		}))
		refs = append(refs, ref)
	}
	svc := transaction.NewService(uow, slog.New(slog.NewTextHandler(io.Discard, nil)))
	return svc, refs
}

func TestListByAccount(t *testing.T) {
	t.Parallel()
	svc, refs := newService(t, []seedTx{
		{"DEPOSIT", "100.00", domain.TransactionCompleted},
		{"WITHDRAWAL", "40.00", domain.TransactionCompleted},
		{"WITHDRAWAL", "500.00", domain.TransactionFailed},
	})
	ctx := context.Background()

	txs, err := svc.ListByAccount(ctx, accountNumber)
	require.NoError(t, err)
	require.Len(t, txs, 3)

	// Most recent first.
	assert.Equal(t, refs[2], txs[0].Reference)
	assert.Equal(t, refs[1], txs[1].Reference)
	assert.Equal(t, refs[0], txs[2].Reference)

	txs, err = svc.ListByAccount(ctx, "9999999999")
	require.NoError(t, err)
	assert.Empty(t, txs)
}

func TestListByAccountAndType(t *testing.T) {
	t.Parallel()
	svc, _ := newService(t, []seedTx{
		{"DEPOSIT", "100.00", domain.TransactionCompleted},
		{"WITHDRAWAL", "40.00", domain.TransactionCompleted},
		{"DEPOSIT", "5.00", domain.TransactionCompleted},
	})
	ctx := context.Background()

	txs, err := svc.ListByAccountAndType(ctx, accountNumber, "DEPOSIT")
	require.NoError(t, err)
	require.Len(t, txs, 2)
	for _, tx := range txs {
		assert.Equal(t, "DEPOSIT", tx.Type)
	}

	_, err = svc.ListByAccountAndType(ctx, accountNumber, "TRANSFER")
	assert.ErrorIs(t, err, domain.ErrInvalidTransactionType)
}

func TestListByDateRange(t *testing.T) {
	t.Parallel()
	svc, _ := newService(t, []seedTx{
		{"DEPOSIT", "100.00", domain.TransactionCompleted},
		{"WITHDRAWAL", "40.00", domain.TransactionCompleted},
	})
	ctx := context.Background()
	now := time.Now()

	txs, err := svc.ListByDateRange(ctx, accountNumber, now.Add(-time.Hour), now.Add(time.Hour))
	require.NoError(t, err)
	assert.Len(t, txs, 2)

	txs, err = svc.ListByDateRange(ctx, accountNumber, now.Add(time.Hour), now.Add(2*time.Hour))
	require.NoError(t, err)
	assert.Empty(t, txs)
}

func TestGetByReference(t *testing.T) {
	t.Parallel()
	svc, refs := newService(t, []seedTx{
		{"DEPOSIT", "100.00", domain.TransactionCompleted},
	})
	ctx := context.Background()

	tx, err := svc.GetByReference(ctx, refs[0])
	require.NoError(t, err)
	assert.Equal(t, refs[0], tx.Reference)

	_, err = svc.GetByReference(ctx, "TXN-missing")
	assert.ErrorIs(t, err, domain.ErrTransactionNotFound)
}

func TestSummary(t *testing.T) {
	t.Parallel()
	svc, _ := newService(t, []seedTx{
		{"DEPOSIT", "100.00", domain.TransactionCompleted},
		{"DEPOSIT", "50.50", domain.TransactionCompleted},
		{"WITHDRAWAL", "30.00", domain.TransactionCompleted},
		{"WITHDRAWAL", "999.00", domain.TransactionFailed},
	})

	summary, err := svc.Summary(context.Background(), accountNumber)
	require.NoError(t, err)

	// FAILED records count toward the total but never toward the sums.
	assert.True(t, summary.TotalDeposits.Equal(decimal.RequireFromString("150.50")),
		"got deposits %s", summary.TotalDeposits)
	assert.True(t, summary.TotalWithdrawals.Equal(decimal.RequireFromString("30.00")),
		"got withdrawals %s", summary.TotalWithdrawals)
	assert.True(t, summary.Net.Equal(decimal.RequireFromString("120.50")),
		"got net %s", summary.Net)
	assert.EqualValues(t, 4, summary.Count)
}

func TestSummaryEmptyHistory(t *testing.T) {
	t.Parallel()
	svc, _ := newService(t, nil)

	summary, err := svc.Summary(context.Background(), accountNumber)
	require.NoError(t, err)
	assert.True(t, summary.TotalDeposits.IsZero())
	assert.True(t, summary.TotalWithdrawals.IsZero())
	assert.True(t, summary.Net.IsZero())
	assert.Zero(t, summary.Count)
}
