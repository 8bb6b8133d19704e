package repository

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	domain "github.com/corebank/ledger/pkg/domain/account"
	"github.com/corebank/ledger/pkg/dto"
	repo "github.com/corebank/ledger/pkg/repository"
)

type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a ledger record repository bound to the
// given session.
func NewTransactionRepository(db *gorm.DB) repo.TransactionRepository {
	return &transactionRepository{db: db}
}

// Create implements repository.TransactionRepository. Insert-only; the table
// has no update path.
func (r *transactionRepository) Create(ctx context.Context, create dto.TransactionCreate) error {
	row := Transaction{
		ID:              create.ID,
		AccountID:       create.AccountID,
		AccountNumber:   create.AccountNumber,
		TransactionType: create.Type,
		Amount:          create.Amount,
		BalanceAfter:    create.BalanceAfter,
		Status:          create.Status,
		Description:     create.Description,
		Reference:       create.Reference,
		Timestamp:       create.Timestamp,
	}
	if row.Timestamp.IsZero() {
		row.Timestamp = time.Now()
	}
	return WrapError(func() error {
		return r.db.WithContext(ctx).Create(&row).Error
	})
}

// GetByReference implements repository.TransactionRepository.
func (r *transactionRepository) GetByReference(ctx context.Context, reference string) (*dto.TransactionRead, error) {
	var row Transaction
	if err := r.db.WithContext(ctx).First(&row, "reference = ?", reference).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, MapStoreError(err)
	}
	return mapTransactionToDTO(&row), nil
}

// ListByAccount implements repository.TransactionRepository.
func (r *transactionRepository) ListByAccount(ctx context.Context, accountNumber string) ([]dto.TransactionRead, error) {
	return r.listWhere(ctx, "account_number = ?", accountNumber)
}

// ListByAccountAndType implements repository.TransactionRepository.
func (r *transactionRepository) ListByAccountAndType(ctx context.Context, accountNumber, txType string) ([]dto.TransactionRead, error) {
	return r.listWhere(ctx, "account_number = ? AND transaction_type = ?", accountNumber, txType)
}

// ListByDateRange implements repository.TransactionRepository. Bounds are
// inclusive.
func (r *transactionRepository) ListByDateRange(ctx context.Context, accountNumber string, start, end time.Time) ([]dto.TransactionRead, error) {
	return r.listWhere(ctx, "account_number = ? AND timestamp BETWEEN ? AND ?", accountNumber, start, end)
}

func (r *transactionRepository) listWhere(ctx context.Context, cond string, args ...any) ([]dto.TransactionRead, error) {
	var rows []Transaction
	err := r.db.WithContext(ctx).
		Where(cond, args...).
		Order("timestamp DESC").
		Find(&rows).Error
	if err != nil {
		return nil, MapStoreError(err)
	}
	out := make([]dto.TransactionRead, 0, len(rows))
	for i := range rows {
		out = append(out, *mapTransactionToDTO(&rows[i]))
	}
	return out, nil
}

// SumCompletedByType implements repository.TransactionRepository.
func (r *transactionRepository) SumCompletedByType(ctx context.Context, accountNumber, txType string) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := r.db.WithContext(ctx).Model(&Transaction{}).
		Select("SUM(amount)").
		Where("account_number = ? AND transaction_type = ? AND status = ?",
			accountNumber, txType, string(domain.TransactionCompleted)).
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, MapStoreError(err)
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}

// CountByAccount implements repository.TransactionRepository.
func (r *transactionRepository) CountByAccount(ctx context.Context, accountNumber string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Transaction{}).
		Where("account_number = ?", accountNumber).
		Count(&count).Error
	if err != nil {
		return 0, MapStoreError(err)
	}
	return count, nil
}

func mapTransactionToDTO(row *Transaction) *dto.TransactionRead {
	return &dto.TransactionRead{
		ID:            row.ID,
		AccountID:     row.AccountID,
		AccountNumber: row.AccountNumber,
		Type:          row.TransactionType,
		Amount:        row.Amount,
		BalanceAfter:  row.BalanceAfter,
		Status:        row.Status,
		Description:   row.Description,
		Reference:     row.Reference,
		Timestamp:     row.Timestamp,
	}
}
