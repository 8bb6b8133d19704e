package repository

import (
	"context"
	"errors"
	"iter"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/corebank/ledger/pkg/domain/account"
	"github.com/corebank/ledger/pkg/dto"
	repo "github.com/corebank/ledger/pkg/repository"
)

const listBatchSize = 200

// errStopIteration aborts FindInBatches when the consumer stops ranging.
var errStopIteration = errors.New("stop iteration")

type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository creates an account repository bound to the given
// session. Inside a unit of work the session is the enclosing transaction.
func NewAccountRepository(db *gorm.DB) repo.AccountRepository {
	return &accountRepository{db: db}
}

// Create implements repository.AccountRepository.
func (r *accountRepository) Create(ctx context.Context, create dto.AccountCreate) error {
	row := Account{
		ID:            create.ID,
		AccountNumber: create.AccountNumber,
		HolderName:    create.HolderName,
		Email:         create.Email,
		Balance:       create.Balance,
		AccountType:   create.AccountType,
		Status:        create.Status,
	}
	return WrapError(func() error {
		return r.db.WithContext(ctx).Create(&row).Error
	})
}

// Get implements repository.AccountRepository.
func (r *accountRepository) Get(ctx context.Context, id uuid.UUID) (*dto.AccountRead, error) {
	var row Account
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, MapStoreError(err)
	}
	return mapAccountToDTO(&row), nil
}

// GetByNumber implements repository.AccountRepository.
func (r *accountRepository) GetByNumber(ctx context.Context, accountNumber string) (*dto.AccountRead, error) {
	return r.getByNumber(ctx, r.db, accountNumber)
}

// GetByNumberForUpdate implements repository.AccountRepository. The row lock
// it takes is the per-account mutual exclusion of the ledger engine: a
// concurrent operation on the same account blocks here until this unit of
// work commits or rolls back.
func (r *accountRepository) GetByNumberForUpdate(ctx context.Context, accountNumber string) (*dto.AccountRead, error) {
	return r.getByNumber(ctx, r.db.Clauses(clause.Locking{Strength: "UPDATE"}), accountNumber)
}

func (r *accountRepository) getByNumber(ctx context.Context, tx *gorm.DB, accountNumber string) (*dto.AccountRead, error) {
	var row Account
	if err := tx.WithContext(ctx).First(&row, "account_number = ?", accountNumber).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, MapStoreError(err)
	}
	return mapAccountToDTO(&row), nil
}

// ExistsByNumber implements repository.AccountRepository.
func (r *accountRepository) ExistsByNumber(ctx context.Context, accountNumber string) (bool, error) {
	return r.exists(ctx, "account_number = ?", accountNumber)
}

// ExistsByEmail implements repository.AccountRepository.
func (r *accountRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, "email = ?", email)
}

func (r *accountRepository) exists(ctx context.Context, cond string, arg any) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Account{}).Where(cond, arg).Count(&count).Error
	if err != nil {
		return false, MapStoreError(err)
	}
	return count > 0, nil
}

// Update implements repository.AccountRepository. Only non-nil fields are
// written; gorm refreshes updated_at on the same statement.
func (r *accountRepository) Update(ctx context.Context, id uuid.UUID, update dto.AccountUpdate) error {
	updates := make(map[string]any)
	if update.Balance != nil {
		updates["balance"] = *update.Balance
	}
	if update.Status != nil {
		updates["status"] = *update.Status
	}
	if len(updates) == 0 {
		return nil
	}
	return WrapError(func() error {
		result := r.db.WithContext(ctx).Model(&Account{}).Where("id = ?", id).Updates(updates)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domain.ErrAccountNotFound
		}
		return nil
	})
}

// Delete implements repository.AccountRepository. Ledger records of the
// account are left untouched.
func (r *accountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&Account{}, "id = ?", id)
	if result.Error != nil {
		return MapStoreError(result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

// List implements repository.AccountRepository. The returned sequence is lazy
// (rows are fetched in batches as the consumer ranges) and restartable (each
// range re-runs the query).
func (r *accountRepository) List(ctx context.Context) iter.Seq2[dto.AccountRead, error] {
	return r.list(ctx, "")
}

// ListByStatus implements repository.AccountRepository.
func (r *accountRepository) ListByStatus(ctx context.Context, status string) iter.Seq2[dto.AccountRead, error] {
	return r.list(ctx, status)
}

func (r *accountRepository) list(ctx context.Context, status string) iter.Seq2[dto.AccountRead, error] {
	return func(yield func(dto.AccountRead, error) bool) {
		q := r.db.WithContext(ctx).Model(&Account{}).Order("created_at")
		if status != "" {
			q = q.Where("status = ?", status)
		}
		var batch []Account
		stopped := false
		result := q.FindInBatches(&batch, listBatchSize, func(_ *gorm.DB, _ int) error {
			for i := range batch {
				if !yield(*mapAccountToDTO(&batch[i]), nil) {
					stopped = true
					return errStopIteration
				}
			}
			return nil
		})
		if result.Error != nil && !stopped {
			yield(dto.AccountRead{}, MapStoreError(result.Error))
		}
	}
}

func mapAccountToDTO(row *Account) *dto.AccountRead {
	return &dto.AccountRead{
		ID:            row.ID,
		AccountNumber: row.AccountNumber,
		HolderName:    row.HolderName,
		Email:         row.Email,
		Balance:       row.Balance,
		AccountType:   row.AccountType,
		Status:        row.Status,
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
	}
}
