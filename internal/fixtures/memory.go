// Package fixtures provides an in-memory UnitOfWork implementation for tests.
// Each Do call runs under the store mutex and snapshots state on entry, so the
// rollback and mutual-exclusion guarantees of the real store hold: a failed
// unit of work leaves nothing behind, and units of work never interleave.
package fixtures

import (
	"context"
	"iter"
	"reflect"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	domain "github.com/corebank/ledger/pkg/domain/account"
	"github.com/corebank/ledger/pkg/dto"
	"github.com/corebank/ledger/pkg/repository"
)

type store struct {
	mu           sync.Mutex
	accounts     map[uuid.UUID]dto.AccountRead
	transactions []dto.TransactionRead

	injectedConflicts int
	injectedErr       error
}

// MemoryUoW is an in-memory repository.UnitOfWork.
type MemoryUoW struct {
	store *store
	inTx  bool
}

// NewMemoryUoW creates an empty in-memory unit of work.
func NewMemoryUoW() *MemoryUoW {
	return &MemoryUoW{store: &store{accounts: make(map[uuid.UUID]dto.AccountRead)}}
}

// InjectConflicts makes the next n Do calls fail with ErrWriteConflict after
// rolling back, mimicking store-level serialization failures.
func (m *MemoryUoW) InjectConflicts(n int) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	m.store.injectedConflicts = n
}

// InjectError makes the next Do call fail with err after rolling back.
func (m *MemoryUoW) InjectError(err error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	m.store.injectedErr = err
}

// Do implements repository.UnitOfWork.
func (m *MemoryUoW) Do(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	snapAccounts := make(map[uuid.UUID]dto.AccountRead, len(m.store.accounts))
	for k, v := range m.store.accounts {
		snapAccounts[k] = v
	}
	snapTxLen := len(m.store.transactions)

	rollback := func() {
		m.store.accounts = snapAccounts
		m.store.transactions = m.store.transactions[:snapTxLen]
	}

	err := fn(&MemoryUoW{store: m.store, inTx: true})

	if err == nil && m.store.injectedConflicts > 0 {
		m.store.injectedConflicts--
		err = domain.ErrWriteConflict
	}
	if err == nil && m.store.injectedErr != nil {
		err, m.store.injectedErr = m.store.injectedErr, nil
	}
	if err != nil {
		rollback()
		return err
	}
	return nil
}

// GetRepository implements repository.UnitOfWork.
func (m *MemoryUoW) GetRepository(repoType reflect.Type) (any, error) {
	switch repoType {
	case reflect.TypeOf((*repository.AccountRepository)(nil)).Elem():
		return &memoryAccountRepo{uow: m}, nil
	case reflect.TypeOf((*repository.TransactionRepository)(nil)).Elem():
		return &memoryTransactionRepo{uow: m}, nil
	default:
		return nil, domain.ErrStorageFailure
	}
}

// AccountRepository implements repository.UnitOfWork.
func (m *MemoryUoW) AccountRepository() (repository.AccountRepository, error) {
	return &memoryAccountRepo{uow: m}, nil
}

// TransactionRepository implements repository.UnitOfWork.
func (m *MemoryUoW) TransactionRepository() (repository.TransactionRepository, error) {
	return &memoryTransactionRepo{uow: m}, nil
}

// lock acquires the store mutex for repositories used outside Do. Inside Do
// the mutex is already held.
func (m *MemoryUoW) lock() func() {
	if m.inTx {
		return func() {}
	}
	m.store.mu.Lock()
	return m.store.mu.Unlock
}

type memoryAccountRepo struct {
	uow *MemoryUoW
}

func (r *memoryAccountRepo) Create(_ context.Context, create dto.AccountCreate) error {
	defer r.uow.lock()()
	s := r.uow.store
	for _, acct := range s.accounts {
		if acct.AccountNumber == create.AccountNumber {
			return domain.ErrDuplicateAccountNumber
		}
		if acct.Email == create.Email {
			return domain.ErrDuplicateEmail
		}
	}
	now := time.Now()
	s.accounts[create.ID] = dto.AccountRead{
		ID:            create.ID,
		AccountNumber: create.AccountNumber,
		HolderName:    create.HolderName,
		Email:         create.Email,
		Balance:       create.Balance,
		AccountType:   create.AccountType,
		Status:        create.Status,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	return nil
}

func (r *memoryAccountRepo) Get(_ context.Context, id uuid.UUID) (*dto.AccountRead, error) {
	defer r.uow.lock()()
	acct, ok := r.uow.store.accounts[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return &acct, nil
}

func (r *memoryAccountRepo) GetByNumber(_ context.Context, accountNumber string) (*dto.AccountRead, error) {
	defer r.uow.lock()()
	return r.byNumber(accountNumber)
}

func (r *memoryAccountRepo) GetByNumberForUpdate(_ context.Context, accountNumber string) (*dto.AccountRead, error) {
	defer r.uow.lock()()
	return r.byNumber(accountNumber)
}

func (r *memoryAccountRepo) byNumber(accountNumber string) (*dto.AccountRead, error) {
	for _, acct := range r.uow.store.accounts {
		if acct.AccountNumber == accountNumber {
			a := acct
			return &a, nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (r *memoryAccountRepo) ExistsByNumber(_ context.Context, accountNumber string) (bool, error) {
	defer r.uow.lock()()
	for _, acct := range r.uow.store.accounts {
		if acct.AccountNumber == accountNumber {
			return true, nil
		}
	}
	return false, nil
}

func (r *memoryAccountRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	defer r.uow.lock()()
	for _, acct := range r.uow.store.accounts {
		if acct.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *memoryAccountRepo) Update(_ context.Context, id uuid.UUID, update dto.AccountUpdate) error {
	defer r.uow.lock()()
	acct, ok := r.uow.store.accounts[id]
	if !ok {
		return domain.ErrAccountNotFound
	}
	if update.Balance != nil {
		acct.Balance = *update.Balance
	}
	if update.Status != nil {
		acct.Status = *update.Status
	}
	acct.UpdatedAt = time.Now()
	r.uow.store.accounts[id] = acct
	return nil
}

func (r *memoryAccountRepo) Delete(_ context.Context, id uuid.UUID) error {
	defer r.uow.lock()()
	if _, ok := r.uow.store.accounts[id]; !ok {
		return domain.ErrAccountNotFound
	}
	delete(r.uow.store.accounts, id)
	return nil
}

func (r *memoryAccountRepo) List(ctx context.Context) iter.Seq2[dto.AccountRead, error] {
	return r.list(ctx, "")
}

func (r *memoryAccountRepo) ListByStatus(ctx context.Context, status string) iter.Seq2[dto.AccountRead, error] {
	return r.list(ctx, status)
}

func (r *memoryAccountRepo) list(_ context.Context, status string) iter.Seq2[dto.AccountRead, error] {
	return func(yield func(dto.AccountRead, error) bool) {
		unlock := r.uow.lock()
		accounts := make([]dto.AccountRead, 0, len(r.uow.store.accounts))
		for _, acct := range r.uow.store.accounts {
			if status == "" || acct.Status == status {
				accounts = append(accounts, acct)
			}
		}
		unlock()
		sort.Slice(accounts, func(i, j int) bool {
			return accounts[i].CreatedAt.Before(accounts[j].CreatedAt)
		})
		for _, acct := range accounts {
			if !yield(acct, nil) {
				return
			}
		}
	}
}

type memoryTransactionRepo struct {
	uow *MemoryUoW
}

func (r *memoryTransactionRepo) Create(_ context.Context, create dto.TransactionCreate) error {
	defer r.uow.lock()()
	s := r.uow.store
	for i := range s.transactions {
		if s.transactions[i].Reference == create.Reference {
			return domain.ErrWriteConflict
		}
	}
	ts := create.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	s.transactions = append(s.transactions, dto.TransactionRead{
		ID:            create.ID,
		AccountID:     create.AccountID,
		AccountNumber: create.AccountNumber,
		Type:          create.Type,
		Amount:        create.Amount,
		BalanceAfter:  create.BalanceAfter,
		Status:        create.Status,
		Description:   create.Description,
		Reference:     create.Reference,
		Timestamp:     ts,
	})
	return nil
}

func (r *memoryTransactionRepo) GetByReference(_ context.Context, reference string) (*dto.TransactionRead, error) {
	defer r.uow.lock()()
	for i := range r.uow.store.transactions {
		if r.uow.store.transactions[i].Reference == reference {
			tx := r.uow.store.transactions[i]
			return &tx, nil
		}
	}
	return nil, domain.ErrTransactionNotFound
}

func (r *memoryTransactionRepo) ListByAccount(_ context.Context, accountNumber string) ([]dto.TransactionRead, error) {
	defer r.uow.lock()()
	return r.filter(func(tx *dto.TransactionRead) bool {
		return tx.AccountNumber == accountNumber
	}), nil
}

func (r *memoryTransactionRepo) ListByAccountAndType(_ context.Context, accountNumber, txType string) ([]dto.TransactionRead, error) {
	defer r.uow.lock()()
	return r.filter(func(tx *dto.TransactionRead) bool {
		return tx.AccountNumber == accountNumber && tx.Type == txType
	}), nil
}

func (r *memoryTransactionRepo) ListByDateRange(_ context.Context, accountNumber string, start, end time.Time) ([]dto.TransactionRead, error) {
	defer r.uow.lock()()
	return r.filter(func(tx *dto.TransactionRead) bool {
		return tx.AccountNumber == accountNumber &&
			!tx.Timestamp.Before(start) && !tx.Timestamp.After(end)
	}), nil
}

// filter returns matching records most recent first, like the SQL queries.
// Ties on timestamp fall back to insertion order, newest first.
func (r *memoryTransactionRepo) filter(keep func(*dto.TransactionRead) bool) []dto.TransactionRead {
	out := make([]dto.TransactionRead, 0)
	for i := len(r.uow.store.transactions) - 1; i >= 0; i-- {
		if keep(&r.uow.store.transactions[i]) {
			out = append(out, r.uow.store.transactions[i])
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out
}

func (r *memoryTransactionRepo) SumCompletedByType(_ context.Context, accountNumber, txType string) (decimal.Decimal, error) {
	defer r.uow.lock()()
	total := decimal.Zero
	for i := range r.uow.store.transactions {
		tx := &r.uow.store.transactions[i]
		if tx.AccountNumber == accountNumber &&
			tx.Type == txType &&
			tx.Status == string(domain.TransactionCompleted) {
			total = total.Add(tx.Amount)
		}
	}
	return total, nil
}

func (r *memoryTransactionRepo) CountByAccount(_ context.Context, accountNumber string) (int64, error) {
	defer r.uow.lock()()
	var count int64
	for i := range r.uow.store.transactions {
		if r.uow.store.transactions[i].AccountNumber == accountNumber {
			count++
		}
	}
	return count, nil
}
