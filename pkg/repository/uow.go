package repository

import (
	"context"
	"reflect"
)

// UnitOfWork is the transaction boundary of the ledger. Every repository
// obtained through it inside Do is bound to the same store transaction, so an
// account update and its ledger insert commit or roll back together.
//
// GetRepository is part of the interface (rather than free-standing
// constructors) so that callers cannot accidentally mix sessions: a repository
// fetched outside the boundary would silently break atomicity.
type UnitOfWork interface {
	// Do executes fn within a transaction boundary. If fn returns an error the
	// transaction is rolled back, including on context cancellation; either
	// both writes of a ledger operation land or neither does.
	Do(ctx context.Context, fn func(uow UnitOfWork) error) error

	// GetRepository returns a repository of the requested interface type bound
	// to the current transaction/session.
	//
	//	repoAny, err := uow.GetRepository(reflect.TypeOf((*AccountRepository)(nil)).Elem())
	//	repo := repoAny.(AccountRepository)
	GetRepository(repoType reflect.Type) (any, error)

	// Typed convenience accessors.
	AccountRepository() (AccountRepository, error)
	TransactionRepository() (TransactionRepository, error)
}
