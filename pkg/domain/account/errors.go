package account

import "errors"

var (
	// ErrAccountNotFound is returned when an account cannot be resolved by id or account number.
	ErrAccountNotFound = errors.New("account not found")

	// ErrDuplicateAccountNumber is returned when creating an account whose account number is already taken.
	ErrDuplicateAccountNumber = errors.New("account number already exists")

	// ErrDuplicateEmail is returned when creating an account whose email is already registered.
	ErrDuplicateEmail = errors.New("email already registered")

	// ErrInvalidAmount is returned when a transaction amount is not strictly positive.
	ErrInvalidAmount = errors.New("amount must be greater than zero")

	// ErrInsufficientFunds is returned when a withdrawal exceeds the current balance.
	// It is the only validation failure that still commits a ledger record (a FAILED one).
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrInvalidTransactionType is returned when a generic transaction carries an unknown type.
	ErrInvalidTransactionType = errors.New("invalid transaction type")

	// ErrAccountNotActive is returned when a balance mutation is attempted on an
	// INACTIVE or FROZEN account.
	ErrAccountNotActive = errors.New("account is not active")

	// ErrTransactionNotFound is returned when a transaction cannot be resolved by reference.
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrWriteConflict is returned when the store rejects a balance mutation because a
	// concurrent operation touched the same account. The ledger engine retries these
	// a bounded number of times before surfacing the error.
	ErrWriteConflict = errors.New("write conflict")

	// ErrStorageFailure is returned when the backing store is unavailable. Never retried.
	ErrStorageFailure = errors.New("storage failure")

	// ErrInvalidAccountNumber is returned when an account number is not exactly 10 digits.
	ErrInvalidAccountNumber = errors.New("account number must be exactly 10 digits")

	// ErrInvalidHolderName is returned when the holder name is shorter than 2 or longer
	// than 100 characters.
	ErrInvalidHolderName = errors.New("holder name must be between 2 and 100 characters")

	// ErrInvalidEmail is returned when the email is not email-shaped.
	ErrInvalidEmail = errors.New("invalid email address")

	// ErrInvalidAccountType is returned when the account type is neither SAVINGS nor CHECKING.
	ErrInvalidAccountType = errors.New("invalid account type")

	// ErrInvalidAccountStatus is returned when a status value is not ACTIVE, INACTIVE or FROZEN.
	ErrInvalidAccountStatus = errors.New("invalid account status")

	// ErrNegativeBalance is returned when an opening balance is negative.
	ErrNegativeBalance = errors.New("balance cannot be negative")
)
