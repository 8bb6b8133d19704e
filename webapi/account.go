package webapi

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"

	"github.com/corebank/ledger/pkg/dto"
	accountsvc "github.com/corebank/ledger/pkg/service/account"
	ledgersvc "github.com/corebank/ledger/pkg/service/ledger"
)

// AccountRoutes registers the account endpoints.
//
//   - POST   /api/accounts                            : create a new account
//   - GET    /api/accounts                            : list all accounts
//   - GET    /api/accounts/status/:status             : list accounts by status
//   - GET    /api/accounts/:id                        : get account by opaque id
//   - GET    /api/accounts/number/:accountNumber      : get account by account number
//   - POST   /api/accounts/:accountNumber/deposit     : deposit funds
//   - POST   /api/accounts/:accountNumber/withdraw    : withdraw funds
//   - POST   /api/accounts/transactions               : generic transaction entry point
//   - DELETE /api/accounts/:id                        : delete an account
func AccountRoutes(app *fiber.App, accountSvc *accountsvc.Service, ledgerSvc *ledgersvc.Service) {
	api := app.Group("/api/accounts")
	api.Post("/", CreateAccount(accountSvc))
	api.Get("/", ListAccounts(accountSvc))
	api.Get("/status/:status", ListAccountsByStatus(accountSvc))
	api.Get("/number/:accountNumber", GetAccountByNumber(accountSvc))
	api.Post("/transactions", ProcessTransaction(ledgerSvc))
	api.Post("/:accountNumber/deposit", Deposit(ledgerSvc))
	api.Post("/:accountNumber/withdraw", Withdraw(ledgerSvc))
	api.Get("/:id", GetAccountByID(accountSvc))
	api.Delete("/:id", DeleteAccount(accountSvc))
}

// CreateAccount handles account creation. Duplicate account numbers or emails
// come back as conflict problem responses.
func CreateAccount(accountSvc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := BindAndValidate[CreateAccountRequest](c)
		if input == nil {
			return err
		}
		log.Infof("Creating new account: %s", input.AccountNumber)
		acct, err := accountSvc.CreateAccount(c.Context(), dto.AccountCreate{
			AccountNumber: input.AccountNumber,
			HolderName:    input.HolderName,
			Email:         input.Email,
			Balance:       input.Balance,
			AccountType:   input.AccountType,
		})
		if err != nil {
			log.Errorf("Failed to create account: %v", err)
			return DomainErrorResponseJSON(c, "Failed to create account", err)
		}
		return SuccessResponseJSON(c, fiber.StatusCreated, "Account created successfully", acct)
	}
}

// ListAccounts returns all accounts.
func ListAccounts(accountSvc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		seq, err := accountSvc.ListAccounts(c.Context())
		if err != nil {
			return DomainErrorResponseJSON(c, "Failed to list accounts", err)
		}
		accounts := make([]dto.AccountRead, 0)
		for acct, err := range seq {
			if err != nil {
				log.Errorf("Failed to list accounts: %v", err)
				return DomainErrorResponseJSON(c, "Failed to list accounts", err)
			}
			accounts = append(accounts, acct)
		}
		return SuccessResponseJSON(c, fiber.StatusOK, "Accounts retrieved successfully", accounts)
	}
}

// ListAccountsByStatus returns the accounts with the given status.
func ListAccountsByStatus(accountSvc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		seq, err := accountSvc.ListAccountsByStatus(c.Context(), c.Params("status"))
		if err != nil {
			return DomainErrorResponseJSON(c, "Failed to list accounts", err)
		}
		accounts := make([]dto.AccountRead, 0)
		for acct, err := range seq {
			if err != nil {
				return DomainErrorResponseJSON(c, "Failed to list accounts", err)
			}
			accounts = append(accounts, acct)
		}
		return SuccessResponseJSON(c, fiber.StatusOK, "Accounts retrieved successfully", accounts)
	}
}

// GetAccountByID resolves an account by its opaque id.
func GetAccountByID(accountSvc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid account ID",
				"Account ID must be a valid UUID")
		}
		acct, err := accountSvc.GetAccount(c.Context(), id)
		if err != nil {
			return DomainErrorResponseJSON(c, "Account not found", err)
		}
		return SuccessResponseJSON(c, fiber.StatusOK, "Account found", acct)
	}
}

// GetAccountByNumber resolves an account by its 10-digit account number.
func GetAccountByNumber(accountSvc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		acct, err := accountSvc.GetAccountByNumber(c.Context(), c.Params("accountNumber"))
		if err != nil {
			return DomainErrorResponseJSON(c, "Account not found", err)
		}
		return SuccessResponseJSON(c, fiber.StatusOK, "Account found", acct)
	}
}

// Deposit invokes the ledger engine for a deposit.
func Deposit(ledgerSvc *ledgersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := BindAndValidate[AmountRequest](c)
		if input == nil {
			return err
		}
		accountNumber := c.Params("accountNumber")
		log.Infof("Depositing %s to account: %s", input.Amount, accountNumber)
		result, err := ledgerSvc.Deposit(c.Context(), accountNumber, input.Amount, input.Description)
		if err != nil {
			log.Errorf("Failed to deposit: %v", err)
			return DomainErrorResponseJSON(c, "Failed to deposit", err)
		}
		return SuccessResponseJSON(c, fiber.StatusOK, result.Message, result)
	}
}

// Withdraw invokes the ledger engine for a withdrawal. An insufficient-funds
// rejection has already committed its FAILED record when the error response
// is written.
func Withdraw(ledgerSvc *ledgersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := BindAndValidate[AmountRequest](c)
		if input == nil {
			return err
		}
		accountNumber := c.Params("accountNumber")
		log.Infof("Withdrawing %s from account: %s", input.Amount, accountNumber)
		result, err := ledgerSvc.Withdraw(c.Context(), accountNumber, input.Amount, input.Description)
		if err != nil {
			log.Errorf("Failed to withdraw: %v", err)
			return DomainErrorResponseJSON(c, "Failed to withdraw", err)
		}
		return SuccessResponseJSON(c, fiber.StatusOK, result.Message, result)
	}
}

// ProcessTransaction is the uniform entry point: type arrives in the payload.
func ProcessTransaction(ledgerSvc *ledgersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := BindAndValidate[TransactionRequest](c)
		if input == nil {
			return err
		}
		log.Infof("Processing %s of %s for account: %s",
			input.TransactionType, input.Amount, input.AccountNumber)
		result, err := ledgerSvc.Transact(c.Context(),
			input.AccountNumber, input.TransactionType, input.Amount, input.Description)
		if err != nil {
			log.Errorf("Failed to process transaction: %v", err)
			return DomainErrorResponseJSON(c, "Failed to process transaction", err)
		}
		return SuccessResponseJSON(c, fiber.StatusOK, result.Message, result)
	}
}

// DeleteAccount removes an account. Its ledger history is retained.
func DeleteAccount(accountSvc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid account ID",
				"Account ID must be a valid UUID")
		}
		if err := accountSvc.DeleteAccount(c.Context(), id); err != nil {
			return DomainErrorResponseJSON(c, "Failed to delete account", err)
		}
		return SuccessResponseJSON(c, fiber.StatusOK, "Account deleted successfully", nil)
	}
}
