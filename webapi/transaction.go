package webapi

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	transactionsvc "github.com/corebank/ledger/pkg/service/transaction"
)

// TransactionRoutes registers the read-only ledger history endpoints.
//
//   - GET /api/transactions/account/:accountNumber            : full history, most recent first
//   - GET /api/transactions/account/:accountNumber/type/:type : filtered by DEPOSIT or WITHDRAWAL
//   - GET /api/transactions/account/:accountNumber/daterange  : ?start=&end= (RFC 3339)
//   - GET /api/transactions/account/:accountNumber/summary    : totals per type, net, count
//   - GET /api/transactions/reference/:reference              : single record by reference
func TransactionRoutes(app *fiber.App, transactionSvc *transactionsvc.Service) {
	api := app.Group("/api/transactions")
	api.Get("/account/:accountNumber", GetAccountTransactions(transactionSvc))
	api.Get("/account/:accountNumber/type/:type", GetTransactionsByType(transactionSvc))
	api.Get("/account/:accountNumber/daterange", GetTransactionsByDateRange(transactionSvc))
	api.Get("/account/:accountNumber/summary", GetTransactionSummary(transactionSvc))
	api.Get("/reference/:reference", GetTransactionByReference(transactionSvc))
}

// GetAccountTransactions returns the account's full history.
func GetAccountTransactions(transactionSvc *transactionsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		accountNumber := c.Params("accountNumber")
		log.Infof("Fetching transactions for account: %s", accountNumber)
		txs, err := transactionSvc.ListByAccount(c.Context(), accountNumber)
		if err != nil {
			return DomainErrorResponseJSON(c, "Failed to fetch transactions", err)
		}
		return SuccessResponseJSON(c, fiber.StatusOK, "Transactions retrieved successfully", txs)
	}
}

// GetTransactionsByType returns the account's history filtered by type.
func GetTransactionsByType(transactionSvc *transactionsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		accountNumber := c.Params("accountNumber")
		txType := c.Params("type")
		log.Infof("Fetching %s transactions for account: %s", txType, accountNumber)
		txs, err := transactionSvc.ListByAccountAndType(c.Context(), accountNumber, txType)
		if err != nil {
			return DomainErrorResponseJSON(c, "Failed to fetch transactions", err)
		}
		return SuccessResponseJSON(c, fiber.StatusOK,
			txType+" transactions retrieved successfully", txs)
	}
}

// GetTransactionsByDateRange returns the account's records between the
// inclusive start and end query parameters.
func GetTransactionsByDateRange(transactionSvc *transactionsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		accountNumber := c.Params("accountNumber")
		start, err := time.Parse(time.RFC3339, c.Query("start"))
		if err != nil {
			return ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid date range",
				"start must be an RFC 3339 timestamp")
		}
		end, err := time.Parse(time.RFC3339, c.Query("end"))
		if err != nil {
			return ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid date range",
				"end must be an RFC 3339 timestamp")
		}
		txs, err := transactionSvc.ListByDateRange(c.Context(), accountNumber, start, end)
		if err != nil {
			return DomainErrorResponseJSON(c, "Failed to fetch transactions", err)
		}
		return SuccessResponseJSON(c, fiber.StatusOK, "Transactions retrieved successfully", txs)
	}
}

// GetTransactionSummary returns the per-type totals of the account.
func GetTransactionSummary(transactionSvc *transactionsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		accountNumber := c.Params("accountNumber")
		log.Infof("Fetching transaction summary for account: %s", accountNumber)
		summary, err := transactionSvc.Summary(c.Context(), accountNumber)
		if err != nil {
			return DomainErrorResponseJSON(c, "Failed to fetch summary", err)
		}
		return SuccessResponseJSON(c, fiber.StatusOK, "Summary retrieved successfully", summary)
	}
}

// GetTransactionByReference resolves one record by its unique reference.
func GetTransactionByReference(transactionSvc *transactionsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		reference := c.Params("reference")
		log.Infof("Fetching transaction by reference: %s", reference)
		tx, err := transactionSvc.GetByReference(c.Context(), reference)
		if err != nil {
			return DomainErrorResponseJSON(c, "Transaction not found", err)
		}
		return SuccessResponseJSON(c, fiber.StatusOK, "Transaction found", tx)
	}
}
