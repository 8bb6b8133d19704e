// Package webapi exposes the account and ledger services over HTTP JSON using
// Fiber. Handlers translate domain errors into RFC 9457 problem responses and
// never leak internals into messages.
package webapi

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/corebank/ledger/config"
	accountsvc "github.com/corebank/ledger/pkg/service/account"
	ledgersvc "github.com/corebank/ledger/pkg/service/ledger"
	transactionsvc "github.com/corebank/ledger/pkg/service/transaction"
)

// Services bundles the application services the API serves.
type Services struct {
	Account     *accountsvc.Service
	Ledger      *ledgersvc.Service
	Transaction *transactionsvc.Service
}

// NewApp builds the Fiber application with all routes and middleware.
func NewApp(svcs Services, cfg *config.AppConfig) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName: "ledger",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return ErrorResponseJSON(c, e.Code, e.Message, nil)
			}
			log.Errorf("Unhandled error: %v", err)
			return ErrorResponseJSON(c, fiber.StatusInternalServerError,
				"Internal Server Error", "internal server error")
		},
	})

	app.Use(recover.New())
	app.Use(cors.New())
	app.Use(limiter.New(limiter.Config{
		Max:        cfg.RateLimit.MaxRequests,
		Expiration: cfg.RateLimit.Window,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return ErrorResponseJSON(c, fiber.StatusTooManyRequests,
				"Too Many Requests", "Rate limit exceeded")
		},
	}))

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	AccountRoutes(app, svcs.Account, svcs.Ledger)
	TransactionRoutes(app, svcs.Transaction)

	return app
}
