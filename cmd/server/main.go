package main

import (
	"fmt"
	"log/slog"

	"github.com/charmbracelet/log"

	"github.com/corebank/ledger/config"
	"github.com/corebank/ledger/infra"
	"github.com/corebank/ledger/infra/repository"
	"github.com/corebank/ledger/pkg/service/account"
	"github.com/corebank/ledger/pkg/service/ledger"
	"github.com/corebank/ledger/pkg/service/transaction"
	"github.com/corebank/ledger/webapi"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	logger := slog.Default()

	cfg, err := config.Load(logger)
	if err != nil {
		return fmt.Errorf("failed to load application configuration: %w", err)
	}

	db, err := infra.NewDBConnection(cfg.DB, cfg.Env)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := infra.Migrate(db); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	uow := repository.NewUoW(db)
	svcs := webapi.Services{
		Account: account.NewService(uow, logger),
		Ledger: ledger.NewService(uow, ledger.Config{
			MaxRetries:   cfg.Ledger.MaxRetries,
			RetryBackoff: cfg.Ledger.RetryBackoff,
		}, logger),
		Transaction: transaction.NewService(uow, logger),
	}

	app := webapi.NewApp(svcs, cfg)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("starting server", "env", cfg.Env, "address", addr)
	return app.Listen(addr)
}
