// Package infra wires the ledger to its backing services: the Postgres
// connection and schema migration.
package infra

import (
	"errors"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/corebank/ledger/config"
	"github.com/corebank/ledger/infra/repository"
)

// NewDBConnection opens the Postgres connection described by cnf. In
// development the gorm logger echoes statements; elsewhere it is silent.
func NewDBConnection(cnf config.DB, appEnv string) (*gorm.DB, error) {
	if cnf.Url == "" {
		return nil, errors.New("DATABASE_URL is not set")
	}

	logMode := logger.Silent
	if appEnv == "development" {
		logMode = logger.Info
	}

	connection, err := gorm.Open(postgres.Open(cnf.Url), &gorm.Config{
		Logger:                 logger.Default.LogMode(logMode),
		SkipDefaultTransaction: true,
		TranslateError:         false,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := connection.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(cnf.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cnf.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(1 * time.Hour)

	return connection, nil
}

// Migrate creates or updates the accounts and transactions tables, including
// the unique indexes that make duplicate detection authoritative.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&repository.Account{}, &repository.Transaction{})
}
