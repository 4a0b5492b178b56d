// Package infra wires the external collaborators: the Postgres connection
// and schema migration.
package infra

import (
	"errors"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/sehyun-dev/gobank/pkg/config"
	infrarepo "github.com/sehyun-dev/gobank/infra/repository"
)

// NewDBConnection opens the Postgres connection. Default per-statement
// transactions are skipped; atomicity comes from the UnitOfWork.
func NewDBConnection(cfg config.DB, appEnv string) (*gorm.DB, error) {
	if cfg.Url == "" {
		return nil, errors.New("DATABASE_URL is not set")
	}

	logMode := logger.Silent
	if appEnv == "development" {
		logMode = logger.Info
	}

	db, err := gorm.Open(postgres.Open(cfg.Url), &gorm.Config{
		Logger:                 logger.Default.LogMode(logMode),
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(25)
	sqlDB.SetConnMaxLifetime(1 * time.Hour)

	return db, nil
}

// Migrate creates or updates the schema for the three tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&infrarepo.User{},
		&infrarepo.Account{},
		&infrarepo.History{},
	)
}
