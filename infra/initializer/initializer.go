// Package initializer builds the dependency graph the entrypoints share.
package initializer

import (
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/sehyun-dev/gobank/infra"
	infrarepo "github.com/sehyun-dev/gobank/infra/repository"
	"github.com/sehyun-dev/gobank/pkg/config"
	"github.com/sehyun-dev/gobank/pkg/repository"
)

// Deps carries the wired dependencies.
type Deps struct {
	Cfg    *config.App
	DB     *gorm.DB
	Uow    repository.UnitOfWork
	Logger *slog.Logger
}

// New connects to the database, migrates the schema and wires the unit of
// work and logger.
func New(cfg *config.App) (*Deps, error) {
	logger := setupLogger(&cfg.Log)
	db, err := infra.NewDBConnection(cfg.DB, cfg.Env)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if err := infra.Migrate(db); err != nil {
		return nil, fmt.Errorf("migrate schema: %w", err)
	}
	return &Deps{
		Cfg:    cfg,
		DB:     db,
		Uow:    infrarepo.NewUoW(db),
		Logger: logger,
	}, nil
}
