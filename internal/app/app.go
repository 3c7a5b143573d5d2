// Package app wires configuration into a ready BillingService for the
// server, scheduler and maintenance binaries.
package app

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/segyhp/collection-engine/internal/audit"
	"github.com/segyhp/collection-engine/internal/config"
	"github.com/segyhp/collection-engine/internal/guard"
	"github.com/segyhp/collection-engine/internal/notify"
	"github.com/segyhp/collection-engine/internal/repository"
	"github.com/segyhp/collection-engine/internal/service"
)

type App struct {
	Config  *config.Config
	Logger  *logrus.Logger
	DB      *sqlx.DB
	Redis   *redis.Client
	Store   *repository.Store
	Service *service.BillingService

	closers []func() error
}

// Options toggles wiring that only some binaries need.
type Options struct {
	Migrate bool
}

// New opens the database, applies the schema when asked and assembles the
// service with the optional guard, notifier and journal.
func New(ctx context.Context, cfg *config.Config, logger *logrus.Logger, opts Options) (*App, error) {
	db, err := repository.Open(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	a := &App{Config: cfg, Logger: logger, DB: db}
	a.closers = append(a.closers, db.Close)

	if opts.Migrate || cfg.Database.AutoMigrate {
		if err := repository.Migrate(ctx, db); err != nil {
			a.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
		logger.Info("schema up to date")
	}

	a.Store = repository.NewStore(db)
	repos := a.Store.Repositories()
	provider := repository.NewSettingsProvider(repos.Settings, logger)
	a.Service = service.NewBillingService(repos, a.Store, provider, cfg, logger)

	if cfg.Redis.Enabled {
		a.Redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		a.closers = append(a.closers, a.Redis.Close)
		if err := a.Redis.Ping(ctx).Err(); err != nil {
			logger.WithError(err).Warn("redis unreachable, duplicate guard will fail open")
		}
		a.Service.WithGuard(guard.NewRedisGuard(a.Redis, cfg.Business.DuplicateWindow))
	}

	if cfg.Notification.Enabled {
		a.Service.WithNotifier(notify.NewEmailSender(cfg.Notification, logger))
	}

	if cfg.Audit.JournalPath != "" {
		journal, err := audit.Open(cfg.Audit.JournalPath)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("open audit journal: %w", err)
		}
		a.closers = append(a.closers, journal.Close)
		a.Service.WithJournal(journal)
	}

	return a, nil
}

// Close releases resources in reverse order of acquisition.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.Logger.WithError(err).Warn("close failed")
		}
	}
	a.closers = nil
}
