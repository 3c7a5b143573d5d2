package service

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/segyhp/collection-engine/internal/audit"
	"github.com/segyhp/collection-engine/internal/calendar"
	"github.com/segyhp/collection-engine/internal/config"
	"github.com/segyhp/collection-engine/internal/guard"
	"github.com/segyhp/collection-engine/internal/notify"
	"github.com/segyhp/collection-engine/internal/penalty"
	"github.com/segyhp/collection-engine/internal/repository"
	"github.com/segyhp/collection-engine/internal/schedule"
	customError "github.com/segyhp/collection-engine/pkg/errors"
)

type BillingService struct {
	repos      *repository.Repositories
	uow        repository.UnitOfWork
	config     penalty.ConfigProvider
	calculator *penalty.Calculator
	clock      calendar.Clock
	plans      schedule.RatePlans
	epsilon    decimal.Decimal
	guard      guard.SubmissionGuard
	notifier   notify.Notifier
	journal    audit.Journal
	logger     *logrus.Logger
}

func NewBillingService(
	repos *repository.Repositories,
	uow repository.UnitOfWork,
	settings penalty.ConfigProvider,
	cfg *config.Config,
	logger *logrus.Logger,
) *BillingService {
	clock := calendar.SystemClock{Location: cfg.GetSchedulerTimezone()}
	return &BillingService{
		repos:      repos,
		uow:        uow,
		config:     settings,
		calculator: penalty.NewCalculator(settings, clock, logger),
		clock:      clock,
		plans:      cfg.GetRatePlans(),
		epsilon:    cfg.GetSettlementEpsilon(),
		notifier:   notify.NewLogNotifier(logger),
		journal:    audit.Discard{},
		logger:     logger,
	}
}

// WithGuard enables the duplicate-submission guard.
func (s *BillingService) WithGuard(g guard.SubmissionGuard) *BillingService {
	s.guard = g
	return s
}

// WithNotifier replaces the default log-only notifier.
func (s *BillingService) WithNotifier(n notify.Notifier) *BillingService {
	s.notifier = n
	return s
}

// WithJournal records committed mutations.
func (s *BillingService) WithJournal(j audit.Journal) *BillingService {
	s.journal = j
	return s
}

// WithClock overrides "today", for tests and backfills.
func (s *BillingService) WithClock(c calendar.Clock) *BillingService {
	s.clock = c
	s.calculator = penalty.NewCalculator(s.config, c, s.logger)
	return s
}

// withinTx passes business errors through and wraps everything else.
func (s *BillingService) withinTx(ctx context.Context, fn repository.TxFunc) error {
	err := s.uow.WithinTx(ctx, fn)
	if err == nil {
		return nil
	}
	var be *customError.BusinessError
	if errors.As(err, &be) {
		return err
	}
	return customError.WrapDatabaseError(err)
}

// lookupErr maps a repository miss to the given business error.
func lookupErr(err error, notFound func() *customError.BusinessError) error {
	if errors.Is(err, repository.ErrNotFound) {
		return notFound()
	}
	return customError.WrapDatabaseError(err)
}

func (s *BillingService) record(ctx context.Context, user, action, entity, id string, changes map[string]any) {
	s.journal.Record(ctx, audit.Entry{
		User:     user,
		Action:   action,
		Entity:   entity,
		EntityID: id,
		Changes:  changes,
	})
}
