package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/segyhp/collection-engine/internal/app"
	"github.com/segyhp/collection-engine/internal/config"
	"github.com/segyhp/collection-engine/internal/domain"
	"github.com/segyhp/collection-engine/internal/service"
	"github.com/segyhp/collection-engine/pkg/logger"
)

const jobTimeout = 10 * time.Minute

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}
	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	log.Info("Starting collection scheduler...")

	a, err := app.New(context.Background(), cfg, log, app.Options{})
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}
	defer a.Close()

	c := cron.New(
		cron.WithLocation(cfg.GetSchedulerTimezone()),
		cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger), cron.Recover(cron.DefaultLogger)),
	)

	if err := setupCronJobs(c, cfg, a.Service, log); err != nil {
		log.Fatalf("Failed to schedule jobs: %v", err)
	}

	c.Start()
	log.Info("Scheduler started successfully")

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down scheduler...")
	<-c.Stop().Done()
	log.Info("Scheduler stopped")
}

func setupCronJobs(c *cron.Cron, cfg *config.Config, svc *service.BillingService, log *logrus.Logger) error {
	// Daily due and overdue notices
	if _, err := c.AddFunc(cfg.Scheduler.NoticeSpec, func() {
		sendDueNotices(svc, log)
	}); err != nil {
		return err
	}

	// Daily snapshot of the overdue portfolio
	if _, err := c.AddFunc(cfg.Scheduler.OverdueSpec, func() {
		logOverdueSnapshot(svc, log)
	}); err != nil {
		return err
	}

	log.WithFields(logrus.Fields{
		"notices": cfg.Scheduler.NoticeSpec,
		"overdue": cfg.Scheduler.OverdueSpec,
	}).Info("Cron jobs scheduled successfully")
	return nil
}

func sendDueNotices(svc *service.BillingService, log *logrus.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	report, err := svc.SendDueNotices(ctx, time.Time{})
	if err != nil {
		log.WithError(err).Error("due notice job failed")
		return
	}
	log.WithFields(logrus.Fields{
		"sent":    report.Sent,
		"skipped": report.Skipped,
		"failed":  report.Failed,
	}).Info("due notice job finished")
}

func logOverdueSnapshot(svc *service.BillingService, log *logrus.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	stats, err := svc.DashboardStats(ctx)
	if err != nil {
		log.WithError(err).Error("overdue snapshot failed")
		return
	}
	balance, err := svc.OutstandingBalance(ctx, domain.ScopePortfolio, nil)
	if err != nil {
		log.WithError(err).Error("overdue snapshot failed")
		return
	}
	log.WithFields(logrus.Fields{
		"overdue_charges": stats.OverdueCharges,
		"pending_charges": stats.PendingCharges,
		"installments":    balance.Installments,
		"outstanding":     balance.Outstanding.StringFixed(2),
	}).Info("overdue snapshot")
}
