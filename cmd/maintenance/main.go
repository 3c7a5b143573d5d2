package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"github.com/segyhp/collection-engine/internal/app"
	"github.com/segyhp/collection-engine/internal/config"
	"github.com/segyhp/collection-engine/internal/domain"
	"github.com/segyhp/collection-engine/pkg/logger"
)

func main() {
	var (
		realign   = pflag.Bool("realign", false, "move pending installments off Sundays and holidays")
		reconcile = pflag.Bool("reconcile", false, "recompute statuses from recorded payments")
		apply     = pflag.Bool("apply", false, "write the changes instead of only reporting them")
		migrate   = pflag.Bool("migrate", false, "apply the database schema before running")
		user      = pflag.String("user", "maintenance", "operator name recorded in the audit journal")
	)
	pflag.Parse()

	if !*realign && !*reconcile && !*migrate {
		fmt.Fprintln(os.Stderr, "nothing to do: pass --realign, --reconcile or --migrate")
		pflag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}
	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	log.SetOutput(os.Stderr)

	ctx := context.Background()
	a, err := app.New(ctx, cfg, log, app.Options{Migrate: *migrate})
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}
	defer a.Close()

	report := &domain.MaintenanceReport{Applied: *apply}
	if *realign {
		r, err := a.Service.RealignBlockedDates(ctx, *apply, *user)
		if err != nil {
			log.WithError(err).Error("realign failed")
			a.Close()
			os.Exit(1)
		}
		report.DateFixes = r.DateFixes
	}
	if *reconcile {
		r, err := a.Service.ReconcileStatuses(ctx, *apply, *user)
		if err != nil {
			log.WithError(err).Error("reconcile failed")
			a.Close()
			os.Exit(1)
		}
		report.StatusFixes = r.StatusFixes
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		log.WithError(err).Error("write report")
	}
}
