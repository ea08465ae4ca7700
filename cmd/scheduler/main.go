package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/adeyemio/schoolbase/internal/config"
	"github.com/adeyemio/schoolbase/internal/domain"
	"github.com/adeyemio/schoolbase/internal/repository"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	feeRepo := repository.NewFeeRepository(db)

	location, err := time.LoadLocation(cfg.Scheduler.Timezone)
	if err != nil {
		logrus.Fatalf("Invalid scheduler timezone %q: %v", cfg.Scheduler.Timezone, err)
	}

	c := cron.New(cron.WithSeconds(), cron.WithLocation(location))

	// Daily sweep: flip pending fees past their due date to overdue. The
	// persisted status is a materialized derivation and can go stale
	// between writes; this keeps the window to one day at most.
	_, err = c.AddFunc(cfg.Scheduler.SweepSpec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		updated, err := feeRepo.MarkOverdue(ctx, time.Now())
		if err != nil {
			logrus.WithError(err).Error("overdue fee sweep failed")
			return
		}
		logrus.WithFields(logrus.Fields{
			"updated": updated,
			"status":  domain.FeeStatusOverdue,
		}).Info("overdue fee sweep complete")
	})
	if err != nil {
		logrus.Fatalf("Failed to schedule overdue sweep: %v", err)
	}

	c.Start()
	logrus.Info("Scheduler started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down scheduler...")
	c.Stop()
	logrus.Info("Scheduler stopped")
}
