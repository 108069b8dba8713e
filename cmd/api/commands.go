package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Dan9191/exercise-tracker/internal/handler"
	"github.com/Dan9191/exercise-tracker/internal/report"
	"github.com/Dan9191/exercise-tracker/internal/repository"
	"github.com/Dan9191/exercise-tracker/internal/service"
	"github.com/Dan9191/exercise-tracker/internal/utils/email"
	"github.com/robfig/cron/v3"
)

const connectTimeout = 10 * time.Second

func openStore(app *App) (repository.Repository, error) {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	repo, err := repository.Open(ctx, app.Config)
	if err != nil {
		return nil, err
	}
	if err := repo.Migrate(ctx); err != nil {
		repo.Close()
		return nil, err
	}
	return repo, nil
}

func newReporter(app *App, repo repository.Repository) *report.Reporter {
	var mailer report.Mailer
	if app.Config.MailEnabled() {
		mailer = email.NewSender(app.Config, app.Log)
	}
	return report.NewReporter(repo, mailer, app.Config.ReportRecipient, app.Log)
}

type ServeCmd struct{}

func (c *ServeCmd) Run(app *App) error {
	cfg, logger := app.Config, app.Log

	// Initialize storage
	repo, err := openStore(app)
	if err != nil {
		return err
	}
	defer repo.Close()

	// Initialize layers
	svc := service.NewService(repo, logger)
	h := handler.NewHandler(svc, logger)

	// Scheduled activity report
	scheduler := cron.New()
	if cfg.ReportSchedule != "" {
		if _, err := report.Schedule(scheduler, cfg.ReportSchedule, newReporter(app, repo)); err != nil {
			return err
		}
		scheduler.Start()
		defer func() { <-scheduler.Stop().Done() }()
		logger.Infof("Activity report scheduled: %s", cfg.ReportSchedule)
	}

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           handler.NewRouter(h),
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Infof("Starting server on %s (store: %s)", addr, cfg.StoreDriver)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(signals)

	select {
	case err := <-serverErr:
		return fmt.Errorf("server failed: %w", err)
	case sig := <-signals:
		logger.Infof("Received signal %v, shutting down", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	logger.Info("Server stopped")
	return nil
}

type MigrateCmd struct{}

func (c *MigrateCmd) Run(app *App) error {
	repo, err := openStore(app)
	if err != nil {
		return err
	}
	defer repo.Close()

	app.Log.Infof("Schema ready for %s store", app.Config.StoreDriver)
	return nil
}

type ReportCmd struct {
	Print bool `help:"Also print the report to stdout."`
}

func (c *ReportCmd) Run(app *App) error {
	repo, err := openStore(app)
	if err != nil {
		return err
	}
	defer repo.Close()

	reporter := newReporter(app, repo)
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if c.Print {
		summary, err := reporter.Build(ctx)
		if err != nil {
			return err
		}
		fmt.Print(summary.Text())
	}
	return reporter.Run(ctx)
}
