// @title        Taskly API
// @version      1.0
// @description  Personal task tracking with reminders and a notification feed.
// @BasePath     /
//
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
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

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	mongodriver "go.mongodb.org/mongo-driver/mongo"

	"github.com/taskly/taskly-api/internal/api"
	"github.com/taskly/taskly-api/internal/core/ports"
	"github.com/taskly/taskly-api/internal/core/service"
	"github.com/taskly/taskly-api/internal/infrastructure/auth"
	"github.com/taskly/taskly-api/internal/infrastructure/config"
	"github.com/taskly/taskly-api/internal/infrastructure/db/file"
	"github.com/taskly/taskly-api/internal/infrastructure/db/memory"
	"github.com/taskly/taskly-api/internal/infrastructure/db/mongo"
	"github.com/taskly/taskly-api/internal/infrastructure/db/redis"
	"github.com/taskly/taskly-api/internal/infrastructure/mail"
	"github.com/taskly/taskly-api/internal/infrastructure/queue"
	"github.com/taskly/taskly-api/pkg/logger"
)

const (
	shutdownTimeout = 10 * time.Second
	jobTimeout      = 2 * time.Minute
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "taskly-api",
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("taskly-api stopped")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	store, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	state, err := service.NewState(ctx, store, log)
	if err != nil {
		return err
	}

	reminders, closeReminders, err := openReminderLog(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeReminders()

	location, err := cfg.SummaryLocation()
	if err != nil {
		return err
	}

	// --- Background workers ---
	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	defer cancelWorkers()

	mailer, err := newMailer(cfg, log)
	if err != nil {
		return err
	}
	dispatcher := queue.NewMailDispatcher(cfg.Mail.Workers, mailer, log.With().Str("component", "mail").Logger())
	dispatcher.Start(workerCtx)

	// --- Services ---
	tokens := auth.NewJWTIssuer(cfg.JWTSecret)
	notifications := service.NewNotificationService(state, log)
	authService := service.NewAuthService(state, auth.NewBcryptHasher(cfg.BcryptCost), tokens, notifications, dispatcher, log)
	taskService := service.NewTaskService(state, notifications, log)
	scanner := service.NewScanner(state, notifications, service.ScannerConfig{
		SummaryHour: cfg.Scheduler.SummaryHour,
		Location:    location,
		Reminders:   reminders,
	}, log.With().Str("component", "scanner").Logger())

	scheduler := queue.NewScheduler(log.With().Str("component", "scheduler").Logger(),
		queue.Job{
			Name:     "due_scan",
			Interval: cfg.Scheduler.ScanInterval,
			Timeout:  jobTimeout,
			Run: func(ctx context.Context, now time.Time) error {
				_, err := scanner.ScanDueDates(ctx, now)
				return err
			},
		},
		queue.Job{
			Name:     "daily_summary",
			Interval: cfg.Scheduler.SummaryInterval,
			Timeout:  jobTimeout,
			Run: func(ctx context.Context, now time.Time) error {
				_, err := scanner.SendDailySummaries(ctx, now)
				return err
			},
		},
	)
	scheduler.Start(workerCtx)

	// --- HTTP ---
	health := map[string]ports.Pinger{"store": state}
	if p, ok := reminders.(ports.Pinger); ok {
		health["reminders"] = p
	}
	e := api.NewRouter(api.RouterConfig{
		Auth:          authService,
		Tasks:         taskService,
		Notifications: notifications,
		Tokens:        tokens,
		Health:        health,
		CORSOrigins:   cfg.CORSOrigins,
		Log:           log,
	})

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("store", cfg.Store.Driver).Msg("taskly-api listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down")
	case err := <-serverErr:
		return fmt.Errorf("http server: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}

	cancelWorkers()
	scheduler.Wait()
	dispatcher.Wait()
	return nil
}

func openStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (ports.SnapshotStore, func(), error) {
	switch cfg.Store.Driver {
	case config.StoreMongo:
		client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, nil, err
		}
		log.Info().Str("database", cfg.Mongo.Database).Msg("snapshot store: mongodb")
		return mongo.NewSnapshotStore(db), func() { disconnectMongo(client, log) }, nil
	default:
		log.Info().Str("path", cfg.Store.DataFile).Msg("snapshot store: file")
		return file.NewSnapshotStore(cfg.Store.DataFile), func() {}, nil
	}
}

func disconnectMongo(client *mongodriver.Client, log zerolog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := client.Disconnect(ctx); err != nil {
		log.Error().Err(err).Msg("mongo disconnect")
	}
}

// openReminderLog returns nil when repeat suppression is off, so every scan
// re-emits.
func openReminderLog(ctx context.Context, cfg *config.Config, log zerolog.Logger) (ports.ReminderLog, func(), error) {
	if !cfg.Scheduler.SuppressRepeats {
		return nil, func() {}, nil
	}
	if cfg.Redis.Addr == "" {
		log.Info().Msg("reminder log: in-memory")
		return memory.NewReminderLog(), func() {}, nil
	}

	client, err := redis.Connect(ctx, redis.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return nil, nil, err
	}
	log.Info().Str("addr", cfg.Redis.Addr).Msg("reminder log: redis")
	return redis.NewReminderLog(client), func() { closeRedis(client, log) }, nil
}

func closeRedis(client *goredis.Client, log zerolog.Logger) {
	if err := client.Close(); err != nil {
		log.Error().Err(err).Msg("redis close")
	}
}

func newMailer(cfg *config.Config, log zerolog.Logger) (ports.Mailer, error) {
	if cfg.Mail.Host == "" {
		return mail.NewLogMailer(log.With().Str("component", "mail").Logger()), nil
	}
	return mail.NewSMTPMailer(mail.SMTPConfig{
		Host:     cfg.Mail.Host,
		Port:     cfg.Mail.Port,
		Username: cfg.Mail.Username,
		Password: cfg.Mail.Password,
		From:     cfg.Mail.From,
	})
}
