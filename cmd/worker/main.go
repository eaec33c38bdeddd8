// Command worker is the sambilila background worker binary. It polls the
// flashcard and quiz job tables, turns submitted study material into
// generated artifacts through the Gemini API, and writes the results
// back to PostgreSQL.
//
// Subcommands:
//
//	serve    — run the poll scheduler and health endpoint (default)
//	migrate  — run pending database migrations and exit
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/devKanyanta/sambilila-worker/internal/config"
	"github.com/devKanyanta/sambilila-worker/internal/domain"
	"github.com/devKanyanta/sambilila-worker/internal/extract"
	"github.com/devKanyanta/sambilila-worker/internal/generation"
	"github.com/devKanyanta/sambilila-worker/internal/platform/gemini"
	"github.com/devKanyanta/sambilila-worker/internal/platform/logger"
	"github.com/devKanyanta/sambilila-worker/internal/platform/postgres"
	"github.com/devKanyanta/sambilila-worker/internal/retry"
	"github.com/devKanyanta/sambilila-worker/internal/server"
	"github.com/devKanyanta/sambilila-worker/internal/worker"
	"github.com/devKanyanta/sambilila-worker/migrations"
)

const (
	startupProbeTimeout  = 5 * time.Second
	shutdownTimeout      = 10 * time.Second
	documentFetchTimeout = 60 * time.Second
)

func main() {
	root := &cobra.Command{
		Use:   "worker",
		Short: "sambilila study-material worker",
		RunE:  runServe,
		// Errors are logged through slog before exiting.
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	root.AddCommand(serveCmd(), migrateCmd())

	if err := root.Execute(); err != nil {
		slog.Error("worker exiting with error", "error", err)
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the poll scheduler and health endpoint",
		RunE:  runServe,
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run pending database migrations and exit",
		RunE:  runMigrate,
	}
}

// setup loads configuration and installs the process logger. A .env file
// in the working directory seeds the environment for local development;
// its absence is not an error.
func setup() (*config.Config, *slog.Logger, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log := logger.Setup(logger.Options{
		Level:  cfg.Server.LogLevel,
		Format: cfg.Server.LogFormat,
	})

	return cfg, log, nil
}

// openDatabase opens the connection pool and verifies connectivity with
// a retried ping, so a briefly saturated database at boot does not kill
// the worker.
func openDatabase(ctx context.Context, cfg *config.Config, log *slog.Logger) (*sql.DB, error) {
	db, err := sql.Open("pgx", cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	probe := retry.Policy{
		MaxAttempts: cfg.Worker.MaxAttempts,
		BaseDelay:   cfg.Worker.RetryBaseDelay,
		Transient:   postgres.IsTransient,
		Logger:      log,
	}
	err = probe.Do(ctx, func(ctx context.Context) error {
		pingCtx, cancel := context.WithTimeout(ctx, startupProbeTimeout)
		defer cancel()
		return db.PingContext(pingCtx)
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("database unreachable: %w", err)
	}

	return db, nil
}

// slogGooseLogger adapts goose's logger interface to slog. Fatalf does
// not exit; goose errors propagate back through the command instead.
type slogGooseLogger struct{}

func (slogGooseLogger) Printf(format string, v ...any) {
	slog.Info(fmt.Sprintf(format, v...))
}

func (slogGooseLogger) Fatalf(format string, v ...any) {
	slog.Error(fmt.Sprintf(format, v...))
}

func migrateUp(db *sql.DB, log *slog.Logger) error {
	goose.SetLogger(slogGooseLogger{})
	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}
	if err := goose.Up(db, "."); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	log.Info("database schema up to date")
	return nil
}

// buildExtractors assembles the extraction registry. HTTP and Dropbox
// share one strategy since a Dropbox share link is an HTTP fetch after
// normalization; object storage is registered only when configured.
func buildExtractors(ctx context.Context, cfg *config.Config) (*extract.Registry, error) {
	registry := extract.NewRegistry()

	httpExtractor := extract.NewHTTPExtractor(&http.Client{Timeout: documentFetchTimeout})
	registry.Register(domain.RefKindHTTP, httpExtractor)
	registry.Register(domain.RefKindDropbox, httpExtractor)

	if cfg.Storage.Enabled() {
		objectExtractor, err := extract.NewObjectExtractor(ctx, extract.ObjectStorageConfig{
			Endpoint:        cfg.Storage.Endpoint,
			Region:          cfg.Storage.Region,
			AccessKeyID:     cfg.Storage.AccessKeyID,
			SecretAccessKey: cfg.Storage.SecretAccessKey,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to configure object storage: %w", err)
		}
		registry.Register(domain.RefKindObject, objectExtractor)
	}

	return registry, nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := openDatabase(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("failed to close database", "error", err)
		}
	}()

	if err := migrateUp(db, log); err != nil {
		return err
	}

	generator, err := gemini.NewGenerator(ctx, log, cfg.LLM)
	if err != nil {
		return fmt.Errorf("failed to create generator: %w", err)
	}

	extractors, err := buildExtractors(ctx, cfg)
	if err != nil {
		return err
	}

	retryPolicy := retry.Policy{
		MaxAttempts: cfg.Worker.MaxAttempts,
		BaseDelay:   cfg.Worker.RetryBaseDelay,
		Transient:   postgres.IsTransient,
		Logger:      log,
	}

	var flashcardGen generation.FlashcardGenerator = generator
	var quizGen generation.QuizGenerator = generator

	procs := []*worker.Processor{
		worker.NewProcessor(
			worker.FlashcardKind(
				postgres.NewFlashcardJobStore(db),
				flashcardGen,
				postgres.NewFlashcardStore(db),
			),
			extractors, retryPolicy, log,
		),
		worker.NewProcessor(
			worker.QuizKind(
				postgres.NewQuizJobStore(db),
				quizGen,
				postgres.NewQuizStore(db),
			),
			extractors, retryPolicy, log,
		),
	}

	scheduler := worker.NewScheduler(
		cfg.Worker.PollInterval,
		cfg.Worker.Concurrency,
		procs,
		log,
	)

	health := server.New(cfg.Server.Port, db, log)
	healthErr := make(chan error, 1)
	go func() {
		healthErr <- health.Start()
	}()

	runErr := make(chan error, 1)
	go func() {
		runErr <- scheduler.Run(ctx)
	}()

	select {
	case err := <-healthErr:
		// The health listener failing is fatal; orchestrators would
		// otherwise keep a deaf worker alive forever.
		stop()
		<-runErr
		return err
	case err := <-runErr:
		if err != nil {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := health.Shutdown(shutdownCtx); err != nil {
		log.Error("health server shutdown failed", "error", err)
	}

	log.Info("worker stopped")
	return nil
}

func runMigrate(_ *cobra.Command, _ []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := openDatabase(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("failed to close database", "error", err)
		}
	}()

	return migrateUp(db, log)
}
