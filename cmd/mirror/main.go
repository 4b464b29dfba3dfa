package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alexanderramin/mirror/internal/cli"
	"github.com/alexanderramin/mirror/internal/config"
	"github.com/alexanderramin/mirror/internal/db"
	"github.com/alexanderramin/mirror/internal/httpapi"
	"github.com/alexanderramin/mirror/internal/intelligence"
	"github.com/alexanderramin/mirror/internal/llm"
	"github.com/alexanderramin/mirror/internal/runlock"
	"github.com/alexanderramin/mirror/internal/service"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(".env")
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))

	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()
	uow := db.NewSQLiteUnitOfWork(database)

	var observers []service.UseCaseObserver
	if cfg.LogServiceCalls {
		observers = append(observers, service.NewLogUseCaseObserver(logger))
	}

	// The scan lock is only shared across processes when Redis is configured.
	var locker runlock.Locker = runlock.NewLocalLocker()
	if cfg.RedisAddr != "" {
		rl, err := runlock.NewRedisLocker(ctx, runlock.RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return err
		}
		defer rl.Close()
		locker = rl
	}

	// Narratives fall back to deterministic text unless the LLM is enabled.
	var llmClient llm.Client
	llmCfg := llm.LoadConfig()
	if llmCfg.Enabled {
		var observer llm.Observer = llm.NoopObserver{}
		if llmCfg.LogCalls {
			observer = llm.NewLogObserver(os.Stderr)
		}
		llmClient = llm.NewOllamaClient(llmCfg, observer)
	}
	narrator := intelligence.NewNarrator(llmClient)

	metricsSvc := service.NewMetricsService(database, narrator, observers...)
	violationSvc := service.NewViolationService(database, uow, locker, service.ViolationOptions{
		LockTTL: cfg.ScanLockTTL,
		Logger:  logger,
	}, observers...)
	terminationSvc := service.NewTerminationService(uow, observers...)

	app := &cli.App{
		Activity:     service.NewActivityService(database, uow, observers...),
		Metrics:      metricsSvc,
		Violations:   violationSvc,
		Terminations: terminationSvc,
		Narrator:     narrator,
		JWTSecret:    cfg.JWTSecret,
	}

	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	app.Serve = func(ctx context.Context) error {
		if err := cfg.RequireServerSecrets(); err != nil {
			return err
		}
		router := httpapi.NewRouter(httpapi.Services{
			Metrics:      metricsSvc,
			Violations:   violationSvc,
			Terminations: terminationSvc,
		}, httpapi.Options{
			JWTSecret:  cfg.JWTSecret,
			CronSecret: cfg.CronSecret,
			Logger:     logger,
		})
		return serveHTTP(ctx, logger, cfg.HTTPAddr, router)
	}

	return cli.NewRootCmd(app).ExecuteContext(ctx)
}

// serveHTTP runs srv until ctx is cancelled, then drains in-flight requests.
func serveHTTP(ctx context.Context, logger *slog.Logger, addr string, h http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
