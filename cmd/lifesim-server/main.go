// Package main is the entry point for the Life Simulator demo server.
// It only handles dependency injection and server initialization.
// NO business logic belongs here.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MRamiBalles/LifeSimulator/internal/backend"
	"github.com/MRamiBalles/LifeSimulator/internal/engine"
	"github.com/MRamiBalles/LifeSimulator/internal/gateway"
	"github.com/MRamiBalles/LifeSimulator/internal/infra/storage"
	"github.com/MRamiBalles/LifeSimulator/internal/network"
	"github.com/MRamiBalles/LifeSimulator/internal/platform/config"
	"github.com/MRamiBalles/LifeSimulator/internal/platform/logger"
	"github.com/MRamiBalles/LifeSimulator/internal/platform/metrics"
	"github.com/MRamiBalles/LifeSimulator/internal/platform/optimization"
)

func main() {
	remote := flag.Bool("remote", false, "Drive the remote simulation service when signed in")
	flag.Parse()

	if err := run(*remote); err != nil {
		fmt.Fprintf(os.Stderr, "lifesim-server: %v\n", err)
		os.Exit(1)
	}
}

func run(remote bool) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	appLogger := logger.New(os.Stderr, cfg.LogLevel)
	appLogger.Info("Initializing Life Simulator demo server", "addr", cfg.Addr, "profile", cfg.Profile)

	tuning, err := optimization.ForName(cfg.Profile)
	if err != nil {
		return err
	}
	collector := metrics.Get()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	appLogger.Info("Opening journal", "backend", cfg.Journal)
	repo, err := openJournal(ctx, cfg, tuning)
	if err != nil {
		return err
	}

	opts := engine.Options{Logger: appLogger, Metrics: collector}
	if cfg.Seed != 0 {
		opts.Random = engine.SeededRandom(cfg.Seed)
	}
	apiOpts := network.APIOptions{
		Origins: network.Origins(cfg.CORSOrigins),
		Logger:  appLogger,
		Metrics: collector,
	}
	if repo != nil {
		defer repo.Close(context.Background())
		journal := storage.NewSessionJournal(repo)
		opts.Persister = journal
		apiOpts.Recapper = storage.NewRecapper(repo)
		apiOpts.SessionID = journal.SessionID()
		appLogger.Info("Journal session started", "session_id", journal.SessionID())
	}

	appLogger.Info("Bootstrapping Engine...")
	demo := engine.NewEngine(opts)
	var driver gateway.Driver = gateway.NewLocalDriver(demo)
	if remote {
		client := backend.NewClient(cfg.BackendURL, backend.WithMetrics(collector))
		driver, err = gateway.Select(ctx, client, demo, appLogger)
		if err != nil {
			appLogger.Warn("remote mode unavailable", "err", err)
		}
	}

	appLogger.Info("Bootstrapping WebSocket Hub...", "mode", driver.Mode())
	hub := network.NewHub(driver, network.HubOptions{Tuning: tuning, Logger: appLogger, Metrics: collector})
	go hub.Run(ctx)
	go network.NewTicker(hub, cfg.Autoplay, appLogger).Start(ctx)

	api := network.NewDemoAPI(hub, apiOpts)
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.Routes(ctx),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		appLogger.Info("HTTP API & WS Server listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
	}

	appLogger.Info("Shutting down...")
	shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
	defer done()
	return srv.Shutdown(shutdownCtx)
}

// openJournal returns nil when the journal is disabled.
func openJournal(ctx context.Context, cfg config.Config, tuning *optimization.Config) (storage.JournalRepository, error) {
	switch cfg.Journal {
	case config.JournalNone:
		return nil, nil
	case config.JournalMongo:
		return storage.ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDB)
	default:
		db, err := storage.InitSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite: %w", err)
		}
		if cfg.SQLitePath != storage.MemoryDSN {
			db.SetMaxOpenConns(tuning.DBMaxOpenConns)
			db.SetMaxIdleConns(tuning.DBMaxIdleConns)
		}
		return storage.NewSQLiteJournalRepository(db), nil
	}
}
