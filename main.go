package main

import (
	"context"
	"errors"
	"fmt"
	"log" // Use standard log only before the logger is set up
	"os"
	"os/signal"
	"syscall"
	"time"

	"tradeJournal/config"
	"tradeJournal/internal/adapters/logger"
	"tradeJournal/internal/adapters/memory"
	"tradeJournal/internal/adapters/sqlite"
	"tradeJournal/internal/adapters/tracing"
	"tradeJournal/internal/analytics"
	"tradeJournal/internal/app"
	"tradeJournal/internal/cli"
	"tradeJournal/internal/ports"
)

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	journal := cli.New(bootstrap, os.Stdin, os.Stdout)
	if err := journal.Execute(ctx, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

// bootstrap wires config, logging, tracing, storage, engine and service.
func bootstrap(ctx context.Context, configPath string) (*cli.Deps, error) {
	// 1. Load Configuration
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	// 2. Initialize Logger
	appLogger, err := logger.New(cfg.LogFormat, cfg.LogLevel)
	if err != nil {
		log.Printf("failed to initialize %s logger: %v", cfg.LogFormat, err)
		return nil, err
	}
	appLogger.Debug(ctx, "Logger initialized", ports.Fields{"level": cfg.LogLevel.String(), "format": cfg.LogFormat})

	// 3. Initialize Tracing
	provider, err := tracing.Init(tracing.Config{Enabled: cfg.TracingEnabled, Version: version})
	if err != nil {
		appLogger.Error(ctx, err, "Failed to initialize tracing")
		return nil, err
	}

	// 4. Initialize Repository (Database Adapter)
	store, err := openStore(cfg, appLogger)
	if err != nil {
		appLogger.Error(ctx, err, "Failed to initialize journal store", ports.Fields{"driver": cfg.DBDriver})
		_ = provider.Shutdown(ctx)
		return nil, err
	}
	appLogger.Debug(ctx, "Journal store initialized", ports.Fields{"driver": cfg.DBDriver})

	// 5. Initialize Application Service
	engine := analytics.NewEngine(cfg.AnalyticsConfig())
	svc, err := app.NewJournalService(appLogger, store, store, store, engine, app.Options{
		DefaultListLimit: cfg.DefaultListLimit,
	})
	if err != nil {
		_ = store.Close()
		_ = provider.Shutdown(ctx)
		return nil, err
	}

	// 6. Demo data for the memory driver
	if cfg.DBDriver == config.DriverMemory {
		for _, f := range memory.NewGenerator(cfg.Seed).Accounts(time.Now()) {
			if err := svc.SeedAccount(ctx, f.Account, f.Trades, f.Annotations); err != nil {
				_ = store.Close()
				_ = provider.Shutdown(ctx)
				return nil, fmt.Errorf("seed memory store: %w", err)
			}
		}
	}

	closeAll := func() error {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var errs []error
		if err := store.Close(); err != nil {
			appLogger.Error(shutdownCtx, err, "Error closing journal store")
			errs = append(errs, err)
		}
		if err := provider.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, err)
		}
		if zl, ok := appLogger.(*logger.ZapLogger); ok {
			_ = zl.Sync()
		}
		return errors.Join(errs...)
	}

	return &cli.Deps{
		Service:  svc,
		Seed:     cfg.Seed,
		Now:      time.Now,
		Location: cfg.ReportLocation,
		Close:    closeAll,
	}, nil
}

func openStore(cfg *config.Config, appLogger ports.Logger) (ports.JournalStore, error) {
	if cfg.DBDriver == config.DriverMemory {
		return memory.NewRepository(appLogger), nil
	}
	repo, err := sqlite.NewRepository(sqlite.Config{
		DBPath: cfg.DBPath,
		Logger: appLogger,
	})
	if err != nil {
		return nil, err
	}
	return repo, nil
}
