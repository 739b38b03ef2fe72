package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/shopspring/decimal"

	"github.com/nmoreau/bankwatch/internal/config"
	"github.com/nmoreau/bankwatch/internal/logging"
	"github.com/nmoreau/bankwatch/internal/server"
	"github.com/nmoreau/bankwatch/internal/service"
	"github.com/nmoreau/bankwatch/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Logging)

	rules, err := config.LoadRules(cfg.Data.RulesPath)
	if err != nil {
		logger.Error("failed to load fraud rules", "error", err)
		os.Exit(1)
	}

	// A load failure is fatal: the process never starts serving over a
	// missing or malformed dataset.
	logger.Info("loading dataset", "path", cfg.Data.CSVPath)
	dataset, err := store.Load(cfg.Data.CSVPath)
	if err != nil {
		logger.Error("failed to load dataset", "error", err)
		os.Exit(1)
	}
	ledger := store.NewLedger()
	logger.Info("dataset loaded", "transactions", dataset.Len())

	fraudRules := service.FraudRules{
		AmountPercentile:   rules.AmountPercentile,
		HighPercentile:     rules.HighPercentile,
		SuspiciousTypes:    rules.SuspiciousTypes,
		LargeAmount:        decimal.NewFromFloat(rules.LargeAmount),
		MaxClientFrequency: rules.MaxClientTransactions,
		MaxPairFrequency:   rules.MaxPairTransactions,
	}

	apiHandlers := server.NewAPIHandlers(
		logger,
		service.NewTransactionService(dataset, ledger),
		service.NewStatsService(dataset, ledger, rules.AmountBuckets()),
		service.NewCustomerService(dataset, ledger),
		service.NewFraudService(dataset, ledger, fraudRules),
		service.NewSystemService(dataset, ledger, cfg.Data.Version, cfg.Data.Environment),
	)

	router := server.NewRouter(logger, server.RouterDependencies{
		API:              apiHandlers,
		AllowedOrigins:   parseAllowedOrigins(cfg.HTTP.AllowedOriginsCSV),
		AllowCredentials: true,
	})

	srv := server.New(logger, cfg.HTTP, router)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("received shutdown signal", "signal", sig.String())
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("server stopped unexpectedly", "error", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}

func parseAllowedOrigins(csv string) []string {
	if csv == "" {
		return nil
	}
	parts := strings.Split(csv, ",")
	var origins []string
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin == "" {
			continue
		}
		origins = append(origins, origin)
	}
	return origins
}
