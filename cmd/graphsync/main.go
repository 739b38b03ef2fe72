package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nmoreau/bankwatch/internal/config"
	"github.com/nmoreau/bankwatch/internal/graph"
	"github.com/nmoreau/bankwatch/internal/logging"
	"github.com/nmoreau/bankwatch/internal/service"
	"github.com/nmoreau/bankwatch/internal/store"
)

func main() {
	var (
		workers   = flag.Int("workers", 4, "number of concurrent workers for graph writes")
		batchSize = flag.Int("batch-size", 500, "transactions per graph write")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Logging).With("component", "graphsync")

	dataset, err := store.Load(cfg.Data.CSVPath)
	if err != nil {
		logger.Error("failed to load dataset", "error", err, "path", cfg.Data.CSVPath)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if cfg.Graph.URI == "" {
		logger.Error("graph sync requires GRAPH_URI")
		os.Exit(1)
	}

	client, err := graph.NewNeo4jClient(ctx, graph.Options{
		URI:            cfg.Graph.URI,
		Database:       cfg.Graph.Database,
		Username:       cfg.Graph.Username,
		Password:       cfg.Graph.Password,
		MaxConnections: cfg.Graph.MaxConnections,
	})
	if err != nil {
		logger.Error("failed to create graph client", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := client.Close(context.Background()); err != nil {
			logger.Warn("closing graph client failed", "error", err)
		}
	}()

	exporter := service.NewGraphExporter(client, *workers, *batchSize)

	start := time.Now()
	logger.Info("exporting dataset to graph", "transactions", dataset.Len(), "workers", *workers)
	batchID, err := exporter.Export(ctx, dataset.All())
	if err != nil {
		logger.Error("graph export failed", "error", err, "batch_id", batchID)
		os.Exit(1)
	}
	logger.Info("graph export complete", "batch_id", batchID, "duration", time.Since(start).String())
}
