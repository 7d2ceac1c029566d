package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"go.temporal.io/sdk/client"
	tlog "go.temporal.io/sdk/log"
	"go.temporal.io/sdk/worker"

	"github.com/samirrijal/stopsequencer/internal/app"
	"github.com/samirrijal/stopsequencer/internal/pkg/config"
	"github.com/samirrijal/stopsequencer/internal/pkg/logging"
	"github.com/samirrijal/stopsequencer/internal/pkg/telemetry"
	"github.com/samirrijal/stopsequencer/internal/workflows"
)

func main() {
	cfg, err := config.Load("stopsequencer-worker")
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	logging.Setup(logLevel, "json", cfg.Telemetry.ServiceName)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.OTLPAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	backends, err := app.Connect(ctx, cfg)
	if err != nil {
		log.Fatalf("backends: %v", err)
	}
	defer backends.Close()
	go backends.WatchPool(ctx, 15*time.Second)

	optimizeSvc, err := app.NewOptimizeService(cfg, backends)
	if err != nil {
		log.Fatalf("pipeline: %v", err)
	}

	// Connect to Temporal
	c, err := client.Dial(client.Options{
		HostPort:  cfg.Temporal.HostPort,
		Namespace: cfg.Temporal.Namespace,
		Logger:    tlog.NewStructuredLogger(slog.Default()),
	})
	if err != nil {
		log.Fatalf("temporal client: %v", err)
	}
	defer c.Close()

	w := worker.New(c, cfg.Temporal.TaskQueue, worker.Options{})

	// Register workflow & activities
	w.RegisterWorkflow(workflows.OptimizeWorkflow)
	w.RegisterActivity(&workflows.OptimizeActivities{Optimizer: optimizeSvc})

	slog.Info("optimize worker started", "task_queue", cfg.Temporal.TaskQueue,
		"matrix", cfg.Matrix.Provider, "solver", cfg.Solver.Mode)
	if err := w.Run(worker.InterruptCh()); err != nil {
		log.Fatalf("worker: %v", err)
	}
}
