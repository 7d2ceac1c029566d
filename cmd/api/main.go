package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.temporal.io/sdk/client"
	tlog "go.temporal.io/sdk/log"

	"github.com/samirrijal/stopsequencer/internal/adapters/http"
	natsadapter "github.com/samirrijal/stopsequencer/internal/adapters/nats"
	temporaladapter "github.com/samirrijal/stopsequencer/internal/adapters/temporal"
	"github.com/samirrijal/stopsequencer/internal/app"
	"github.com/samirrijal/stopsequencer/internal/core/usecases"
	"github.com/samirrijal/stopsequencer/internal/pkg/config"
	"github.com/samirrijal/stopsequencer/internal/pkg/logging"
	"github.com/samirrijal/stopsequencer/internal/pkg/telemetry"
)

func main() {
	cfg, err := config.Load("stopsequencer-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// Structured logging
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	logging.Setup(logLevel, "json", cfg.Telemetry.ServiceName)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.OTLPAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	// Database, cache and event stream
	backends, err := app.Connect(ctx, cfg)
	if err != nil {
		log.Fatalf("backends: %v", err)
	}
	defer backends.Close()
	go backends.WatchPool(ctx, 15*time.Second)

	// Raw NATS connection for WebSocket relay
	var deps http.Dependencies
	if cfg.NATS.Enabled {
		natsConn, err := natsadapter.RawConn(cfg.NATS.URL)
		if err != nil {
			slog.Warn("nats ws conn unavailable", "error", err)
		} else {
			defer natsConn.Close()
			deps.NATS = natsConn
		}
	}

	// Async jobs
	if cfg.Temporal.Enabled {
		tc, err := client.Dial(client.Options{
			HostPort:  cfg.Temporal.HostPort,
			Namespace: cfg.Temporal.Namespace,
			Logger:    tlog.NewStructuredLogger(slog.Default()),
		})
		if err != nil {
			slog.Warn("temporal unavailable, async jobs disabled", "error", err)
		} else {
			defer tc.Close()
			deps.Temporal = tc
			deps.Jobs = temporaladapter.NewJobRunner(tc, cfg.Temporal.TaskQueue, cfg.Server.OptimizeTimeout)
		}
	}

	// Use cases
	optimizeSvc, err := app.NewOptimizeService(cfg, backends)
	if err != nil {
		log.Fatalf("pipeline: %v", err)
	}

	deps.Optimizer = optimizeSvc
	deps.Runs = usecases.NewRunService(backends.RunRepository())
	deps.DB = backends.DB
	deps.Cache = backends.Cache
	deps.OptimizeTimeout = time.Duration(cfg.Server.OptimizeTimeout) * time.Second

	// Fiber
	server := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    1024 * 1024, // 1 MB max request body
		AppName:      "Stop Sequencer API",
	})
	server.Use(recover.New())
	server.Use(logger.New())
	server.Use(cors.New(cors.Config{
		AllowOrigins:     "http://localhost:3000, http://localhost:5173",
		AllowMethods:     "GET,POST,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: false,
		MaxAge:           3600,
	}))

	http.SetupRoutes(server, &deps)

	// Graceful shutdown
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting", "addr", addr,
			"matrix", cfg.Matrix.Provider, "solver", cfg.Solver.Mode, "geometry", cfg.Geometry.Provider)
		if err := server.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections...", "signal", sig.String())

	// In-flight optimize calls may run up to the optimize timeout.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), deps.OptimizeTimeout+5*time.Second)
	defer shutdownCancel()

	if err := server.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("server stopped")
}
