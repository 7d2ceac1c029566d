// Package app builds the optimize pipeline and its optional backends from
// configuration. Both the API server and the job worker start from here.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/samirrijal/stopsequencer/internal/adapters/graphhopper"
	"github.com/samirrijal/stopsequencer/internal/adapters/haversine"
	natsadapter "github.com/samirrijal/stopsequencer/internal/adapters/nats"
	"github.com/samirrijal/stopsequencer/internal/adapters/ors"
	"github.com/samirrijal/stopsequencer/internal/adapters/osrm"
	"github.com/samirrijal/stopsequencer/internal/adapters/postgres"
	"github.com/samirrijal/stopsequencer/internal/adapters/solver"
	"github.com/samirrijal/stopsequencer/internal/adapters/valkey"
	"github.com/samirrijal/stopsequencer/internal/core/pipeline"
	"github.com/samirrijal/stopsequencer/internal/core/ports"
	"github.com/samirrijal/stopsequencer/internal/core/usecases"
	"github.com/samirrijal/stopsequencer/internal/pkg/config"
	"github.com/samirrijal/stopsequencer/internal/pkg/metrics"
)

// Backends holds the optional infrastructure. A nil field means the backend
// is disabled or could not be reached at startup.
type Backends struct {
	DB     *postgres.DB
	Cache  *valkey.Cache
	Events *natsadapter.Publisher
}

// Connect opens every enabled backend. Only the database is fatal: history
// that was asked for must not silently disappear.
func Connect(ctx context.Context, cfg *config.Config) (*Backends, error) {
	b := &Backends{}

	if cfg.Database.Enabled {
		db, err := postgres.New(ctx, cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("database: %w", err)
		}
		b.DB = db
	}

	if cfg.Valkey.Enabled {
		cache, err := valkey.New(cfg.Valkey.Addr)
		if err != nil {
			slog.Warn("valkey unavailable, matrix cache disabled", "error", err)
		} else {
			b.Cache = cache
		}
	}

	if cfg.NATS.Enabled {
		pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
		if err != nil {
			slog.Warn("nats unavailable, events disabled", "error", err)
		} else {
			b.Events = pub
		}
	}

	return b, nil
}

// Close releases whatever Connect opened.
func (b *Backends) Close() {
	if b.Events != nil {
		b.Events.Close()
	}
	if b.Cache != nil {
		b.Cache.Close()
	}
	if b.DB != nil {
		b.DB.Close()
	}
}

// RunRepository returns the audit log store, or nil without a database.
func (b *Backends) RunRepository() ports.RunRepository {
	if b.DB == nil {
		return nil
	}
	return postgres.NewRunRepo(b.DB)
}

// EventPublisher returns the broker publisher, or nil without NATS.
func (b *Backends) EventPublisher() ports.EventPublisher {
	if b.Events == nil {
		return nil
	}
	return b.Events
}

// CacheService returns the shared cache, or nil without Valkey.
func (b *Backends) CacheService() ports.CacheService {
	if b.Cache == nil {
		return nil
	}
	return b.Cache
}

// WatchPool refreshes the connection pool gauges until ctx is done.
func (b *Backends) WatchPool(ctx context.Context, every time.Duration) {
	if b.DB == nil {
		return
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			metrics.UpdateDBPoolMetrics(b.DB.Pool.Stat())
		}
	}
}

// NewPipeline selects the matrix, solver and geometry adapters named in cfg.
func NewPipeline(cfg *config.Config, cache ports.CacheService) (*pipeline.Pipeline, error) {
	matrix, err := newMatrix(cfg.Matrix)
	if err != nil {
		return nil, err
	}
	client, err := newSolver(cfg.Solver)
	if err != nil {
		return nil, err
	}
	geometry, err := newGeometry(cfg.Geometry)
	if err != nil {
		return nil, err
	}

	return &pipeline.Pipeline{
		Matrix: usecases.NewCachedMatrix(usecases.InstrumentedMatrix{MatrixProvider: matrix}, cache, cfg.Matrix.CacheTTL),
		Solver: pipeline.SolverInvoker{
			Client:  usecases.InstrumentedSolver{SolverClient: client, Provider: cfg.Solver.Mode},
			Timeout: time.Duration(cfg.Solver.Timeout) * time.Second,
		},
		Geometry: pipeline.GeometryAssembler{
			Provider: geometry,
			Timeout:  time.Duration(cfg.Geometry.Timeout) * time.Second,
		},
	}, nil
}

// NewOptimizeService wires the pipeline to the audit log and event stream.
func NewOptimizeService(cfg *config.Config, b *Backends) (*usecases.OptimizeService, error) {
	p, err := NewPipeline(cfg, b.CacheService())
	if err != nil {
		return nil, err
	}
	return usecases.NewOptimizeService(p, b.RunRepository(), b.EventPublisher()), nil
}

func newMatrix(cfg config.MatrixConfig) (ports.MatrixProvider, error) {
	timeout := time.Duration(cfg.Timeout) * time.Second
	switch cfg.Provider {
	case config.MatrixOSRM:
		return osrm.NewMatrixProvider(cfg.BaseURL, cfg.Profile, timeout), nil
	case config.MatrixORS:
		return ors.NewMatrixProvider(cfg.BaseURL, cfg.APIKey, cfg.Profile, timeout), nil
	case config.MatrixHaversine:
		return haversine.NewMatrixProvider(float64(cfg.SpeedKmh)), nil
	}
	return nil, fmt.Errorf("unknown matrix provider %q", cfg.Provider)
}

func newSolver(cfg config.SolverConfig) (ports.SolverClient, error) {
	switch cfg.Mode {
	case config.SolverHTTP:
		return solver.NewHTTPClient(cfg.URL, time.Duration(cfg.Timeout)*time.Second), nil
	case config.SolverSubprocess:
		return solver.NewSubprocessClient(cfg.Command, cfg.Args...), nil
	}
	return nil, fmt.Errorf("unknown solver mode %q", cfg.Mode)
}

func newGeometry(cfg config.GeometryConfig) (ports.GeometryProvider, error) {
	timeout := time.Duration(cfg.Timeout) * time.Second
	var p ports.GeometryProvider
	switch cfg.Provider {
	case config.GeometryOSRM:
		p = osrm.NewGeometryProvider(cfg.BaseURL, cfg.Profile, timeout)
	case config.GeometryGraphHopper:
		p = graphhopper.NewGeometryProvider(cfg.BaseURL, cfg.APIKey, cfg.Profile, timeout)
	case config.GeometryNone:
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown geometry provider %q", cfg.Provider)
	}
	return usecases.InstrumentedGeometry{GeometryProvider: p}, nil
}
