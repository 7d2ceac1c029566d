package http

import (
	"context"
	"time"

	"github.com/nats-io/nats.go"
	"go.temporal.io/sdk/client"

	"github.com/samirrijal/stopsequencer/internal/adapters/postgres"
	"github.com/samirrijal/stopsequencer/internal/adapters/valkey"
	"github.com/samirrijal/stopsequencer/internal/core/domain"
	"github.com/samirrijal/stopsequencer/internal/core/ports"
	"github.com/samirrijal/stopsequencer/internal/core/usecases"
)

// Optimizer is satisfied by usecases.OptimizeService.
type Optimizer interface {
	Optimize(ctx context.Context, req *domain.OptimizeRequest) (*domain.RoutePlan, error)
}

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	Optimizer Optimizer
	Runs      *usecases.RunService
	Jobs      ports.JobRunner // nil when temporal is disabled
	NATS      *nats.Conn
	DB        *postgres.DB
	Cache     *valkey.Cache
	Temporal  client.Client

	// SpecPath locates the OpenAPI document served at /docs. Empty means api/openapi.yaml.
	SpecPath string

	// OptimizeTimeout bounds a synchronous optimize request. Zero means 40s.
	OptimizeTimeout time.Duration
}

func (d *Dependencies) optimizeTimeout() time.Duration {
	if d.OptimizeTimeout <= 0 {
		return 40 * time.Second
	}
	return d.OptimizeTimeout
}
