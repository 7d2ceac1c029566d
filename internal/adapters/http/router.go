package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/timeout"
	"github.com/gofiber/websocket/v2"

	"github.com/samirrijal/stopsequencer/internal/pkg/metrics"
)

// readTimeout bounds the history and job-status lookups.
const readTimeout = 15 * time.Second

// SetupRoutes registers all REST, GraphQL, and WebSocket routes.
func SetupRoutes(app *fiber.App, deps *Dependencies) {
	// Prometheus metrics
	app.Use(metrics.Middleware())
	app.Get("/metrics", metrics.Handler())

	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	app.Use(requestid.New())

	// Propagate request ID and logger into the user context
	app.Use(RequestIDLogMiddleware())

	app.Use(AccessLogMiddleware())

	// Rate limiting: 120 requests per minute per IP
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return newError(c, fiber.StatusTooManyRequests, "rate_limited", "too many requests, please try again later")
		},
	}))

	// Security headers + API version
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Set("X-API-Version", "1.0.0")
		return c.Next()
	})

	app.Use(ETagMiddleware())
	app.Use(CachingMiddleware())

	// Health & readiness (no timeout, fast internal checks)
	app.Get("/v1/health", HealthHandler(deps))
	app.Get("/v1/ready", ReadyHandler(deps))

	optimizeTimeout := deps.optimizeTimeout()

	v1 := app.Group("/v1")
	v1.Post("/optimize", timeout.NewWithContext(OptimizeHandler(deps), optimizeTimeout))
	v1.Post("/optimize/jobs", timeout.NewWithContext(SubmitJobHandler(deps), readTimeout))
	// A waiting poll may take as long as a synchronous run.
	v1.Get("/optimize/jobs/:id", timeout.NewWithContext(GetJobHandler(deps), optimizeTimeout))
	v1.Get("/optimizations", timeout.NewWithContext(ListRunsHandler(deps), readTimeout))
	v1.Get("/optimizations/:id", timeout.NewWithContext(GetRunHandler(deps), readTimeout))

	// Pre-v1 clients
	legacy := app.Group("/api", DeprecationMiddleware(legacyRoutes))
	legacy.Post("/optimize", timeout.NewWithContext(LegacyOptimizeHandler(deps), optimizeTimeout))

	app.Post("/graphql", timeout.NewWithContext(GraphQLHandler(deps), optimizeTimeout))

	SetupDocs(app, deps.SpecPath)

	if deps.NATS != nil {
		app.Use("/ws", func(c *fiber.Ctx) error {
			if websocket.IsWebSocketUpgrade(c) {
				return c.Next()
			}
			return fiber.ErrUpgradeRequired
		})
		app.Get("/ws", websocket.New(WebSocketHandler(deps.NATS)))
	}
}
