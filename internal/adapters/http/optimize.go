package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/stopsequencer/internal/core/domain"
)

// parseOptimize decodes and converts an optimize body.
func parseOptimize(c *fiber.Ctx) (*domain.OptimizeRequest, error) {
	var body optimizeRequest
	if err := c.BodyParser(&body); err != nil {
		return nil, domain.Validationf("invalid JSON body: %v", err)
	}
	return body.toDomain()
}

// OptimizeHandler sequences the submitted stops and returns the route plan.
//
// POST /v1/optimize
func OptimizeHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		req, err := parseOptimize(c)
		if err != nil {
			return errFromDomain(c, err)
		}

		plan, err := deps.Optimizer.Optimize(c.UserContext(), req)
		if err != nil {
			return errFromDomain(c, err)
		}
		return c.JSON(plan)
	}
}

// LegacyOptimizeHandler serves the pre-v1 path. The response additionally
// carries routeLine, the old name of geometry.
//
// POST /api/optimize
func LegacyOptimizeHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		req, err := parseOptimize(c)
		if err != nil {
			return errFromDomain(c, err)
		}

		plan, err := deps.Optimizer.Optimize(c.UserContext(), req)
		if err != nil {
			return errFromDomain(c, err)
		}
		return c.JSON(legacyPlan{RoutePlan: plan, RouteLine: plan.Geometry})
	}
}
