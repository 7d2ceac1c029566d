package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/samirrijal/stopsequencer/internal/core/domain"
)

// ListRunsHandler returns the optimization history, newest first.
//
// GET /v1/optimizations?offset=0&limit=20
func ListRunsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		offset := c.QueryInt("offset", 0)
		limit := c.QueryInt("limit", 20)
		if offset < 0 {
			offset = 0
		}
		if limit <= 0 || limit > 100 {
			limit = 20
		}

		runs, total, err := deps.Runs.List(c.UserContext(), offset, limit)
		if err != nil {
			return errFromDomain(c, err)
		}

		pg := Pagination{Offset: offset, Limit: limit, Total: total}
		SetLinkHeaders(c, pg)
		return c.JSON(PaginatedResponse[domain.OptimizationRun]{Data: runs, Pagination: pg})
	}
}

// GetRunHandler returns one recorded run.
//
// GET /v1/optimizations/:id
func GetRunHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return errBadRequest(c, "id must be a UUID")
		}

		run, err := deps.Runs.Get(c.UserContext(), id)
		if err != nil {
			return errFromDomain(c, err)
		}
		return c.JSON(run)
	}
}
