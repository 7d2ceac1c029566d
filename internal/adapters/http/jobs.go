package http

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/stopsequencer/internal/core/domain"
	"github.com/samirrijal/stopsequencer/internal/core/pipeline"
)

// SubmitJobHandler validates the request and starts an asynchronous run.
//
// POST /v1/optimize/jobs
func SubmitJobHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if deps.Jobs == nil {
			return errUnavailable(c, "async jobs are not enabled")
		}
		req, err := parseOptimize(c)
		if err != nil {
			return errFromDomain(c, err)
		}
		// Reject bad input now instead of failing the job later.
		if _, err := pipeline.Normalize(req); err != nil {
			return errFromDomain(c, err)
		}

		job, err := deps.Jobs.Submit(c.UserContext(), req)
		if err != nil {
			return errInternal(c, err.Error())
		}
		c.Location("/v1/optimize/jobs/" + job.ID)
		return c.Status(fiber.StatusAccepted).JSON(jobResponse{JobID: job.ID, Status: job.Status})
	}
}

// GetJobHandler reports a job. With ?wait=true it blocks until the job
// finishes or the request times out. A failed job is answered with the
// status its error kind maps to.
//
// GET /v1/optimize/jobs/:id
func GetJobHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if deps.Jobs == nil {
			return errUnavailable(c, "async jobs are not enabled")
		}
		id := c.Params("id")
		wait := c.QueryBool("wait", false)

		job, err := deps.Jobs.Get(c.UserContext(), id, wait)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			return errNotFound(c, "job not found")
		case wait && errors.Is(err, context.DeadlineExceeded):
			return c.Status(fiber.StatusAccepted).JSON(jobResponse{JobID: id, Status: domain.JobRunning})
		case err != nil:
			return errInternal(c, err.Error())
		}

		resp := jobResponse{JobID: job.ID, Status: job.Status, Plan: job.Plan}
		if job.Status != domain.JobFailed || job.Err == nil {
			return c.JSON(resp)
		}

		status, code := statusOf(job.Err)
		reqID, _ := c.Locals("requestid").(string)
		resp.Error = &APIError{
			Status:    status,
			Code:      code,
			Message:   job.Err.Message,
			Upstream:  job.Err.Upstream,
			RequestID: reqID,
		}
		return c.Status(status).JSON(resp)
	}
}
