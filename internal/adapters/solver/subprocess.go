package solver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"github.com/samirrijal/stopsequencer/internal/adapters/upstream"
	"github.com/samirrijal/stopsequencer/internal/core/domain"
)

// waitDelay bounds how long a killed solver may hold its pipes open.
const waitDelay = 2 * time.Second

// SubprocessClient runs one solver process per request, writing the request
// to stdin and reading the response from stdout.
type SubprocessClient struct {
	command string
	args    []string
}

func NewSubprocessClient(command string, args ...string) *SubprocessClient {
	return &SubprocessClient{command: command, args: args}
}

// Solve implements ports.SolverClient. The process is killed when ctx ends.
func (c *SubprocessClient) Solve(ctx context.Context, req *domain.SolveRequest) (*domain.Solution, error) {
	input, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal solve request: %w", err)
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, c.command, c.args...)
	cmd.Stdin = bytes.NewReader(input)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = waitDelay

	if err := cmd.Run(); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, domain.UpstreamTimeout(domain.UpstreamSolver, err)
		}
		msg := "solver process failed"
		if s := upstream.Snippet(stderr.Bytes()); s != "" {
			msg += ": " + s
		}
		return nil, domain.Unavailable(domain.UpstreamSolver, msg, err)
	}
	return decodeResponse(stdout.Bytes())
}
