package solver

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/samirrijal/stopsequencer/internal/adapters/upstream"
	"github.com/samirrijal/stopsequencer/internal/core/domain"
)

// HTTPClient posts the solve request to a solver service.
type HTTPClient struct {
	url    string
	client *upstream.Client
}

func NewHTTPClient(url string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{url: url, client: upstream.New(domain.UpstreamSolver, timeout)}
}

func newHTTPClient(url string, c *upstream.Client) *HTTPClient {
	return &HTTPClient{url: url, client: c}
}

// Solve implements ports.SolverClient.
func (c *HTTPClient) Solve(ctx context.Context, req *domain.SolveRequest) (*domain.Solution, error) {
	httpReq, err := upstream.NewJSONRequest(ctx, http.MethodPost, c.url, req)
	if err != nil {
		return nil, err
	}

	status, body, err := c.client.Do(httpReq)
	if err != nil {
		return nil, err
	}

	// The service reports bad input as 400 with a tagged body.
	if status == http.StatusBadRequest {
		var r response
		if json.Unmarshal(body, &r) == nil && r.Error != "" {
			return decodeResponse(body)
		}
	}
	if err := upstream.StatusError(domain.UpstreamSolver, status, body); err != nil {
		return nil, err
	}
	return decodeResponse(body)
}
