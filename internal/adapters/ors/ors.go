// Package ors implements the travel-time matrix against the OpenRouteService
// /v2/matrix endpoint.
package ors

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/samirrijal/stopsequencer/internal/adapters/upstream"
	"github.com/samirrijal/stopsequencer/internal/core/domain"
)

type matrixRequest struct {
	Locations [][]float64 `json:"locations"`
	Metrics   []string    `json:"metrics"`
}

type matrixResponse struct {
	Durations [][]*float64 `json:"durations"`
}

// profileAliases maps OSRM-style profile names onto ORS ones.
var profileAliases = map[string]string{
	"":        "driving-car",
	"driving": "driving-car",
	"cycling": "cycling-regular",
	"walking": "foot-walking",
}

// MatrixProvider implements ports.MatrixProvider.
type MatrixProvider struct {
	baseURL string
	apiKey  string
	profile string
	client  *upstream.Client
}

func NewMatrixProvider(baseURL, apiKey, profile string, timeout time.Duration) *MatrixProvider {
	return newMatrixProvider(baseURL, apiKey, profile, upstream.New(domain.UpstreamMatrix, timeout))
}

func newMatrixProvider(baseURL, apiKey, profile string, c *upstream.Client) *MatrixProvider {
	if alias, ok := profileAliases[profile]; ok {
		profile = alias
	}
	return &MatrixProvider{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		profile: profile,
		client:  c,
	}
}

func (p *MatrixProvider) Name() string { return "ors" }

// Durations posts every location once; ORS answers with the full square table.
func (p *MatrixProvider) Durations(ctx context.Context, points []domain.GeoPoint) ([]domain.MatrixEntry, error) {
	locations := make([][]float64, len(points))
	for i, pt := range points {
		locations[i] = []float64{pt.Lng, pt.Lat}
	}

	endpoint := fmt.Sprintf("%s/v2/matrix/%s", p.baseURL, p.profile)
	req, err := upstream.NewJSONRequest(ctx, http.MethodPost, endpoint, matrixRequest{
		Locations: locations,
		Metrics:   []string{"duration"},
	})
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", p.apiKey)

	var resp matrixResponse
	if err := p.client.DoJSON(req, &resp); err != nil {
		return nil, err
	}
	return upstream.EntriesFromRows(resp.Durations), nil
}
