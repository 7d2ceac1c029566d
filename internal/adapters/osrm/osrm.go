// Package osrm talks to an OSRM server: the table service for travel-time
// matrices and the route service for path geometry.
package osrm

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/samirrijal/stopsequencer/internal/adapters/upstream"
	"github.com/samirrijal/stopsequencer/internal/core/domain"
	"github.com/samirrijal/stopsequencer/internal/pkg/polyline"
)

const name = "osrm"

type tableResponse struct {
	Code      string       `json:"code"`
	Message   string       `json:"message"`
	Durations [][]*float64 `json:"durations"`
}

type routeResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Routes  []struct {
		Geometry string `json:"geometry"`
	} `json:"routes"`
}

// MatrixProvider implements ports.MatrixProvider with /table/v1.
type MatrixProvider struct {
	baseURL string
	profile string
	client  *upstream.Client
}

// NewMatrixProvider returns a provider for baseURL (no trailing path).
func NewMatrixProvider(baseURL, profile string, timeout time.Duration) *MatrixProvider {
	return newMatrixProvider(baseURL, profile, upstream.New(domain.UpstreamMatrix, timeout))
}

func newMatrixProvider(baseURL, profile string, c *upstream.Client) *MatrixProvider {
	return &MatrixProvider{baseURL: strings.TrimRight(baseURL, "/"), profile: profile, client: c}
}

func (p *MatrixProvider) Name() string { return name }

// Durations requests the full N×N duration table in one call.
func (p *MatrixProvider) Durations(ctx context.Context, points []domain.GeoPoint) ([]domain.MatrixEntry, error) {
	endpoint := fmt.Sprintf("%s/table/v1/%s/%s?annotations=duration", p.baseURL, p.profile, coordinates(points))
	req, err := upstream.NewJSONRequest(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	var resp tableResponse
	if err := p.client.DoJSON(req, &resp); err != nil {
		return nil, err
	}
	if resp.Code != "Ok" {
		return nil, domain.Unavailable(domain.UpstreamMatrix, codeMessage(resp.Code, resp.Message), nil)
	}
	return upstream.EntriesFromRows(resp.Durations), nil
}

// GeometryProvider implements ports.GeometryProvider with /route/v1.
type GeometryProvider struct {
	baseURL string
	profile string
	client  *upstream.Client
}

// NewGeometryProvider returns a provider for baseURL.
func NewGeometryProvider(baseURL, profile string, timeout time.Duration) *GeometryProvider {
	return newGeometryProvider(baseURL, profile, upstream.New(domain.UpstreamGeometry, timeout))
}

func newGeometryProvider(baseURL, profile string, c *upstream.Client) *GeometryProvider {
	return &GeometryProvider{baseURL: strings.TrimRight(baseURL, "/"), profile: profile, client: c}
}

func (p *GeometryProvider) Name() string { return name }

// Route returns the full-overview geometry as a precision-6 polyline.
func (p *GeometryProvider) Route(ctx context.Context, points []domain.GeoPoint) (*domain.RawGeometry, error) {
	q := url.Values{}
	q.Set("overview", "full")
	q.Set("geometries", "polyline6")
	endpoint := fmt.Sprintf("%s/route/v1/%s/%s?%s", p.baseURL, p.profile, coordinates(points), q.Encode())

	req, err := upstream.NewJSONRequest(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	var resp routeResponse
	if err := p.client.DoJSON(req, &resp); err != nil {
		return nil, err
	}
	if resp.Code != "Ok" {
		return nil, domain.Unavailable(domain.UpstreamGeometry, codeMessage(resp.Code, resp.Message), nil)
	}
	if len(resp.Routes) == 0 || resp.Routes[0].Geometry == "" {
		return nil, domain.Unavailable(domain.UpstreamGeometry, "no route returned", nil)
	}
	return &domain.RawGeometry{Encoded: resp.Routes[0].Geometry, Precision: polyline.Precision6}, nil
}

// coordinates renders points in OSRM's lng,lat;lng,lat form.
func coordinates(points []domain.GeoPoint) string {
	parts := make([]string, len(points))
	for i, p := range points {
		parts[i] = fmt.Sprintf("%.6f,%.6f", p.Lng, p.Lat)
	}
	return strings.Join(parts, ";")
}

func codeMessage(code, msg string) string {
	if msg == "" {
		return "code " + code
	}
	return fmt.Sprintf("code %s: %s", code, msg)
}
