// Package graphhopper fetches route geometry from the GraphHopper Routing API.
package graphhopper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/samirrijal/stopsequencer/internal/adapters/upstream"
	"github.com/samirrijal/stopsequencer/internal/core/domain"
)

type routeResponse struct {
	Message string `json:"message"`
	Paths   []struct {
		Points                  json.RawMessage `json:"points"`
		PointsEncoded           *bool           `json:"points_encoded"`
		PointsEncodedMultiplier float64         `json:"points_encoded_multiplier"`
	} `json:"paths"`
}

// GeometryProvider implements ports.GeometryProvider with /api/1/route.
type GeometryProvider struct {
	baseURL string
	apiKey  string
	profile string
	client  *upstream.Client
}

func NewGeometryProvider(baseURL, apiKey, profile string, timeout time.Duration) *GeometryProvider {
	return newGeometryProvider(baseURL, apiKey, profile, upstream.New(domain.UpstreamGeometry, timeout))
}

func newGeometryProvider(baseURL, apiKey, profile string, c *upstream.Client) *GeometryProvider {
	if profile == "" || profile == "driving" {
		profile = "car"
	}
	return &GeometryProvider{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		profile: profile,
		client:  c,
	}
}

func (p *GeometryProvider) Name() string { return "graphhopper" }

// Route asks for the path through points in order. GraphHopper answers
// either an encoded polyline or GeoJSON, depending on deployment.
func (p *GeometryProvider) Route(ctx context.Context, points []domain.GeoPoint) (*domain.RawGeometry, error) {
	q := url.Values{}
	for _, pt := range points {
		q.Add("point", fmt.Sprintf("%.6f,%.6f", pt.Lat, pt.Lng))
	}
	q.Set("profile", p.profile)
	q.Set("points_encoded", "true")
	q.Set("instructions", "false")
	if p.apiKey != "" {
		q.Set("key", p.apiKey)
	}

	req, err := upstream.NewJSONRequest(ctx, http.MethodGet, p.baseURL+"/api/1/route?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	var resp routeResponse
	if err := p.client.DoJSON(req, &resp); err != nil {
		return nil, err
	}
	if len(resp.Paths) == 0 {
		msg := "no path returned"
		if resp.Message != "" {
			msg += ": " + resp.Message
		}
		return nil, domain.Unavailable(domain.UpstreamGeometry, msg, nil)
	}

	path := resp.Paths[0]
	return decodePoints(path.Points, multiplierPrecision(path.PointsEncodedMultiplier)), nil
}

// multiplierPrecision turns points_encoded_multiplier (1e5, 1e6) into a
// decimal exponent; 0 when absent so the assembler probes both.
func multiplierPrecision(m float64) int {
	if m <= 1 {
		return 0
	}
	return int(math.Round(math.Log10(m)))
}

// decodePoints accepts an encoded string, a [[lng,lat],...] array, or an
// object nesting either under coordinates, points or geometry.
func decodePoints(raw json.RawMessage, precision int) *domain.RawGeometry {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return &domain.RawGeometry{}
	}

	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return &domain.RawGeometry{}
		}
		return &domain.RawGeometry{Encoded: s, Precision: precision}
	case '[':
		return &domain.RawGeometry{Coordinates: coordinateArray(raw)}
	case '{':
		var obj struct {
			Coordinates json.RawMessage `json:"coordinates"`
			Points      json.RawMessage `json:"points"`
			Geometry    json.RawMessage `json:"geometry"`
		}
		if err := json.Unmarshal(raw, &obj); err != nil {
			return &domain.RawGeometry{}
		}
		for _, cand := range []json.RawMessage{obj.Coordinates, obj.Points, obj.Geometry} {
			g := decodePoints(cand, precision)
			if g.Encoded != "" || len(g.Coordinates) >= 2 {
				return g
			}
		}
	}
	return &domain.RawGeometry{}
}

// coordinateArray reads GeoJSON positions, skipping malformed ones.
func coordinateArray(raw json.RawMessage) []domain.GeoPoint {
	var positions []json.RawMessage
	if err := json.Unmarshal(raw, &positions); err != nil {
		return nil
	}
	out := make([]domain.GeoPoint, 0, len(positions))
	for _, pos := range positions {
		var c []float64
		if err := json.Unmarshal(pos, &c); err != nil || len(c) < 2 {
			continue
		}
		out = append(out, domain.GeoPoint{Lat: c[1], Lng: c[0]})
	}
	return out
}
