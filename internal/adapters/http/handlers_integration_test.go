//go:build integration
// +build integration

package http_test

import (
	"context"
	"encoding/json"
	stdhttp "net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	handler "github.com/samirrijal/stopsequencer/internal/adapters/http"
	"github.com/samirrijal/stopsequencer/internal/adapters/haversine"
	"github.com/samirrijal/stopsequencer/internal/adapters/postgres"
	"github.com/samirrijal/stopsequencer/internal/adapters/solver"
	"github.com/samirrijal/stopsequencer/internal/core/domain"
	"github.com/samirrijal/stopsequencer/internal/core/pipeline"
	"github.com/samirrijal/stopsequencer/internal/core/usecases"
)

// setupTestDB connects to the database named by STOPSEQ_TEST_DSN. Migrations
// must already be applied.
func setupTestDB(t *testing.T) *postgres.DB {
	t.Helper()
	dsn := os.Getenv("STOPSEQ_TEST_DSN")
	if dsn == "" {
		t.Skip("STOPSEQ_TEST_DSN not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	db, err := postgres.Open(ctx, dsn, 0)
	require.NoError(t, err)
	t.Cleanup(db.Close)
	return db
}

// inOrderSolver answers every solve request by visiting nodes in index order.
func inOrderSolver(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		var req domain.SolveRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(400)
			return
		}
		n := len(req.TimeMatrix)
		nodes := make([]int, n)
		arrivals := make(map[string]int, n)
		for i := range nodes {
			nodes[i] = i
			arrivals[strconv.Itoa(i)] = i * 600
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"ordered_nodes": nodes, "arrivals": arrivals})
	}))
	t.Cleanup(srv.Close)
	return srv
}

// setupTestDeps wires the real service stack against the test database.
func setupTestDeps(t *testing.T, db *postgres.DB) *handler.Dependencies {
	runs := postgres.NewRunRepo(db)
	p := &pipeline.Pipeline{
		Matrix: haversine.NewMatrixProvider(40),
		Solver: pipeline.SolverInvoker{Client: solver.NewHTTPClient(inOrderSolver(t).URL, 5*time.Second)},
	}
	return &handler.Dependencies{
		Optimizer:       usecases.NewOptimizeService(p, runs, nil),
		Runs:            usecases.NewRunService(runs),
		DB:              db,
		OptimizeTimeout: 10 * time.Second,
	}
}

// TestOptimize_Integration_RecordsRun optimizes through the full stack and
// reads the run back from history.
func TestOptimize_Integration_RecordsRun(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	db := setupTestDB(t)
	app := setupApp(setupTestDeps(t, db))

	req := postJSON("/v1/optimize", threeStopsBody)
	req.Header.Set("X-Request-ID", "integration-req-1")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode, string(readBody(t, resp.Body)))

	var plan domain.RoutePlan
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&plan))
	assert.Equal(t, []string{"A", "B", "C"}, plan.OrderedStopIDs)
	assert.Equal(t, domain.GeometryStraight, plan.GeometrySource)

	resp, err = app.Test(httptest.NewRequest("GET", "/v1/optimizations?limit=50", nil), -1)
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)

	var page struct {
		Data []domain.OptimizationRun `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&page))

	var found *domain.OptimizationRun
	for i := range page.Data {
		if page.Data[i].RequestID == "integration-req-1" {
			found = &page.Data[i]
			break
		}
	}
	require.NotNil(t, found, "run not recorded")
	assert.Equal(t, domain.OutcomeOptimized, found.Outcome)
	assert.Equal(t, 3, found.StopCount)

	resp, err = app.Test(httptest.NewRequest("GET", "/v1/optimizations/"+found.ID, nil), -1)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}

// TestReady_Integration_WithRealDB checks the readiness probe against a live pool.
func TestReady_Integration_WithRealDB(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	db := setupTestDB(t)
	app := setupApp(setupTestDeps(t, db))

	resp, err := app.Test(httptest.NewRequest("GET", "/v1/ready", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}
