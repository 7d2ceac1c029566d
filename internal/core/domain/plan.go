package domain

import "time"

// Solution is the raw solver answer: a node permutation and arrival cumul values.
type Solution struct {
	OrderedNodes []int
	Arrivals     map[int]int
}

// Geometry sources reported in RoutePlan.GeometrySource.
const (
	GeometryProvider = "provider"
	GeometryStraight = "straight"
)

// RoutePlan is the result of one optimize run.
type RoutePlan struct {
	OrderedStopIDs      []string          `json:"orderedStopIds"`
	Geometry            []GeoPoint        `json:"geometry"`
	LatestDepartureTime *string           `json:"latestDepartureTime"`
	ArrivalOffsets      map[string]int    `json:"arrivalOffsets"`
	EstimatedArrivals   map[string]string `json:"estimatedArrivals,omitempty"`
	GeometrySource      string            `json:"geometrySource"`
	OpenPath            bool              `json:"openPath"`
}

// Run outcomes recorded in history and events.
const (
	OutcomeOptimized = "optimized"
	OutcomeFailed    = "failed"
)

// OptimizationRun is the audit record of one optimize call.
type OptimizationRun struct {
	ID                  string    `json:"id"`
	RequestID           string    `json:"request_id,omitempty"`
	StopCount           int       `json:"stop_count"`
	OpenPath            bool      `json:"open_path"`
	Outcome             string    `json:"outcome"`
	ErrorKind           string    `json:"error_kind,omitempty"`
	ErrorMessage        string    `json:"error_message,omitempty"`
	OrderedStopIDs      []string  `json:"ordered_stop_ids,omitempty"`
	LatestDepartureTime *string   `json:"latest_departure_time"`
	DurationMs          int64     `json:"duration_ms"`
	CreatedAt           time.Time `json:"created_at"`
}

// OptimizationEvent is published after every run.
type OptimizationEvent struct {
	RunID               string    `json:"run_id"`
	RequestID           string    `json:"request_id,omitempty"`
	Outcome             string    `json:"outcome"`
	ErrorKind           string    `json:"error_kind,omitempty"`
	StopCount           int       `json:"stop_count"`
	LatestDepartureTime *string   `json:"latest_departure_time"`
	DurationMs          int64     `json:"duration_ms"`
	OccurredAt          time.Time `json:"occurred_at"`
}

// Job states for asynchronous optimization.
const (
	JobQueued    = "queued"
	JobRunning   = "running"
	JobCompleted = "completed"
	JobFailed    = "failed"
)

// Job is the status of an asynchronous optimize run.
type Job struct {
	ID     string     `json:"jobId"`
	Status string     `json:"status"`
	Plan   *RoutePlan `json:"plan,omitempty"`
	Err    *Error     `json:"-"`
}
