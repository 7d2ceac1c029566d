package domain

// RawGeometry is the path a geometry provider returned, before sanitising.
// Exactly one of Encoded or Coordinates is set.
type RawGeometry struct {
	Encoded string

	// Precision is the decimal exponent of an encoded polyline (5 or 6).
	// Zero means the provider did not say.
	Precision int

	Coordinates []GeoPoint
}

// SolveRequest is the exact tuple handed to the routing solver.
type SolveRequest struct {
	TimeMatrix   TimeMatrix   `json:"time_matrix"`
	TimeWindows  []TimeWindow `json:"time_windows"`
	ServiceTimes []int        `json:"service_times,omitempty"`
	StartIndex   int          `json:"start_index"`
	EndIndex     int          `json:"end_index"`
}
