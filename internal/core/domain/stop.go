package domain

// ConstraintKind says whether an arrival constraint is a deadline or an opening time.
type ConstraintKind string

const (
	ConstraintBefore ConstraintKind = "before"
	ConstraintAfter  ConstraintKind = "after"
)

// ArrivalConstraint restricts when the vehicle may arrive at a stop.
type ArrivalConstraint struct {
	TimeOfDay string         `json:"timeOfDay"` // HH:MM
	Kind      ConstraintKind `json:"kind"`
}

// Stop is a single location to visit.
type Stop struct {
	ID         string             `json:"id"`
	Location   GeoPoint           `json:"location"`
	Constraint *ArrivalConstraint `json:"arrivalConstraint,omitempty"`
}

// OptimizeRequest is the input of one sequencing run.
type OptimizeRequest struct {
	Stops []Stop `json:"stops"`

	// EndStopID pins the last stop. Empty means open path.
	EndStopID string `json:"endStopId,omitempty"`

	// StartTime pins the departure (HH:MM). Empty lets the solver choose.
	StartTime string `json:"startTime,omitempty"`

	// ServiceTimeMinutes is the dwell time spent at every stop after the start.
	ServiceTimeMinutes int `json:"serviceTimeMinutes,omitempty"`
}
