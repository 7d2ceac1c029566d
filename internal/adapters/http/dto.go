package http

import (
	"github.com/samirrijal/stopsequencer/internal/core/domain"
)

// optimizeRequest is the JSON body of the optimize endpoints. Stops accept
// either flat lat/lng or a nested position, and either arrivalConstraint or
// the older timeRestriction pair.
type optimizeRequest struct {
	Stops              []stopInput `json:"stops"`
	EndStopID          string      `json:"endStopId"`
	StartTime          string      `json:"startTime"`
	ServiceTimeMinutes int         `json:"serviceTimeMinutes"`
}

type stopInput struct {
	ID       string         `json:"id"`
	Lat      *float64       `json:"lat"`
	Lng      *float64       `json:"lng"`
	Position *positionInput `json:"position"`

	ArrivalConstraint   *constraintInput `json:"arrivalConstraint"`
	TimeRestriction     string           `json:"timeRestriction"`
	TimeRestrictionType string           `json:"timeRestrictionType"`
}

type positionInput struct {
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

type constraintInput struct {
	TimeOfDay string `json:"timeOfDay"`
	Kind      string `json:"kind"`
}

// toDomain converts the body into an OptimizeRequest. It only resolves the
// accepted shapes; range and count checks belong to the pipeline.
func (r *optimizeRequest) toDomain() (*domain.OptimizeRequest, error) {
	if r.Stops == nil {
		return nil, domain.Validationf("stops is required")
	}
	out := &domain.OptimizeRequest{
		Stops:              make([]domain.Stop, 0, len(r.Stops)),
		EndStopID:          r.EndStopID,
		StartTime:          r.StartTime,
		ServiceTimeMinutes: r.ServiceTimeMinutes,
	}
	for i, s := range r.Stops {
		loc, ok := s.location()
		if !ok {
			return nil, domain.Validationf("stops[%d]: lat and lng are required", i)
		}
		out.Stops = append(out.Stops, domain.Stop{
			ID:         s.ID,
			Location:   loc,
			Constraint: s.constraint(),
		})
	}
	return out, nil
}

func (s *stopInput) location() (domain.GeoPoint, bool) {
	lat, lng := s.Lat, s.Lng
	if lat == nil && lng == nil && s.Position != nil {
		lat, lng = s.Position.Lat, s.Position.Lng
	}
	if lat == nil || lng == nil {
		return domain.GeoPoint{}, false
	}
	return domain.GeoPoint{Lat: *lat, Lng: *lng}, true
}

func (s *stopInput) constraint() *domain.ArrivalConstraint {
	if s.ArrivalConstraint != nil {
		return &domain.ArrivalConstraint{
			TimeOfDay: s.ArrivalConstraint.TimeOfDay,
			Kind:      domain.ConstraintKind(s.ArrivalConstraint.Kind),
		}
	}
	if s.TimeRestriction == "" {
		return nil
	}
	kind := domain.ConstraintKind(s.TimeRestrictionType)
	if kind == "" {
		kind = domain.ConstraintBefore
	}
	return &domain.ArrivalConstraint{TimeOfDay: s.TimeRestriction, Kind: kind}
}

// legacyPlan is the /api/optimize response: the plan plus routeLine, the
// old name of geometry.
type legacyPlan struct {
	*domain.RoutePlan
	RouteLine []domain.GeoPoint `json:"routeLine"`
}

// jobResponse is returned by the async job endpoints.
type jobResponse struct {
	JobID  string            `json:"jobId"`
	Status string            `json:"status"`
	Plan   *domain.RoutePlan `json:"plan,omitempty"`
	Error  *APIError         `json:"error,omitempty"`
}
