package http

import (
	"encoding/json"
	"errors"
	"sort"

	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/samirrijal/stopsequencer/internal/core/domain"
)

// gqlError exposes the error kind in the GraphQL "extensions" member.
type gqlError struct {
	err    error
	code   string
	status int
}

func (e *gqlError) Error() string { return e.err.Error() }

func (e *gqlError) Extensions() map[string]interface{} {
	return map[string]interface{}{"code": e.code, "status": e.status}
}

func toGQLError(err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return &gqlError{err: err, code: "not_found", status: fiber.StatusNotFound}
	}
	var de *domain.Error
	if !errors.As(err, &de) {
		return err
	}
	status, code := statusOf(de)
	return &gqlError{err: err, code: code, status: status}
}

// stopValue is one entry of a per-stop map rendered as a list.
type stopValue struct {
	StopID string      `json:"stopId"`
	Value  interface{} `json:"value"`
}

func sortedStopValues[V any](m map[string]V, order []string) []stopValue {
	out := make([]stopValue, 0, len(m))
	seen := make(map[string]bool, len(m))
	for _, id := range order {
		if v, ok := m[id]; ok {
			out = append(out, stopValue{StopID: id, Value: v})
			seen[id] = true
		}
	}
	rest := make([]string, 0)
	for id := range m {
		if !seen[id] {
			rest = append(rest, id)
		}
	}
	sort.Strings(rest)
	for _, id := range rest {
		out = append(out, stopValue{StopID: id, Value: m[id]})
	}
	return out
}

// buildSchema creates the GraphQL schema wired to our services.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	geoPointType := graphql.NewObject(graphql.ObjectConfig{
		Name: "GeoPoint",
		Fields: graphql.Fields{
			"lat": &graphql.Field{Type: graphql.Float},
			"lng": &graphql.Field{Type: graphql.Float},
		},
	})

	arrivalOffsetType := graphql.NewObject(graphql.ObjectConfig{
		Name: "ArrivalOffset",
		Fields: graphql.Fields{
			"stopId":  &graphql.Field{Type: graphql.String},
			"seconds": &graphql.Field{Type: graphql.Int, Resolve: resolveValue},
		},
	})

	estimatedArrivalType := graphql.NewObject(graphql.ObjectConfig{
		Name: "EstimatedArrival",
		Fields: graphql.Fields{
			"stopId": &graphql.Field{Type: graphql.String},
			"time":   &graphql.Field{Type: graphql.String, Resolve: resolveValue},
		},
	})

	routePlanType := graphql.NewObject(graphql.ObjectConfig{
		Name: "RoutePlan",
		Fields: graphql.Fields{
			"orderedStopIds":      &graphql.Field{Type: graphql.NewList(graphql.String)},
			"geometry":            &graphql.Field{Type: graphql.NewList(geoPointType)},
			"latestDepartureTime": &graphql.Field{Type: graphql.String},
			"geometrySource":      &graphql.Field{Type: graphql.String},
			"openPath":            &graphql.Field{Type: graphql.Boolean},
			"arrivalOffsets": &graphql.Field{
				Type: graphql.NewList(arrivalOffsetType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					plan := p.Source.(*domain.RoutePlan)
					return sortedStopValues(plan.ArrivalOffsets, plan.OrderedStopIDs), nil
				},
			},
			"estimatedArrivals": &graphql.Field{
				Type: graphql.NewList(estimatedArrivalType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					plan := p.Source.(*domain.RoutePlan)
					return sortedStopValues(plan.EstimatedArrivals, plan.OrderedStopIDs), nil
				},
			},
		},
	})

	runType := graphql.NewObject(graphql.ObjectConfig{
		Name: "OptimizationRun",
		Fields: graphql.Fields{
			"id":                    &graphql.Field{Type: graphql.String},
			"request_id":            &graphql.Field{Type: graphql.String},
			"stop_count":            &graphql.Field{Type: graphql.Int},
			"open_path":             &graphql.Field{Type: graphql.Boolean},
			"outcome":               &graphql.Field{Type: graphql.String},
			"error_kind":            &graphql.Field{Type: graphql.String},
			"error_message":         &graphql.Field{Type: graphql.String},
			"ordered_stop_ids":      &graphql.Field{Type: graphql.NewList(graphql.String)},
			"latest_departure_time": &graphql.Field{Type: graphql.String},
			"duration_ms":           &graphql.Field{Type: graphql.Int},
			"created_at":            &graphql.Field{Type: graphql.DateTime},
		},
	})

	constraintInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "ArrivalConstraintInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"timeOfDay": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"kind":      &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		},
	})

	stopInputType := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "StopInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"id":                &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"lat":               &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.Float)},
			"lng":               &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.Float)},
			"arrivalConstraint": &graphql.InputObjectFieldConfig{Type: constraintInput},
		},
	})

	optimizeInputType := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "OptimizeInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"stops":              &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(stopInputType)))},
			"endStopId":          &graphql.InputObjectFieldConfig{Type: graphql.String},
			"startTime":          &graphql.InputObjectFieldConfig{Type: graphql.String},
			"serviceTimeMinutes": &graphql.InputObjectFieldConfig{Type: graphql.Int},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"optimizations": &graphql.Field{
				Type:        graphql.NewList(runType),
				Description: "Recorded optimize runs, newest first",
				Args: graphql.FieldConfigArgument{
					"offset": &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 0},
					"limit":  &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 20},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					offset := p.Args["offset"].(int)
					limit := p.Args["limit"].(int)
					runs, _, err := deps.Runs.List(p.Context, offset, limit)
					if err != nil {
						return nil, toGQLError(err)
					}
					return runs, nil
				},
			},
			"optimization": &graphql.Field{
				Type:        runType,
				Description: "Get a recorded run by ID",
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id := p.Args["id"].(string)
					run, err := deps.Runs.Get(p.Context, id)
					if err != nil {
						return nil, toGQLError(err)
					}
					return run, nil
				},
			},
		},
	})

	mutationType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"optimize": &graphql.Field{
				Type:        routePlanType,
				Description: "Sequence stops into the fastest feasible order",
				Args: graphql.FieldConfigArgument{
					"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(optimizeInputType)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					req, err := optimizeArgs(p.Args["input"])
					if err != nil {
						return nil, toGQLError(err)
					}
					plan, err := deps.Optimizer.Optimize(p.Context, req)
					if err != nil {
						return nil, toGQLError(err)
					}
					return plan, nil
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    queryType,
		Mutation: mutationType,
	})
}

func resolveValue(p graphql.ResolveParams) (interface{}, error) {
	return p.Source.(stopValue).Value, nil
}

// optimizeArgs reuses the REST body decoding for the mutation input.
func optimizeArgs(input interface{}) (*domain.OptimizeRequest, error) {
	raw, err := json.Marshal(input)
	if err != nil {
		return nil, domain.Validationf("invalid input: %v", err)
	}
	var body optimizeRequest
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, domain.Validationf("invalid input: %v", err)
	}
	return body.toDomain()
}

// GraphQLHandler serves the GraphQL endpoint.
func GraphQLHandler(deps *Dependencies) fiber.Handler {
	schema, err := buildSchema(deps)
	if err != nil {
		// This would be a programming error in the schema definition
		panic("graphql schema build: " + err.Error())
	}

	type gqlRequest struct {
		Query         string                 `json:"query"`
		OperationName string                 `json:"operationName"`
		Variables     map[string]interface{} `json:"variables"`
	}

	return func(c *fiber.Ctx) error {
		var req gqlRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        c.UserContext(),
		})

		return c.JSON(result)
	}
}
