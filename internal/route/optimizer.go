package route

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"order-dispatch/internal/common"
)

// Resolver resolves address components to coordinates.
type Resolver interface {
	Resolve(ctx context.Context, address, city, zipCode string) (float64, float64, error)
}

// MatrixSource builds distance and duration matrices across locations.
type MatrixSource interface {
	Matrices(ctx context.Context, locs []Location) ([][]int64, [][]int64, error)
}

// Optimizer geocodes the start and every delivery, builds the travel
// matrices, and orders the stops with the open-path solver.
type Optimizer struct {
	resolver Resolver
	matrix   MatrixSource
	budget   time.Duration
	log      *slog.Logger
}

func NewOptimizer(resolver Resolver, matrix MatrixSource, budget time.Duration, logger *slog.Logger) *Optimizer {
	if logger == nil {
		logger = slog.Default()
	}
	if budget <= 0 {
		budget = 5 * time.Second
	}
	return &Optimizer{resolver: resolver, matrix: matrix, budget: budget, log: logger}
}

// OptimizeRoute plans a delivery route from startAddress through every
// delivery. Geocoding failures are collected across all addresses and
// surfaced as one aggregated error rather than one at a time. Routes with at
// most two destinations keep their input order; there is nothing for the
// solver to decide.
func (o *Optimizer) OptimizeRoute(ctx context.Context, deliveries []Delivery, startAddress string) ([]RouteStop, error) {
	start := time.Now()

	locations := make([]Location, 0, len(deliveries)+1)
	var failures []*common.GeocodingError

	lat, lng, err := o.resolver.Resolve(ctx, startAddress, "", "")
	if err != nil {
		failures = append(failures, asGeocodingError(err))
	} else {
		locations = append(locations, Location{
			Address:    startAddress,
			Lat:        lat,
			Lng:        lng,
			Customer:   "Start",
			OrderIndex: StartWaypoint,
		})
	}

	for _, d := range deliveries {
		lat, lng, err := o.resolver.Resolve(ctx, d.Address, d.City, d.ZipCode)
		if err != nil {
			failures = append(failures, asGeocodingError(err))
			continue
		}
		locations = append(locations, Location{
			Address:    d.Address,
			City:       d.City,
			ZipCode:    d.ZipCode,
			Lat:        lat,
			Lng:        lng,
			Customer:   d.Customer,
			OrderIndex: d.OrderIndex,
		})
	}
	if len(failures) > 0 {
		o.log.Error("route.geocode.failed", "failed", len(failures), "total", len(deliveries)+1)
		return nil, common.AggregateGeocodingErrors(failures)
	}

	if len(deliveries) == 0 {
		return []RouteStop{startStop(locations[0])}, nil
	}

	dist, dur, err := o.matrix.Matrices(ctx, locations)
	if err != nil {
		return nil, err
	}

	var order []int
	if len(deliveries) <= 2 {
		order = make([]int, len(locations))
		for i := range order {
			order[i] = i
		}
	} else {
		order, err = SolveOpenPath(dist, 0, o.budget)
		if err != nil {
			return nil, err
		}
	}

	stops := make([]RouteStop, 0, len(order))
	for pos, node := range order {
		loc := locations[node]
		var duration int64
		if pos > 0 {
			duration = dur[order[pos-1]][node]
		}
		stops = append(stops, RouteStop{
			StopNumber:      pos + 1,
			Customer:        loc.Customer,
			Address:         loc.Address,
			City:            loc.City,
			ZipCode:         loc.ZipCode,
			OrderIndex:      loc.OrderIndex,
			DurationSeconds: duration,
		})
	}

	o.log.Info("route.optimize.ok",
		"stops", len(stops),
		"solved", len(deliveries) > 2,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return stops, nil
}

func startStop(loc Location) RouteStop {
	return RouteStop{
		StopNumber: 1,
		Customer:   loc.Customer,
		Address:    loc.Address,
		OrderIndex: loc.OrderIndex,
	}
}

func asGeocodingError(err error) *common.GeocodingError {
	var ge *common.GeocodingError
	if errors.As(err, &ge) {
		return ge
	}
	return common.NewGeocodingError("unknown address", err.Error())
}
