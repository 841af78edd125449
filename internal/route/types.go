package route

// StartWaypoint is the order index assigned to the route's start location,
// which has no corresponding order.
const StartWaypoint = -1

// Delivery is one destination to visit, linked back to an extracted order.
type Delivery struct {
	OrderIndex int
	Customer   string
	Address    string
	City       string
	ZipCode    string
}

// Location is a geocoded stop candidate.
type Location struct {
	Address    string
	City       string
	ZipCode    string
	Lat        float64
	Lng        float64
	Customer   string
	OrderIndex int
}

// RouteStop is one stop in the final route. StopNumber is 1-based; the start
// waypoint is always stop 1 with duration 0, and every later stop carries the
// travel duration from the previous one.
type RouteStop struct {
	StopNumber      int
	Customer        string
	Address         string
	City            string
	ZipCode         string
	OrderIndex      int
	DurationSeconds int64
}
