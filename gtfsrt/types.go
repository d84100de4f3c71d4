package gtfsrt

// FeedMessage is the decoded root document for one feed fetch. It is
// created fresh on every decode and never mutated afterwards.
type FeedMessage struct {
	Version     string   `json:"gtfsRealtimeVersion"`
	GeneratedAt int64    `json:"timestamp"`
	Entities    []Entity `json:"entity"`
}

// Entity is one trip/vehicle record within a FeedMessage. The ID is
// unique within a single message only. Upstream data is trusted as-is:
// an entity may carry a trip update, a vehicle position, both, or
// (in a degenerate feed) neither.
type Entity struct {
	ID         string           `json:"id"`
	TripUpdate *TripUpdate      `json:"tripUpdate,omitempty"`
	Vehicle    *VehiclePosition `json:"vehicle,omitempty"`
}

// TripUpdate holds the predicted stop-by-stop timing for one trip.
// StopTimeUpdates keeps the upstream order, which is the intended stop
// sequence; it is never re-sorted.
type TripUpdate struct {
	TripID          string           `json:"tripId"`
	RouteID         string           `json:"routeId"`
	StartTime       string           `json:"startTime,omitempty"`
	StartDate       string           `json:"startDate,omitempty"`
	StopTimeUpdates []StopTimeUpdate `json:"stopTimeUpdate"`
}

// StopTimeUpdate is one predicted stop call. Arrival and Departure are
// independently optional; nil means "no prediction", not zero.
type StopTimeUpdate struct {
	StopID    string         `json:"stopId"`
	Arrival   *StopTimeEvent `json:"arrival,omitempty"`
	Departure *StopTimeEvent `json:"departure,omitempty"`
}

// StopTimeEvent is a predicted time plus the deviation from schedule.
type StopTimeEvent struct {
	Time  int64 `json:"time"`
	Delay int32 `json:"delay"`
}

// VehiclePosition is the last known location/status of the vehicle
// serving a trip.
type VehiclePosition struct {
	CurrentStatus string    `json:"currentStatus,omitempty"`
	Timestamp     int64     `json:"timestamp"`
	Position      *Position `json:"position,omitempty"`
}

// Position is a GPS coordinate in signed decimal degrees.
type Position struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}
