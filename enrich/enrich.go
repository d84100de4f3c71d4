package enrich

import (
	"github.com/theoremus-urban-solutions/mta-gtfsrt-gateway/gtfs"
	"github.com/theoremus-urban-solutions/mta-gtfsrt-gateway/gtfsrt"
)

// Message is a FeedMessage with stop metadata attached per entity.
type Message struct {
	Version     string   `json:"gtfsRealtimeVersion"`
	GeneratedAt int64    `json:"timestamp"`
	Entities    []Entity `json:"entity"`
}

// Entity wraps a decoded entity with the lookup results for its stop
// time updates. The embedded entity is shared with the source message,
// not copied field by field, so enrichment cannot drift from the decode.
type Entity struct {
	gtfsrt.Entity
	Calls []StopCall `json:"calls,omitempty"`
}

// StopCall is the join result for one stop time update, in the same
// order as TripUpdate.StopTimeUpdates.
type StopCall struct {
	StopID string  `json:"stopId"`
	Known  bool    `json:"known"`
	Name   string  `json:"stopName,omitempty"`
	Lat    float64 `json:"stopLat,omitempty"`
	Lon    float64 `json:"stopLon,omitempty"`
}

// Feed joins a decoded message against the stop index. A nil index is
// allowed (reference data unavailable) and yields all-unknown calls.
// Entity count, order and all trip/vehicle fields pass through
// untouched.
func Feed(m *gtfsrt.FeedMessage, idx *gtfs.StopIndex) *Message {
	out := &Message{
		Version:     m.Version,
		GeneratedAt: m.GeneratedAt,
		Entities:    Entities(m.Entities, idx),
	}
	return out
}

// Entities joins a sequence of entities against the stop index.
func Entities(entities []gtfsrt.Entity, idx *gtfs.StopIndex) []Entity {
	out := make([]Entity, 0, len(entities))
	for _, e := range entities {
		ee := Entity{Entity: e}
		if e.TripUpdate != nil && len(e.TripUpdate.StopTimeUpdates) > 0 {
			ee.Calls = make([]StopCall, 0, len(e.TripUpdate.StopTimeUpdates))
			for _, stu := range e.TripUpdate.StopTimeUpdates {
				ee.Calls = append(ee.Calls, lookup(stu.StopID, idx))
			}
		}
		out = append(out, ee)
	}
	return out
}

func lookup(stopID string, idx *gtfs.StopIndex) StopCall {
	if idx != nil {
		if s, ok := idx.Lookup(stopID); ok {
			return StopCall{StopID: stopID, Known: true, Name: s.Name, Lat: s.Lat, Lon: s.Lon}
		}
	}
	return StopCall{StopID: stopID, Known: false}
}
