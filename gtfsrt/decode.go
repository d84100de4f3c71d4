package gtfsrt

import (
	"errors"

	gtfsrtpb "github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"google.golang.org/protobuf/proto"
)

// Decode parses raw GTFS-Realtime protobuf bytes into a canonical
// FeedMessage. It is deterministic and side-effect free.
//
// Entity order is preserved as encoded. Unknown wire fields are ignored
// for forward compatibility. A payload that does not unmarshal, or that
// lacks the required feed header, yields a *DecodeError; a partial
// message is never returned.
func Decode(b []byte) (*FeedMessage, error) {
	var fm gtfsrtpb.FeedMessage
	if err := proto.Unmarshal(b, &fm); err != nil {
		return nil, &DecodeError{Err: err}
	}
	if fm.Header == nil || fm.Header.GtfsRealtimeVersion == nil {
		return nil, &DecodeError{Err: errors.New("missing feed header")}
	}

	out := &FeedMessage{
		Version:  fm.Header.GetGtfsRealtimeVersion(),
		Entities: make([]Entity, 0, len(fm.Entity)),
	}
	if fm.Header.Timestamp != nil {
		out.GeneratedAt = int64(fm.Header.GetTimestamp())
	}
	for _, e := range fm.Entity {
		out.Entities = append(out.Entities, Entity{
			ID:         e.GetId(),
			TripUpdate: decodeTripUpdate(e.TripUpdate),
			Vehicle:    decodeVehicle(e.Vehicle),
		})
	}
	return out, nil
}

func decodeTripUpdate(tu *gtfsrtpb.TripUpdate) *TripUpdate {
	if tu == nil {
		return nil
	}
	out := &TripUpdate{}
	if trip := tu.Trip; trip != nil {
		out.TripID = trip.GetTripId()
		out.RouteID = trip.GetRouteId()
		out.StartTime = trip.GetStartTime()
		out.StartDate = trip.GetStartDate()
	}
	if len(tu.StopTimeUpdate) > 0 {
		out.StopTimeUpdates = make([]StopTimeUpdate, 0, len(tu.StopTimeUpdate))
		for _, stu := range tu.StopTimeUpdate {
			out.StopTimeUpdates = append(out.StopTimeUpdates, StopTimeUpdate{
				StopID:    stu.GetStopId(),
				Arrival:   decodeStopTimeEvent(stu.Arrival),
				Departure: decodeStopTimeEvent(stu.Departure),
			})
		}
	}
	return out
}

func decodeStopTimeEvent(ev *gtfsrtpb.TripUpdate_StopTimeEvent) *StopTimeEvent {
	if ev == nil {
		return nil
	}
	return &StopTimeEvent{
		Time:  ev.GetTime(),
		Delay: ev.GetDelay(),
	}
}

func decodeVehicle(vp *gtfsrtpb.VehiclePosition) *VehiclePosition {
	if vp == nil {
		return nil
	}
	out := &VehiclePosition{}
	// CurrentStatus carries the upstream enum name only when the field
	// is actually set; the wire default is not materialized.
	if vp.CurrentStatus != nil {
		out.CurrentStatus = vp.GetCurrentStatus().String()
	}
	if vp.Timestamp != nil {
		out.Timestamp = int64(vp.GetTimestamp())
	}
	if pos := vp.Position; pos != nil {
		out.Position = &Position{
			Latitude:  float64(pos.GetLatitude()),
			Longitude: float64(pos.GetLongitude()),
		}
	}
	return out
}
