package gtfs

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
)

// Stop is one static stop reference entry.
type Stop struct {
	ID   string  `json:"stopId"`
	Name string  `json:"stopName"`
	Lat  float64 `json:"stopLat"`
	Lon  float64 `json:"stopLon"`
}

// StopIndex is an immutable exact-match mapping from stop_id to Stop.
type StopIndex struct {
	stops map[string]Stop
}

// Lookup returns the entry for a stop id. Absence is not an error;
// callers render a placeholder instead.
func (i *StopIndex) Lookup(stopID string) (Stop, bool) {
	s, ok := i.stops[stopID]
	return s, ok
}

// Len returns the number of indexed stops.
func (i *StopIndex) Len() int { return len(i.stops) }

// All returns every entry ordered by stop id.
func (i *StopIndex) All() []Stop {
	out := make([]Stop, 0, len(i.stops))
	for _, s := range i.stops {
		out = append(out, s)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].ID < out[b].ID })
	return out
}

// RowError records a data row that could not be indexed. Malformed rows
// are skipped, not fatal, but the skip is observable so loaders can log
// and tests can assert on it.
type RowError struct {
	Line int
	Err  error
}

func (e RowError) Error() string { return fmt.Sprintf("stops row %d: %v", e.Line, e.Err) }

// LoadError reports that the stop table itself could not be read.
// Callers degrade gracefully: the pipeline continues without enrichment.
type LoadError struct {
	Err error
}

func (e *LoadError) Error() string { return fmt.Sprintf("load stops: %v", e.Err) }

func (e *LoadError) Unwrap() error { return e.Err }

// ParseStops reads a comma-delimited stop table of the form
//
//	stop_id,stop_name,stop_lat,stop_lon[,extra columns ignored]
//
// The header row is skipped. Rows with fewer than four fields, an empty
// stop id, or unparsable coordinates are skipped and reported as
// RowErrors; a stop without usable coordinates cannot serve the join.
// Duplicate stop ids are last-wins.
func ParseStops(r io.Reader) (*StopIndex, []RowError, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	stops := map[string]Stop{}
	var rowErrs []RowError
	line := 0
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, rowErrs, &LoadError{Err: err}
		}
		line++
		if line == 1 {
			// header
			continue
		}
		if len(rec) < 4 {
			rowErrs = append(rowErrs, RowError{Line: line, Err: fmt.Errorf("want 4 fields, got %d", len(rec))})
			continue
		}
		id := rec[0]
		if id == "" {
			rowErrs = append(rowErrs, RowError{Line: line, Err: fmt.Errorf("empty stop_id")})
			continue
		}
		lat, err := strconv.ParseFloat(rec[2], 64)
		if err != nil {
			rowErrs = append(rowErrs, RowError{Line: line, Err: fmt.Errorf("stop_lat %q: %w", rec[2], err)})
			continue
		}
		lon, err := strconv.ParseFloat(rec[3], 64)
		if err != nil {
			rowErrs = append(rowErrs, RowError{Line: line, Err: fmt.Errorf("stop_lon %q: %w", rec[3], err)})
			continue
		}
		stops[id] = Stop{ID: id, Name: rec[1], Lat: lat, Lon: lon}
	}
	return &StopIndex{stops: stops}, rowErrs, nil
}
