package gtfsrt

import "fmt"

// FetchError reports a transport-level failure: the upstream was
// unreachable, answered with a non-success status, or timed out.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: HTTP %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// DecodeError reports that a payload was retrieved but is not a valid
// GTFS-Realtime encoding. It is kept distinct from FetchError so
// operators can tell "upstream down" from "upstream changed format".
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string { return fmt.Sprintf("decode feed: %v", e.Err) }

func (e *DecodeError) Unwrap() error { return e.Err }
