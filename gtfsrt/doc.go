// Package gtfsrt fetches and decodes GTFS-Realtime protobuf feeds.
//
// The decoder maps the wire-level FeedMessage into a canonical in-memory
// model where optional nested structures (arrival, departure, position)
// stay pointers, so "not provided" remains distinguishable from a
// legitimate zero value such as a delay of 0 or a position of (0, 0).
//
// Fetching and decoding are separate steps: Client retrieves raw bytes
// over HTTP, Decode is a pure transformation with no I/O.
package gtfsrt
