// Package gtfs loads and indexes static GTFS stop reference data.
//
// The only table this gateway needs is stops.txt: an exact-match index
// from stop_id to display name and coordinates. The index is immutable
// once built and safe for unsynchronized concurrent reads; reloading
// replaces it wholesale via Cache, never in place.
package gtfs
