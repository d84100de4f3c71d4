// Package enrich joins decoded realtime entities with static stop
// reference data.
//
// The join is read-only on both sides: it never mutates the feed
// message or the stop index, and it is safe to run concurrently
// against a shared, immutable index. A stop id with no reference entry
// produces an explicit "unknown" placeholder, never an error.
package enrich
