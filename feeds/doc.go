// Package feeds routes feed keys to upstream sources and orchestrates
// the fetch-and-decode pipeline.
//
// A Registry is an immutable lookup table from feed key to source URL,
// built once at startup. A Service resolves a key, fetches the raw
// payload and decodes it; every request re-fetches and re-decodes, so
// a returned message always reflects exactly one upstream snapshot.
// A Poller re-invokes a Service on a fixed cadence with an explicit
// start/stop lifecycle.
package feeds
