// Package server exposes the feed pipeline over HTTP.
//
// Each feed domain gets its own route: /api/lirr and /api/mnr for the
// single-source commuter-rail feeds, /api/subways/{feed} for the keyed
// subway line groups. Responses are the canonical decoded feed as JSON;
// ?enrich=1 joins the cached stop index into the response. Consumers
// poll; there is no push delivery.
package server
