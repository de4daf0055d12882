// Package oce implements the transport to an Oracle Content Management
// delivery API.
//
// # Architecture
//
// The package implements the [driven.ContentSource] and [driven.BinarySource]
// ports. It comprises the following components:
//
//   - Client: issues listing, item and binary requests
//   - Config: connection settings derived from the sync settings
//   - RateLimiter: proactive throttling plus back-off after 429 responses
//   - DebugDir: writes raw listing and item JSON for offline inspection
//
// # Endpoints
//
// All requests target {server}/content/{mode}/api/v1.1 where mode is
// "published" or "preview":
//
//   - items?limit=&scroll=true&orderBy=id:asc&channelToken=&q=&scrollId=
//     lists items with the scroll protocol.
//
//   - items?limit=&orderBy=id:asc&channelToken=&q=&offset=&totalResults=true
//     lists items with the offset protocol.
//
//   - items/{id}?channelToken=&expand=all fetches one item.
//
// # Authentication
//
// Every request carries the Authorization value supplied by the configured
// [driven.TokenProvider]. When the provider returns an empty value the header
// is omitted.
//
// Requests are never retried. A failed request is terminal for its unit of
// work and the caller decides whether the failure is fatal.
package oce
