// Package flightapi contains the HTTP clients on both sides of the data
// boundary.
//
// Client is used by the terminal UI to call GET /api/flights on a skyline
// server and decode the {data, source, message} envelope.
//
// Upstream is used by the server to fetch <upstream>/interview/questions.json.
// It sends Accept: application/json, a browser User-Agent and
// Cache-Control: no-cache, and rejects non-2xx statuses and non-JSON content
// types so the caller can fall back to bundled data.
package flightapi
