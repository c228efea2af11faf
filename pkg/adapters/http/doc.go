// Package http exposes questionnaire sessions to a Render Layer over HTTP.
//
// Every request rehydrates the session from the store under the session
// Manager's lock, applies one engine operation and saves the result.
// State changes are pushed to subscribers of GET /sessions/{id}/events
// as JSON-encoded domain.StateDiff values (Server-Sent Events).
package http
