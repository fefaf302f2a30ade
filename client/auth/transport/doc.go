// Package transport is the authenticated access layer of the Datambit API.
//
// Dispatcher sends one API request, attaching the stored bearer token when the
// request requires authentication. When the API answers 401 Unauthorized it
// asks the Refresher for a new access token and replays the request exactly
// once. Refresher exchanges the stored refresh token for a new access token
// with single-flight semantics: a caller arriving while a refresh is in flight
// is turned away rather than queued.
package transport
