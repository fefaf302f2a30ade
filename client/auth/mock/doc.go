// Package mock provides an in-process fake of the Datambit API that
// facilitates testing of the access layer and the API client.
//
// The fake issues RS256-signed access and refresh tokens, honours the refresh
// endpoint, and keeps uploads, reports and support tickets in memory. Tests
// can count calls per endpoint, expire issued access tokens, or replace any
// endpoint handler.
package mock
