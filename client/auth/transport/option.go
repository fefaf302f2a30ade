package transport

import (
	"context"
	"log/slog"
	"net/http"
)

type Option func(*Dispatcher)

// WithHTTPClient sets the HTTP client used for API calls
func WithHTTPClient(client *http.Client) Option {
	return func(d *Dispatcher) {
		d.client = client
	}
}

// WithRefresher sets the refresher; by default one sharing the dispatcher's client and logger is created.
func WithRefresher(refresher *Refresher) Option {
	return func(d *Dispatcher) {
		d.refresher = refresher
	}
}

// WithLogger sets logger
func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) {
		d.logger = logger
	}
}

// WithUnauthenticated sets the handler invoked when an authenticated call finds no access token.
func WithUnauthenticated(handler func(ctx context.Context)) Option {
	return func(d *Dispatcher) {
		d.onUnauthenticated = handler
	}
}

// WithPurgeOnReauthFailure clears stored credentials and invokes the
// unauthenticated handler when a 401 cannot be recovered by a refresh.
func WithPurgeOnReauthFailure(purge bool) Option {
	return func(d *Dispatcher) {
		d.purgeOnReauthFailure = purge
	}
}
