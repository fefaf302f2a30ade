package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync/atomic"

	"github.com/datambit/datambit/client/auth/store"
	"github.com/datambit/datambit/schema"
)

// Refresher exchanges the stored refresh token for a new access token.
// At most one exchange runs at a time per Refresher.
type Refresher struct {
	baseURL  string
	store    *store.Store
	client   *http.Client
	logger   *slog.Logger
	inFlight atomic.Bool
}

type RefresherOption func(*Refresher)

// WithRefreshClient sets the HTTP client used for the exchange
func WithRefreshClient(client *http.Client) RefresherOption {
	return func(r *Refresher) {
		r.client = client
	}
}

// WithRefreshLogger sets logger
func WithRefreshLogger(logger *slog.Logger) RefresherOption {
	return func(r *Refresher) {
		r.logger = logger
	}
}

// NewRefresher creates a refresher for the API at baseURL.
func NewRefresher(baseURL string, credentials *store.Store, options ...RefresherOption) *Refresher {
	ret := &Refresher{
		baseURL: baseURL,
		store:   credentials,
		client:  http.DefaultClient,
		logger:  slog.Default(),
	}
	for _, opt := range options {
		opt(ret)
	}
	return ret
}

// InFlight reports whether an exchange is currently running.
func (r *Refresher) InFlight() bool {
	return r.inFlight.Load()
}

// Refresh performs one refresh-token exchange and reports whether a new access
// token was stored. It returns false immediately when another exchange is in
// flight. Failures are logged, never returned.
func (r *Refresher) Refresh(ctx context.Context) bool {
	if !r.inFlight.CompareAndSwap(false, true) {
		r.logger.Debug("token refresh already in flight")
		return false
	}
	defer r.inFlight.Store(false)
	if err := r.exchange(ctx); err != nil {
		r.logger.Warn("failed to refresh token", slog.String("error", err.Error()))
		return false
	}
	r.logger.Debug("token refreshed")
	return true
}

func (r *Refresher) exchange(ctx context.Context) error {
	refreshToken, ok := r.store.RefreshToken()
	if !ok {
		return schema.ErrMissingRefreshToken
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+schema.EndpointRefresh, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", contentTypeJSON)
	req.Header.Set(requestIDHeader, requestID(ctx))
	setBearer(req, refreshToken)
	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("refresh request failed: %w", err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read refresh response: %w", err)
	}
	if !successful(resp.StatusCode) {
		return schema.NewAuthError(schema.RefreshRejected, resp.StatusCode, nil)
	}
	var refreshed schema.Envelope[string]
	if err = unmarshal(data, &refreshed); err != nil {
		return fmt.Errorf("failed to decode refresh response: %w", err)
	}
	if refreshed.Message == "" {
		return schema.NewAuthError(schema.RefreshRejected, resp.StatusCode, errors.New("response carried no access token"))
	}
	preferDurable := r.store.ActiveTier() == store.Durable
	return r.store.Save(refreshed.Message, refreshToken, preferDurable)
}
