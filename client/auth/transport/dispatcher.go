package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/datambit/datambit/client/auth/store"
	"github.com/datambit/datambit/schema"
)

// Dispatcher is the single entry point for Datambit API calls.
type Dispatcher struct {
	baseURL              string
	store                *store.Store
	refresher            *Refresher
	client               *http.Client
	logger               *slog.Logger
	onUnauthenticated    func(ctx context.Context)
	purgeOnReauthFailure bool
}

// New creates a dispatcher for the API at baseURL backed by the given credential store.
func New(baseURL string, credentials *store.Store, options ...Option) *Dispatcher {
	ret := &Dispatcher{
		baseURL: strings.TrimRight(baseURL, "/"),
		store:   credentials,
		client:  http.DefaultClient,
		logger:  slog.Default(),
	}
	for _, opt := range options {
		opt(ret)
	}
	if ret.refresher == nil {
		ret.refresher = NewRefresher(ret.baseURL, credentials, WithRefreshClient(ret.client), WithRefreshLogger(ret.logger))
	}
	return ret
}

// Store returns the credential store.
func (d *Dispatcher) Store() *store.Store {
	return d.store
}

// Refresher returns the token refresher.
func (d *Dispatcher) Refresher() *Refresher {
	return d.refresher
}

// BaseURL returns the API origin.
func (d *Dispatcher) BaseURL() string {
	return d.baseURL
}

// Do sends the request and returns the raw JSON body of a successful response.
//
// A 401 triggers one token refresh and one replay of the request, unless
// SkipRefresh is set; at most two HTTP requests are issued per call.
func (d *Dispatcher) Do(ctx context.Context, request *Request) (json.RawMessage, error) {
	if request == nil || request.Endpoint == "" {
		return nil, errors.New("request endpoint was empty")
	}
	URL := composeURL(d.baseURL, request.Endpoint, request.Query)
	body, err := request.payload()
	if err != nil {
		return nil, err
	}
	var token string
	if request.RequiresAuth {
		var ok bool
		if token, ok = d.store.AccessToken(); !ok {
			d.unauthenticated(ctx)
			return nil, schema.NewAuthError(schema.TokenMissing, 0, nil)
		}
	}
	if id, _ := ctx.Value(ContextRequestIDKey).(string); id == "" {
		ctx = WithRequestID(ctx, requestID(ctx))
	}

	status, data, err := d.send(ctx, request, URL, body, token)
	if err != nil {
		return nil, err
	}
	if status == http.StatusUnauthorized && !request.SkipRefresh {
		d.logger.Info("access token rejected, refreshing",
			slog.String("endpoint", request.Endpoint),
			slog.String("requestID", requestID(ctx)))
		if !d.refresher.Refresh(ctx) {
			d.reauthenticationFailed(ctx)
			return nil, schema.NewAuthError(schema.ReauthenticationFailed, status, nil)
		}
		if token, ok := d.store.AccessToken(); ok {
			if status, data, err = d.send(ctx, request, URL, body, token); err != nil {
				return nil, err
			}
		}
	}
	return decode(status, data)
}

func (d *Dispatcher) send(ctx context.Context, request *Request, URL string, body []byte, token string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, request.method(), URL, nil)
	if err != nil {
		return 0, nil, err
	}
	req = withBody(req, body)
	req.Header = request.header()
	req.Header.Set(requestIDHeader, requestID(ctx))
	if token != "" {
		setBearer(req, token)
	}
	d.logger.Debug("api request", slog.String("method", req.Method), slog.String("endpoint", request.Endpoint))
	resp, err := d.client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("%v %v failed: %w", req.Method, request.Endpoint, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to read %v response: %w", request.Endpoint, err)
	}
	return resp.StatusCode, data, nil
}

func (d *Dispatcher) unauthenticated(ctx context.Context) {
	d.logger.Debug("no access token, login required")
	if d.onUnauthenticated != nil {
		d.onUnauthenticated(ctx)
	}
}

func (d *Dispatcher) reauthenticationFailed(ctx context.Context) {
	if !d.purgeOnReauthFailure {
		return
	}
	_ = d.store.Clear()
	d.unauthenticated(ctx)
}

func decode(status int, data []byte) (json.RawMessage, error) {
	if !successful(status) {
		code, message := apiMessage(data)
		return nil, schema.NewAPIError(status, code, message)
	}
	var raw json.RawMessage
	if len(strings.TrimSpace(string(data))) == 0 {
		return raw, nil
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return raw, nil
}

// Call sends the request and decodes the successful response into T.
func Call[T any](ctx context.Context, d *Dispatcher, request *Request) (*T, error) {
	data, err := d.Do(ctx, request)
	if err != nil {
		return nil, err
	}
	ret := new(T)
	if len(data) == 0 {
		return ret, nil
	}
	if err = json.Unmarshal(data, ret); err != nil {
		return nil, fmt.Errorf("failed to decode %v response: %w", request.Endpoint, err)
	}
	return ret, nil
}
