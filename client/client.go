package client

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/oauth2"

	"github.com/datambit/datambit/client/auth/store"
	"github.com/datambit/datambit/client/auth/transport"
	"github.com/datambit/datambit/schema"
)

// DefaultUploadTimeout bounds a single upload request.
const DefaultUploadTimeout = 3 * time.Minute

// Client is a Datambit API client
type Client struct {
	dispatcher    *transport.Dispatcher
	store         *store.Store
	timeout       time.Duration
	uploadTimeout time.Duration
	logger        *slog.Logger
}

// New creates a client on top of the dispatcher
func New(dispatcher *transport.Dispatcher, options ...Option) *Client {
	ret := &Client{
		dispatcher:    dispatcher,
		store:         dispatcher.Store(),
		uploadTimeout: DefaultUploadTimeout,
		logger:        slog.Default(),
	}
	for _, opt := range options {
		opt(ret)
	}
	return ret
}

// Dispatcher returns the underlying access layer
func (c *Client) Dispatcher() *transport.Dispatcher {
	return c.dispatcher
}

// Store returns the credential store
func (c *Client) Store() *store.Store {
	return c.store
}

// TokenSource exposes the stored session as an oauth2 token source.
func (c *Client) TokenSource() oauth2.TokenSource {
	return &tokenSource{store: c.store}
}

type tokenSource struct {
	store *store.Store
}

func (t *tokenSource) Token() (*oauth2.Token, error) {
	pair, ok := t.store.Pair()
	if !ok {
		return nil, schema.ErrTokenMissing
	}
	return pair.Token(), nil
}

var errUnexpectedCode = errors.New("unexpected response code")

func send[R any](ctx context.Context, client *Client, request *transport.Request) (R, error) {
	var zero R
	if _, ok := ctx.Deadline(); !ok && client.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, client.timeout)
		defer cancel()
	}
	envelope, err := transport.Call[schema.Envelope[R]](ctx, client.dispatcher, request)
	if err != nil {
		return zero, err
	}
	if !envelope.Succeeded() {
		return zero, &schema.APIError{Status: http.StatusOK, Code: envelope.Code, Message: errUnexpectedCode.Error() + ": " + envelope.Code}
	}
	return envelope.Message, nil
}
