package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/datambit/datambit/client/auth/store"
	"github.com/datambit/datambit/client/auth/transport"
	"github.com/datambit/datambit/schema"
)

// ErrInvalidCredentials is returned when login succeeds without issuing a token pair.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Login authenticates and stores the issued token pair. The pair lands in the
// durable tier only when remember is set and storage consent was accepted.
func (c *Client) Login(ctx context.Context, username, password string, remember bool) error {
	pair, err := send[schema.TokenPair](ctx, c, &transport.Request{
		Endpoint:    schema.EndpointLogin,
		Method:      http.MethodPost,
		Body:        &schema.Credentials{Username: username, Password: password},
		SkipRefresh: true,
	})
	if err != nil {
		return err
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		return ErrInvalidCredentials
	}
	preferDurable := c.store.DurableAllowed(remember)
	if err = c.store.Save(pair.AccessToken, pair.RefreshToken, preferDurable); err != nil {
		return fmt.Errorf("failed to store credentials: %w", err)
	}
	c.logger.Debug("logged in", "user", username, "durable", preferDurable)
	return nil
}

// Register creates an account using an access code.
func (c *Client) Register(ctx context.Context, username, password, accessCode string) (string, error) {
	return send[string](ctx, c, &transport.Request{
		Endpoint:    schema.EndpointRegister,
		Method:      http.MethodPost,
		Body:        &schema.Registration{Username: username, Password: password, AccessCode: accessCode},
		SkipRefresh: true,
	})
}

// Logout removes stored credentials from both tiers; consent is kept.
func (c *Client) Logout() error {
	return c.store.Clear()
}

// IsAuthenticated reports whether an access token is stored.
func (c *Client) IsAuthenticated() bool {
	_, ok := c.store.AccessToken()
	return ok
}

// Consent returns the recorded storage consent.
func (c *Client) Consent() store.Consent {
	return c.store.Consent()
}

// SetConsent records whether credentials may be kept in durable storage.
func (c *Client) SetConsent(accepted bool) error {
	return c.store.SetConsent(accepted)
}

// ValidateToken checks the stored access token with the API.
func (c *Client) ValidateToken(ctx context.Context) (string, error) {
	return send[string](ctx, c, &transport.Request{
		Endpoint:     schema.EndpointValidateToken,
		Method:       http.MethodPost,
		RequiresAuth: true,
	})
}

func (c *Client) RequestPasswordReset(ctx context.Context, username string) (string, error) {
	return send[string](ctx, c, &transport.Request{
		Endpoint: schema.EndpointRequestPasswordReset,
		Method:   http.MethodPost,
		Body:     &schema.PasswordResetRequest{Username: username},
	})
}

func (c *Client) ResetPassword(ctx context.Context, username, password, accessCode string) (string, error) {
	return send[string](ctx, c, &transport.Request{
		Endpoint: schema.EndpointUpdatePasswordReset,
		Method:   http.MethodPost,
		Body:     &schema.PasswordUpdate{Username: username, Password: password, AccessCode: accessCode},
	})
}

// RequestAccess submits an access request on behalf of an organisation.
func (c *Client) RequestAccess(ctx context.Context, request *schema.AccessRequest) (string, error) {
	if request == nil {
		return "", errors.New("access request was nil")
	}
	return send[string](ctx, c, &transport.Request{
		Endpoint: schema.EndpointAccessRequest,
		Method:   http.MethodPost,
		Body:     request,
	})
}
