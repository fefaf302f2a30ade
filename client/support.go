package client

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/datambit/datambit/client/auth/transport"
	"github.com/datambit/datambit/schema"
)

// SubmitTicket raises a support ticket with optional attachments and returns its ID.
func (c *Client) SubmitTicket(ctx context.Context, reason string, files ...*File) (string, error) {
	if strings.TrimSpace(reason) == "" {
		return "", errors.New("reason was empty")
	}
	form, err := newForm(map[string]string{"reason": reason}, files)
	if err != nil {
		return "", err
	}
	ctx, cancel := c.withUploadTimeout(ctx)
	defer cancel()
	return send[string](ctx, c, form.request(schema.EndpointSupport))
}

// SupportTickets lists the caller's support tickets.
func (c *Client) SupportTickets(ctx context.Context) ([]*schema.SupportTicket, error) {
	return send[[]*schema.SupportTicket](ctx, c, &transport.Request{
		Endpoint:     schema.EndpointSupportTickets,
		Method:       http.MethodGet,
		RequiresAuth: true,
	})
}
