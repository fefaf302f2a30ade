package client

import (
	"context"

	"github.com/datambit/datambit/schema"
)

// Interface defines the client interface for all exported API operations
type Interface interface {
	// Login authenticates and stores the issued token pair
	Login(ctx context.Context, username, password string, remember bool) error

	// Register creates an account using an access code
	Register(ctx context.Context, username, password, accessCode string) (string, error)

	// Logout removes stored credentials
	Logout() error

	// ValidateToken checks the stored access token with the API
	ValidateToken(ctx context.Context) (string, error)

	// RequestPasswordReset sends a one-time code to the user
	RequestPasswordReset(ctx context.Context, username string) (string, error)

	// ResetPassword sets a new password with the one-time code
	ResetPassword(ctx context.Context, username, password, accessCode string) (string, error)

	// RequestAccess submits an access request
	RequestAccess(ctx context.Context, request *schema.AccessRequest) (string, error)

	// RecentUploads lists upload batches, newest first
	RecentUploads(ctx context.Context, page, perPage int, contentType string) (*schema.ReportPage, error)

	// Report returns the per-file results of an upload batch
	Report(ctx context.Context, uploadID string) (*schema.ReportDetail, error)

	// Upload sends media files for analysis and returns the upload ID
	Upload(ctx context.Context, media string, files ...*File) (string, error)

	// SubmitTicket raises a support ticket
	SubmitTicket(ctx context.Context, reason string, files ...*File) (string, error)

	// SupportTickets lists the caller's support tickets
	SupportTickets(ctx context.Context) ([]*schema.SupportTicket, error)
}

var _ Interface = (*Client)(nil)
