package client

import (
	"log/slog"
	"time"
)

// Option represents option
type Option func(c *Client)

// WithUploadTimeout bounds upload and support-ticket submissions
func WithUploadTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.uploadTimeout = timeout
	}
}

// WithTimeout bounds calls whose context carries no deadline
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithLogger sets logger
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}
