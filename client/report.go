package client

import (
	"context"
	"errors"
	"net/url"
	"strconv"

	"github.com/datambit/datambit/client/auth/transport"
	"github.com/datambit/datambit/schema"
)

// RecentUploads lists upload batches, newest first. An empty contentType lists all media kinds.
func (c *Client) RecentUploads(ctx context.Context, page, perPage int, contentType string) (*schema.ReportPage, error) {
	query := map[string]string{}
	if page > 0 {
		query["page"] = strconv.Itoa(page)
	}
	if perPage > 0 {
		query["per_page"] = strconv.Itoa(perPage)
	}
	if contentType != "" {
		query["content_type"] = contentType
	}
	ret, err := send[schema.ReportPage](ctx, c, &transport.Request{
		Endpoint:     schema.EndpointRecentUploads,
		Query:        query,
		RequiresAuth: true,
	})
	if err != nil {
		return nil, err
	}
	return &ret, nil
}

// Report returns the per-file results of an upload batch.
func (c *Client) Report(ctx context.Context, uploadID string) (*schema.ReportDetail, error) {
	if uploadID == "" {
		return nil, errors.New("upload ID was empty")
	}
	ret, err := send[schema.ReportDetail](ctx, c, &transport.Request{
		Endpoint:     schema.EndpointReport + url.PathEscape(uploadID),
		RequiresAuth: true,
	})
	if err != nil {
		return nil, err
	}
	return &ret, nil
}
