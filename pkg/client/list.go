package client

import (
	"context"
	"net/url"

	"github.com/ibandla/gcloud-go/pkg/page"
)

// List performs the first call of a listing and wraps it into a typed page
// bound to the endpoint's fetcher. Resource services are thin factories over
// this: they choose the path, the params, and the decoder.
func List[T any](ctx context.Context, c *Client, path string, params url.Values, decode page.DecodeFunc[T], pageSize int) (*page.Page[T], error) {
	fetcher := c.Pager(path, params)

	raw, err := fetcher.FetchPage(ctx, "", pageSize)
	if err != nil {
		return nil, err
	}

	return page.FromRaw(raw, fetcher, decode, pageSize)
}
