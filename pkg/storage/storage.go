// Package storage provides bucket and object bindings over the listing
// client.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/ibandla/gcloud-go/pkg/client"
	"github.com/ibandla/gcloud-go/pkg/logging"
	"github.com/ibandla/gcloud-go/pkg/page"
)

// Bucket represents a storage bucket.
type Bucket struct {
	Name         string    `json:"name"`
	Location     string    `json:"location"`
	StorageClass string    `json:"storageClass"`
	Created      time.Time `json:"timeCreated"`
}

// Object represents an object stored in a bucket.
type Object struct {
	Name        string    `json:"name"`
	Bucket      string    `json:"bucket"`
	Size        int64     `json:"size,string"`
	ContentType string    `json:"contentType"`
	Updated     time.Time `json:"updated"`
}

// ListOptions control a listing call.
type ListOptions struct {
	// Prefix restricts the listing to names starting with it.
	Prefix string

	// PageSize is the max-per-page hint; 0 uses the server default.
	// The hint is propagated unchanged to every page of the traversal.
	PageSize int
}

// Service provides storage operations for one project.
type Service struct {
	client    *client.Client
	projectID string
	logger    zerolog.Logger
}

// NewService creates a storage service bound to a project.
func NewService(c *client.Client, projectID string) (*Service, error) {
	if c == nil {
		return nil, fmt.Errorf("client is required")
	}
	if projectID == "" {
		return nil, fmt.Errorf("project ID is required")
	}
	return &Service{
		client:    c,
		projectID: projectID,
		logger:    logging.NewLogger("storage"),
	}, nil
}

// Buckets returns the first page of the project's buckets.
func (s *Service) Buckets(ctx context.Context, opts ListOptions) (*page.Page[Bucket], error) {
	params := url.Values{"project": {s.projectID}}
	if opts.Prefix != "" {
		params.Set("prefix", opts.Prefix)
	}

	s.logger.Debug().
		Str("project", s.projectID).
		Int("page_size", opts.PageSize).
		Msg("Listing buckets")

	return client.List(ctx, s.client, "/storage/v1/b", params, decodeJSON[Bucket], opts.PageSize)
}

// Objects returns the first page of a bucket's objects.
func (s *Service) Objects(ctx context.Context, bucket string, opts ListOptions) (*page.Page[Object], error) {
	if bucket == "" {
		return nil, fmt.Errorf("bucket name is required")
	}

	params := url.Values{}
	if opts.Prefix != "" {
		params.Set("prefix", opts.Prefix)
	}

	path := fmt.Sprintf("/storage/v1/b/%s/o", url.PathEscape(bucket))

	s.logger.Debug().
		Str("bucket", bucket).
		Int("page_size", opts.PageSize).
		Msg("Listing objects")

	return client.List(ctx, s.client, path, params, decodeJSON[Object], opts.PageSize)
}

// GetBucket fetches one bucket's metadata.
func (s *Service) GetBucket(ctx context.Context, name string) (*Bucket, error) {
	if name == "" {
		return nil, fmt.Errorf("bucket name is required")
	}

	var b Bucket
	path := fmt.Sprintf("/storage/v1/b/%s", url.PathEscape(name))
	if err := s.client.GetJSON(ctx, path, nil, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// CreateBucket creates a bucket in the service's project.
func (s *Service) CreateBucket(ctx context.Context, b Bucket) (*Bucket, error) {
	if b.Name == "" {
		return nil, fmt.Errorf("bucket name is required")
	}

	params := url.Values{"project": {s.projectID}}

	var created Bucket
	if err := s.client.PostJSON(ctx, "/storage/v1/b", params, b, &created); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("bucket", created.Name).
		Str("project", s.projectID).
		Msg("Bucket created")

	return &created, nil
}

// DeleteBucket deletes a bucket. The bucket must be empty.
func (s *Service) DeleteBucket(ctx context.Context, name string) error {
	if name == "" {
		return fmt.Errorf("bucket name is required")
	}

	path := fmt.Sprintf("/storage/v1/b/%s", url.PathEscape(name))
	if err := s.client.Delete(ctx, path); err != nil {
		return err
	}

	s.logger.Info().Str("bucket", name).Msg("Bucket deleted")
	return nil
}

// decodeJSON is the decoder injected into every page of this package.
func decodeJSON[T any](raw json.RawMessage) (T, error) {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, err
	}
	return v, nil
}
