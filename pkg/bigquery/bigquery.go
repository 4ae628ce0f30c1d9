// Package bigquery provides bindings for the platform's dataset and table
// resources.
package bigquery

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/rs/zerolog"

	"github.com/ibandla/gcloud-go/pkg/client"
	"github.com/ibandla/gcloud-go/pkg/logging"
	"github.com/ibandla/gcloud-go/pkg/page"
)

// Dataset represents a dataset.
type Dataset struct {
	ID           string `json:"id"`
	FriendlyName string `json:"friendlyName"`
	Location     string `json:"location"`
}

// Table represents a table within a dataset.
type Table struct {
	ID        string `json:"id"`
	DatasetID string `json:"datasetId"`
	Name      string `json:"friendlyName"`
	Type      string `json:"type"`
}

// ListOptions control a listing call.
type ListOptions struct {
	// PageSize is the max-per-page hint; 0 uses the server default.
	PageSize int
}

// Service provides dataset and table operations for one project.
type Service struct {
	client    *client.Client
	projectID string
	logger    zerolog.Logger
}

// NewService creates a bigquery service bound to a project.
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
		logger:    logging.NewLogger("bigquery"),
	}, nil
}

// Datasets returns the first page of the project's datasets.
func (s *Service) Datasets(ctx context.Context, opts ListOptions) (*page.Page[Dataset], error) {
	path := fmt.Sprintf("/bigquery/v2/projects/%s/datasets", url.PathEscape(s.projectID))

	s.logger.Debug().
		Str("project", s.projectID).
		Int("page_size", opts.PageSize).
		Msg("Listing datasets")

	return client.List(ctx, s.client, path, nil, decodeJSON[Dataset], opts.PageSize)
}

// Tables returns the first page of a dataset's tables.
func (s *Service) Tables(ctx context.Context, datasetID string, opts ListOptions) (*page.Page[Table], error) {
	if datasetID == "" {
		return nil, fmt.Errorf("dataset ID is required")
	}

	path := fmt.Sprintf("/bigquery/v2/projects/%s/datasets/%s/tables",
		url.PathEscape(s.projectID), url.PathEscape(datasetID))

	s.logger.Debug().
		Str("project", s.projectID).
		Str("dataset", datasetID).
		Int("page_size", opts.PageSize).
		Msg("Listing tables")

	return client.List(ctx, s.client, path, nil, decodeJSON[Table], opts.PageSize)
}

func decodeJSON[T any](raw json.RawMessage) (T, error) {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, err
	}
	return v, nil
}
