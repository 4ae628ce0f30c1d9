package cache

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// Key represents a unique identifier for a cached listing response.
// The query values include the page token and page size, so every page of a
// listing gets its own entry.
type Key struct {
	// Endpoint is the listing endpoint path (e.g., "/storage/v1/b")
	Endpoint string

	// Query are the full query parameters of the listing call
	Query url.Values
}

// String generates a deterministic cache key string.
// Format: list:endpoint:param1=val1:param2=val2
//
// Example:
//
//	list:storage/v1/b:maxResults=50:pageToken=T1:project=demo
func (k Key) String() string {
	parts := []string{"list"}

	endpoint := strings.Trim(k.Endpoint, "/")
	if endpoint != "" {
		parts = append(parts, endpoint)
	}

	// Query params sorted for determinism
	if len(k.Query) > 0 {
		keys := make([]string, 0, len(k.Query))
		for key := range k.Query {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		for _, key := range keys {
			parts = append(parts, fmt.Sprintf("%s=%s", key, k.Query.Get(key)))
		}
	}

	return strings.Join(parts, ":")
}
