// Package cache provides Redis-backed caching for raw listing responses.
package cache

import (
	"time"
)

const (
	// DefaultTTL is the fallback TTL when the client config does not set one.
	DefaultTTL = 60 * time.Second
)

// Entry represents one cached listing response.
type Entry struct {
	// Data is the raw response body as returned by the listing endpoint.
	Data []byte `json:"data"`

	// Expires is when the entry becomes stale.
	Expires time.Time `json:"expires"`

	// CachedAt is when the response was cached.
	CachedAt time.Time `json:"cached_at"`
}

// NewEntry creates an entry for a listing response body with a fixed TTL.
func NewEntry(data []byte, ttl time.Duration) *Entry {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	now := time.Now()
	return &Entry{
		Data:     data,
		Expires:  now.Add(ttl),
		CachedAt: now,
	}
}

// IsExpired returns true if the entry has expired.
func (e *Entry) IsExpired() bool {
	return time.Now().After(e.Expires)
}

// TTL returns the time until expiration.
// Returns 0 if already expired.
func (e *Entry) TTL() time.Duration {
	ttl := time.Until(e.Expires)
	if ttl < 0 {
		return 0
	}
	return ttl
}
