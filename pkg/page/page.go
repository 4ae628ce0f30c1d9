// Package page provides the generic paged-collection type shared by all
// listing bindings in this library.
package page

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrNoFetcher is returned when a traversal is attempted on a page that
	// was constructed without a fetcher capability.
	ErrNoFetcher = errors.New("no active connection")
)

// DecodeError indicates that a raw listing item could not be decoded into the
// resource type. Construction of the page is aborted; no partial page is
// returned.
type DecodeError struct {
	Index int
	Err   error
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode item %d: %v", e.Index, e.Err)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *DecodeError) Unwrap() error {
	return e.Err
}

// RawPage is one raw response unit from a listing call.
// An empty NextToken signals the last page.
type RawPage struct {
	Items     []json.RawMessage
	NextToken string
}

// Fetcher retrieves one page of a listing given a continuation token and a
// page size hint. It is the single external boundary of this package; remote
// errors pass through Page unchanged (no retry, no suppression).
type Fetcher interface {
	FetchPage(ctx context.Context, token string, pageSize int) (*RawPage, error)
}

// DecodeFunc converts one raw listing item into the resource type.
type DecodeFunc[T any] func(raw json.RawMessage) (T, error)

// Page holds one page of decoded listing results together with the means to
// fetch the next page. A Page is immutable once constructed: Next returns a
// fresh Page and never mutates the receiver, so independent traversals
// starting from the same page share no mutable state.
type Page[T any] struct {
	items    []T
	token    string
	pageSize int
	fetcher  Fetcher
	decode   DecodeFunc[T]
}

// FromRaw builds a Page from a raw listing response.
// Every raw item is decoded up front; the first decode failure aborts with a
// *DecodeError. An empty-string token is normalized to "no token".
func FromRaw[T any](raw *RawPage, fetcher Fetcher, decode DecodeFunc[T], pageSize int) (*Page[T], error) {
	if raw == nil {
		return nil, fmt.Errorf("raw page cannot be nil")
	}
	if decode == nil {
		return nil, fmt.Errorf("decode func cannot be nil")
	}

	items := make([]T, 0, len(raw.Items))
	for i, rawItem := range raw.Items {
		item, err := decode(rawItem)
		if err != nil {
			return nil, &DecodeError{Index: i, Err: err}
		}
		items = append(items, item)
	}

	return &Page[T]{
		items:    items,
		token:    raw.NextToken,
		pageSize: pageSize,
		fetcher:  fetcher,
		decode:   decode,
	}, nil
}

// Items returns the decoded items of this page in server order.
// The returned slice is shared; callers must not modify it.
func (p *Page[T]) Items() []T {
	return p.items
}

// Token returns the continuation token, or "" on the last page.
// Useful for manual resumption after a traversal aborted mid-listing.
func (p *Page[T]) Token() string {
	return p.token
}

// PageSize returns the page size hint threaded through every fetch of this
// traversal, or 0 when the server default is used.
func (p *Page[T]) PageSize() int {
	return p.pageSize
}

// HasNext reports whether the server indicated more results beyond this page.
// No side effects, no network access.
func (p *Page[T]) HasNext() bool {
	return p.token != ""
}

// Next fetches the following page using the bound fetcher and the same page
// size hint. It returns (nil, nil) when this is the last page; callers must
// treat a nil page as end-of-sequence, not as an error.
func (p *Page[T]) Next(ctx context.Context) (*Page[T], error) {
	if !p.HasNext() {
		return nil, nil
	}
	if p.fetcher == nil {
		return nil, ErrNoFetcher
	}

	raw, err := p.fetcher.FetchPage(ctx, p.token, p.pageSize)
	if err != nil {
		return nil, err
	}

	return FromRaw(raw, p.fetcher, p.decode, p.pageSize)
}
