package page

import (
	"context"
	"errors"
)

// Done is returned by Iterator.Next when the listing is exhausted.
var Done = errors.New("no more items in listing")

// unlimited marks a traversal without a page-fetch budget.
const unlimited = -1

// Iterator is a lazy, forward-only, non-restartable walk over all pages of a
// listing. Items are produced on demand; a consumer that stops early causes
// no fetches beyond the page already in hand. An Iterator is not safe for
// concurrent use.
type Iterator[T any] struct {
	ctx     context.Context
	page    *Page[T]
	idx     int
	budget  int // remaining page fetches, unlimited when negative
	err     error
	done    bool
	fetches int
}

// All returns an iterator over every item of every remaining page, fetching
// pages as needed with no bound on the number of remote calls. The caller is
// responsible for scoping the listing tightly enough to terminate, or for
// using AllMax.
func (p *Page[T]) All(ctx context.Context) *Iterator[T] {
	return &Iterator[T]{ctx: ctx, page: p, budget: unlimited}
}

// AllMax is like All but performs at most maxFetches page-fetch calls beyond
// the starting page. A maxFetches of 0 or below yields only the starting
// page's items and performs no fetch.
func (p *Page[T]) AllMax(ctx context.Context, maxFetches int) *Iterator[T] {
	if maxFetches < 0 {
		maxFetches = 0
	}
	return &Iterator[T]{ctx: ctx, page: p, budget: maxFetches}
}

// Next returns the next item in the listing. It returns Done when the
// sequence is exhausted, or the fetch/decode error at the point the next item
// would have been produced. After an error the iterator is terminal; Page
// still refers to the last successfully fetched page, so the caller can
// inspect its Token to resume manually.
func (it *Iterator[T]) Next() (T, error) {
	var zero T

	if it.err != nil {
		return zero, it.err
	}
	if it.done {
		return zero, Done
	}

	for it.idx >= len(it.page.items) {
		if !it.page.HasNext() || it.budget == 0 {
			it.done = true
			return zero, Done
		}

		if err := it.ctx.Err(); err != nil {
			it.err = err
			return zero, err
		}

		next, err := it.page.Next(it.ctx)
		if err != nil {
			it.err = err
			return zero, err
		}

		if it.budget > 0 {
			it.budget--
		}
		it.fetches++
		it.page = next
		it.idx = 0
	}

	item := it.page.items[it.idx]
	it.idx++
	return item, nil
}

// Page returns the page the iterator currently holds. After Done or an error
// this is the last successfully fetched page.
func (it *Iterator[T]) Page() *Page[T] {
	return it.page
}

// Fetches returns the number of page-fetch calls performed so far.
func (it *Iterator[T]) Fetches() int {
	return it.fetches
}

// Each walks every item of every remaining page in sequence order, passing
// each to fn. It stops and returns the first error from fn or from a page
// fetch. It shares All's unbounded-fetch semantics.
func (p *Page[T]) Each(ctx context.Context, fn func(T) error) error {
	return drive(p.All(ctx), fn)
}

// EachMax is like Each but performs at most maxFetches page-fetch calls
// beyond the starting page.
func (p *Page[T]) EachMax(ctx context.Context, maxFetches int, fn func(T) error) error {
	return drive(p.AllMax(ctx, maxFetches), fn)
}

func drive[T any](it *Iterator[T], fn func(T) error) error {
	for {
		item, err := it.Next()
		if err == Done {
			return nil
		}
		if err != nil {
			return err
		}
		if err := fn(item); err != nil {
			return err
		}
	}
}
