package page

import (
	"context"
	"errors"
	"testing"
)

// startPage builds the starting page {a, b} -> T1 over the given fetcher.
func startPage(t *testing.T, fetcher Fetcher) *Page[string] {
	t.Helper()
	pg, err := FromRaw(&RawPage{Items: rawItems("a", "b"), NextToken: "T1"}, fetcher, decodeString, 0)
	if err != nil {
		t.Fatalf("FromRaw failed: %v", err)
	}
	return pg
}

func collect(t *testing.T, it *Iterator[string]) []string {
	t.Helper()
	var items []string
	for {
		item, err := it.Next()
		if err == Done {
			return items
		}
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		items = append(items, item)
	}
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestAllYieldsAllPagesInOrder(t *testing.T) {
	fetcher := threePages()
	pg := startPage(t, fetcher)

	got := collect(t, pg.All(context.Background()))

	want := []string{"a", "b", "c", "d", "e"}
	if !equal(got, want) {
		t.Errorf("All yielded %v, want %v", got, want)
	}

	// Three pages means exactly two fetches beyond the starting page.
	if fetcher.calls != 2 {
		t.Errorf("fetch calls = %d, want 2", fetcher.calls)
	}
}

func TestAllMax(t *testing.T) {
	tests := []struct {
		name       string
		maxFetches int
		wantItems  []string
		wantCalls  int
	}{
		{
			name:       "zero yields only the starting page",
			maxFetches: 0,
			wantItems:  []string{"a", "b"},
			wantCalls:  0,
		},
		{
			name:       "negative treated as zero",
			maxFetches: -1,
			wantItems:  []string{"a", "b"},
			wantCalls:  0,
		},
		{
			name:       "one allows one fetch beyond the starting page",
			maxFetches: 1,
			wantItems:  []string{"a", "b", "c", "d"},
			wantCalls:  1,
		},
		{
			name:       "budget larger than listing",
			maxFetches: 10,
			wantItems:  []string{"a", "b", "c", "d", "e"},
			wantCalls:  2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fetcher := threePages()
			pg := startPage(t, fetcher)

			got := collect(t, pg.AllMax(context.Background(), tt.maxFetches))

			if !equal(got, tt.wantItems) {
				t.Errorf("AllMax(%d) yielded %v, want %v", tt.maxFetches, got, tt.wantItems)
			}
			if fetcher.calls != tt.wantCalls {
				t.Errorf("fetch calls = %d, want %d", fetcher.calls, tt.wantCalls)
			}
		})
	}
}

func TestEarlyStopCausesNoFurtherFetches(t *testing.T) {
	fetcher := threePages()
	pg := startPage(t, fetcher)

	it := pg.All(context.Background())
	// Consume only the starting page's items.
	for i := 0; i < 2; i++ {
		if _, err := it.Next(); err != nil {
			t.Fatalf("Next failed: %v", err)
		}
	}

	if fetcher.calls != 0 {
		t.Errorf("fetch calls after early stop = %d, want 0", fetcher.calls)
	}
}

func TestIteratorErrorIsTerminal(t *testing.T) {
	remoteErr := errors.New("service unavailable")
	fetcher := &scriptFetcher{
		pages: map[string]*RawPage{
			"T1": {Items: rawItems("c"), NextToken: "T2"},
		},
		failOnCall: 2,
		failErr:    remoteErr,
	}
	pg := startPage(t, fetcher)

	it := pg.All(context.Background())

	var got []string
	var gotErr error
	for {
		item, err := it.Next()
		if err != nil {
			if err == Done {
				t.Fatal("iterator reported Done instead of the fetch error")
			}
			gotErr = err
			break
		}
		got = append(got, item)
	}

	// Everything before the failing fetch is yielded; nothing after.
	if !equal(got, []string{"a", "b", "c"}) {
		t.Errorf("items before failure = %v, want [a b c]", got)
	}
	if !errors.Is(gotErr, remoteErr) {
		t.Errorf("iterator error = %v, want the remote error unchanged", gotErr)
	}

	// Terminal: the same error keeps coming back, with no extra fetches.
	callsAtFailure := fetcher.calls
	if _, err := it.Next(); !errors.Is(err, remoteErr) {
		t.Errorf("Next after failure = %v, want the same error", err)
	}
	if fetcher.calls != callsAtFailure {
		t.Errorf("fetch calls grew after terminal error: %d -> %d", callsAtFailure, fetcher.calls)
	}

	// The last successfully fetched page stays inspectable for resumption.
	if it.Page() == nil || it.Page().Token() != "T2" {
		t.Errorf("Page() after failure should hold the last good page with token T2")
	}
}

func TestIteratorDoneIsSticky(t *testing.T) {
	fetcher := &scriptFetcher{}
	pg, err := FromRaw(&RawPage{Items: rawItems("a"), NextToken: ""}, fetcher, decodeString, 0)
	if err != nil {
		t.Fatalf("FromRaw failed: %v", err)
	}

	it := pg.All(context.Background())
	collect(t, it)

	for i := 0; i < 3; i++ {
		if _, err := it.Next(); err != Done {
			t.Fatalf("Next after Done = %v, want Done", err)
		}
	}
	if fetcher.calls != 0 {
		t.Errorf("fetch calls = %d, want 0", fetcher.calls)
	}
}

func TestIteratorContextCancellation(t *testing.T) {
	fetcher := threePages()
	pg := startPage(t, fetcher)

	ctx, cancel := context.WithCancel(context.Background())
	it := pg.All(ctx)

	// Starting page items come from memory even after cancellation.
	if _, err := it.Next(); err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	cancel()
	if _, err := it.Next(); err != nil {
		t.Fatalf("Next failed: %v", err)
	}

	// The next item needs a fetch, which must fail with the context error.
	_, err := it.Next()
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Next after cancel = %v, want context.Canceled", err)
	}
	if fetcher.calls != 0 {
		t.Errorf("fetch calls = %d, want 0", fetcher.calls)
	}
}

func TestIndependentTraversals(t *testing.T) {
	fetcher := threePages()
	pg := startPage(t, fetcher)

	first := collect(t, pg.All(context.Background()))
	second := collect(t, pg.All(context.Background()))

	if !equal(first, second) {
		t.Errorf("independent traversals differ: %v vs %v", first, second)
	}
	if fetcher.calls != 4 {
		t.Errorf("fetch calls = %d, want 4 (2 per traversal)", fetcher.calls)
	}
}

func TestEach(t *testing.T) {
	fetcher := threePages()
	pg := startPage(t, fetcher)

	var got []string
	err := pg.Each(context.Background(), func(item string) error {
		got = append(got, item)
		return nil
	})
	if err != nil {
		t.Fatalf("Each failed: %v", err)
	}

	if !equal(got, []string{"a", "b", "c", "d", "e"}) {
		t.Errorf("Each visited %v", got)
	}
}

func TestEachStopsOnVisitorError(t *testing.T) {
	fetcher := threePages()
	pg := startPage(t, fetcher)

	stop := errors.New("stop")
	var visited int
	err := pg.Each(context.Background(), func(item string) error {
		visited++
		if visited == 2 {
			return stop
		}
		return nil
	})

	if !errors.Is(err, stop) {
		t.Errorf("Each error = %v, want the visitor error", err)
	}
	if visited != 2 {
		t.Errorf("visited = %d, want 2", visited)
	}
	if fetcher.calls != 0 {
		t.Errorf("fetch calls = %d, want 0 (visitor stopped on the starting page)", fetcher.calls)
	}
}

func TestEachMax(t *testing.T) {
	fetcher := threePages()
	pg := startPage(t, fetcher)

	var got []string
	err := pg.EachMax(context.Background(), 1, func(item string) error {
		got = append(got, item)
		return nil
	})
	if err != nil {
		t.Fatalf("EachMax failed: %v", err)
	}

	if !equal(got, []string{"a", "b", "c", "d"}) {
		t.Errorf("EachMax(1) visited %v, want [a b c d]", got)
	}
	if fetcher.calls != 1 {
		t.Errorf("fetch calls = %d, want 1", fetcher.calls)
	}
}

// Two-page walk end to end: page A = {x1, x2} -> "T1", page B = {x3} -> "".
func TestTwoPageWalk(t *testing.T) {
	fetcher := &scriptFetcher{
		pages: map[string]*RawPage{
			"T1": {Items: rawItems("x3"), NextToken: ""},
		},
	}
	pg, err := FromRaw(&RawPage{Items: rawItems("x1", "x2"), NextToken: "T1"}, fetcher, decodeString, 0)
	if err != nil {
		t.Fatalf("FromRaw failed: %v", err)
	}

	it := pg.All(context.Background())
	got := collect(t, it)

	if !equal(got, []string{"x1", "x2", "x3"}) {
		t.Errorf("walk yielded %v, want [x1 x2 x3]", got)
	}
	if fetcher.calls != 1 {
		t.Errorf("fetch calls = %d, want 1", fetcher.calls)
	}
	if it.Page().HasNext() {
		t.Error("final page should report no next page")
	}
	if it.Fetches() != 1 {
		t.Errorf("Fetches() = %d, want 1", it.Fetches())
	}
}
