// Package page implements token-based pagination for the platform's listing
// APIs.
//
// Listing calls return one page of results plus an opaque continuation token;
// an empty token marks the last page. Page[T] wraps one such response with
// the fetcher capability needed to retrieve the rest of the listing, so
// callers can walk an arbitrarily long listing without knowing anything about
// the transport.
//
// Example usage:
//
//	pg, err := svc.Buckets(ctx, storage.ListOptions{PageSize: 50})
//	if err != nil {
//		// handle error
//	}
//
//	it := pg.All(ctx)
//	for {
//		b, err := it.Next()
//		if err == page.Done {
//			break
//		}
//		if err != nil {
//			// handle error; it.Page().Token() allows manual resumption
//		}
//		fmt.Println(b.Name)
//	}
//
// The visitor form drives the same walk internally:
//
//	err = pg.Each(ctx, func(b storage.Bucket) error {
//		fmt.Println(b.Name)
//		return nil
//	})
//
// AllMax and EachMax bound the number of page-fetch calls performed beyond
// the starting page, which keeps a walk over an unboundedly large listing
// within a known request budget.
package page
