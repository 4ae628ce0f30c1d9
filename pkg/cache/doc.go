// Package cache provides listing-response caching with a Redis backend.
//
// Listing endpoints are read-heavy and page contents are stable for short
// windows, so every raw page response is cached under a deterministic key
// derived from the endpoint path and the full query (including page token and
// page size). Each page of a listing therefore gets its own entry, and a
// repeated walk over a listing within the TTL window is served entirely from
// Redis.
//
// # Basic Usage
//
//	// Create Redis client
//	redisClient := redis.NewClient(&redis.Options{
//		Addr: "localhost:6379",
//	})
//
//	// Create cache manager
//	manager := cache.NewManager(redisClient)
//
//	// Create cache key
//	key := cache.Key{
//		Endpoint: "/storage/v1/b",
//		Query:    url.Values{"project": []string{"demo"}},
//	}
//
//	// Get from cache
//	entry, err := manager.Get(ctx, key)
//	if err == cache.ErrCacheMiss {
//		// Cache miss - fetch from the API
//	}
//
//	// Store a response body for 60 seconds
//	err = manager.Set(ctx, key, cache.NewEntry(body, 60*time.Second))
//
// # Metrics
//
// The cache manager exports Prometheus metrics:
//
//   - listing_cache_hits_total{layer="redis"} - Cache hits
//   - listing_cache_misses_total - Cache misses
//   - listing_cache_size_bytes{layer="redis"} - Cache size
//   - listing_cache_errors_total{operation} - Cache operation errors
package cache
