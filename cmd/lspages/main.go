// Command lspages lists resources of a project, walking every page of the
// listing within an optional page-fetch budget.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ibandla/gcloud-go/pkg/bigquery"
	"github.com/ibandla/gcloud-go/pkg/client"
	"github.com/ibandla/gcloud-go/pkg/logadmin"
	"github.com/ibandla/gcloud-go/pkg/logging"
	"github.com/ibandla/gcloud-go/pkg/page"
	"github.com/ibandla/gcloud-go/pkg/storage"
)

// listOptions carries the flags of one listing run.
type listOptions struct {
	resource   string
	project    string
	bucket     string
	dataset    string
	prefix     string
	pageSize   int
	maxFetches int
}

func main() {
	var opts listOptions
	flag.StringVar(&opts.resource, "resource", "buckets", "resource kind: buckets|objects|datasets|tables|metrics|sinks")
	flag.StringVar(&opts.project, "project", os.Getenv("PROJECT_ID"), "project ID")
	flag.StringVar(&opts.bucket, "bucket", "", "bucket name (for -resource objects)")
	flag.StringVar(&opts.dataset, "dataset", "", "dataset ID (for -resource tables)")
	flag.StringVar(&opts.prefix, "prefix", "", "name prefix filter")
	flag.IntVar(&opts.pageSize, "page-size", 0, "max results per page (0 = server default)")
	flag.IntVar(&opts.maxFetches, "max-fetches", -1, "max page fetches beyond the first page (-1 = unlimited)")
	flag.Parse()

	logging.Setup(logging.Config{
		Level:  logging.LogLevel(getEnv("LOG_LEVEL", "info")),
		Pretty: os.Getenv("LOG_PRETTY") == "true",
		Output: os.Stderr,
	})

	baseURL := getEnv("API_BASE_URL", "http://localhost:8080")
	userAgent := getEnv("USER_AGENT", "lspages/0.1.0")

	cfg := client.DefaultConfig(baseURL, userAgent)

	// Optional listing cache
	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		redisClient := redis.NewClient(&redis.Options{Addr: redisURL})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			cancel()
			log.Fatalf("Failed to connect to Redis at %s: %v", redisURL, err)
		}
		cancel()
		cfg.Redis = redisClient
		defer redisClient.Close()
	}

	apiClient, err := client.New(cfg)
	if err != nil {
		log.Fatalf("Failed to create API client: %v", err)
	}
	defer apiClient.Close()

	if opts.project == "" {
		log.Fatal("project ID is required (set -project or PROJECT_ID)")
	}

	ctx := context.Background()
	names, err := listResource(ctx, apiClient, opts)
	if err != nil {
		log.Fatalf("Listing failed: %v", err)
	}

	for _, name := range names {
		fmt.Println(name)
	}
}

// listResource walks one listing and returns the names in server order.
func listResource(ctx context.Context, c *client.Client, opts listOptions) ([]string, error) {
	switch opts.resource {
	case "buckets":
		svc, err := storage.NewService(c, opts.project)
		if err != nil {
			return nil, err
		}
		pg, err := svc.Buckets(ctx, storage.ListOptions{Prefix: opts.prefix, PageSize: opts.pageSize})
		if err != nil {
			return nil, err
		}
		return collectNames(ctx, pg, opts.maxFetches, func(b storage.Bucket) string { return b.Name })

	case "objects":
		if opts.bucket == "" {
			return nil, fmt.Errorf("-bucket is required for -resource objects")
		}
		svc, err := storage.NewService(c, opts.project)
		if err != nil {
			return nil, err
		}
		pg, err := svc.Objects(ctx, opts.bucket, storage.ListOptions{Prefix: opts.prefix, PageSize: opts.pageSize})
		if err != nil {
			return nil, err
		}
		return collectNames(ctx, pg, opts.maxFetches, func(o storage.Object) string { return o.Name })

	case "datasets":
		svc, err := bigquery.NewService(c, opts.project)
		if err != nil {
			return nil, err
		}
		pg, err := svc.Datasets(ctx, bigquery.ListOptions{PageSize: opts.pageSize})
		if err != nil {
			return nil, err
		}
		return collectNames(ctx, pg, opts.maxFetches, func(d bigquery.Dataset) string { return d.ID })

	case "tables":
		if opts.dataset == "" {
			return nil, fmt.Errorf("-dataset is required for -resource tables")
		}
		svc, err := bigquery.NewService(c, opts.project)
		if err != nil {
			return nil, err
		}
		pg, err := svc.Tables(ctx, opts.dataset, bigquery.ListOptions{PageSize: opts.pageSize})
		if err != nil {
			return nil, err
		}
		return collectNames(ctx, pg, opts.maxFetches, func(tb bigquery.Table) string { return tb.ID })

	case "metrics":
		svc, err := logadmin.NewService(c, opts.project)
		if err != nil {
			return nil, err
		}
		pg, err := svc.Metrics(ctx, logadmin.ListOptions{PageSize: opts.pageSize})
		if err != nil {
			return nil, err
		}
		return collectNames(ctx, pg, opts.maxFetches, func(m logadmin.Metric) string { return m.Name })

	case "sinks":
		svc, err := logadmin.NewService(c, opts.project)
		if err != nil {
			return nil, err
		}
		pg, err := svc.Sinks(ctx, logadmin.ListOptions{PageSize: opts.pageSize})
		if err != nil {
			return nil, err
		}
		return collectNames(ctx, pg, opts.maxFetches, func(s logadmin.Sink) string { return s.Name })

	default:
		return nil, fmt.Errorf("unknown resource kind %q", opts.resource)
	}
}

// collectNames walks all pages within the fetch budget and projects each item
// to its display name.
func collectNames[T any](ctx context.Context, pg *page.Page[T], maxFetches int, name func(T) string) ([]string, error) {
	var names []string
	visit := func(item T) error {
		names = append(names, name(item))
		return nil
	}

	var err error
	if maxFetches < 0 {
		err = pg.Each(ctx, visit)
	} else {
		err = pg.EachMax(ctx, maxFetches, visit)
	}
	if err != nil {
		return nil, err
	}
	return names, nil
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
