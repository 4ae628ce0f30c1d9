package integration

import (
	"context"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/ibandla/gcloud-go/internal/testutil"
	"github.com/ibandla/gcloud-go/pkg/client"
	"github.com/ibandla/gcloud-go/pkg/storage"
)

// setupRedis creates a Redis container for integration testing.
func setupRedis(t *testing.T) (*redis.Client, func()) {
	t.Helper()

	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForLog("Ready to accept connections"),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("Failed to start Redis container: %v", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get container host: %v", err)
	}

	port, err := container.MappedPort(ctx, "6379")
	if err != nil {
		t.Fatalf("Failed to get container port: %v", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr: host + ":" + port.Port(),
	})

	cleanup := func() {
		redisClient.Close()
		container.Terminate(ctx)
	}

	return redisClient, cleanup
}

// setupStorage wires a mock listing API, a cached client, and a storage
// service together.
func setupStorage(t *testing.T, redisClient *redis.Client) (*storage.Service, *testutil.MockAPI) {
	t.Helper()

	mock := testutil.NewMockAPI()
	t.Cleanup(mock.Close)

	cfg := client.DefaultConfig(mock.URL(), "gcloud-go-integration/1.0")
	cfg.Redis = redisClient

	c, err := client.New(cfg)
	if err != nil {
		t.Fatalf("client.New failed: %v", err)
	}

	svc, err := storage.NewService(c, "demo")
	if err != nil {
		t.Fatalf("storage.NewService failed: %v", err)
	}

	return svc, mock
}

func TestCachedListingSkipsNetwork(t *testing.T) {
	redisClient, cleanup := setupRedis(t)
	defer cleanup()

	svc, mock := setupStorage(t, redisClient)

	mock.SetPages("/storage/v1/b", []testutil.PageScript{
		{Items: []any{
			map[string]any{"name": "logs"},
			map[string]any{"name": "media"},
		}, Token: ""},
	})

	ctx := context.Background()

	first, err := svc.Buckets(ctx, storage.ListOptions{PageSize: 10})
	if err != nil {
		t.Fatalf("first Buckets call failed: %v", err)
	}
	if mock.GetRequestCount() != 1 {
		t.Fatalf("request count after first call = %d, want 1", mock.GetRequestCount())
	}

	// The second identical listing within the TTL is served from Redis.
	second, err := svc.Buckets(ctx, storage.ListOptions{PageSize: 10})
	if err != nil {
		t.Fatalf("second Buckets call failed: %v", err)
	}
	if mock.GetRequestCount() != 1 {
		t.Errorf("request count after cached call = %d, want 1", mock.GetRequestCount())
	}

	if len(first.Items()) != len(second.Items()) {
		t.Errorf("cached listing has %d items, fresh one %d", len(second.Items()), len(first.Items()))
	}
	for i := range first.Items() {
		if first.Items()[i].Name != second.Items()[i].Name {
			t.Errorf("item %d differs between fresh and cached listing", i)
		}
	}
}

func TestCachedWalkAcrossPages(t *testing.T) {
	redisClient, cleanup := setupRedis(t)
	defer cleanup()

	svc, mock := setupStorage(t, redisClient)

	mock.SetPages("/storage/v1/b", []testutil.PageScript{
		{Items: []any{map[string]any{"name": "logs"}}, Token: "T1"},
		{Items: []any{map[string]any{"name": "media"}}, Token: "T2"},
		{Items: []any{map[string]any{"name": "archive"}}, Token: ""},
	})

	ctx := context.Background()

	walk := func() []string {
		t.Helper()
		pg, err := svc.Buckets(ctx, storage.ListOptions{PageSize: 1})
		if err != nil {
			t.Fatalf("Buckets failed: %v", err)
		}
		var names []string
		if err := pg.Each(ctx, func(b storage.Bucket) error {
			names = append(names, b.Name)
			return nil
		}); err != nil {
			t.Fatalf("Each failed: %v", err)
		}
		return names
	}

	first := walk()
	if mock.GetRequestCount() != 3 {
		t.Fatalf("request count after first walk = %d, want 3", mock.GetRequestCount())
	}

	// Every page got its own cache entry, so the full second walk performs
	// no network calls at all.
	second := walk()
	if mock.GetRequestCount() != 3 {
		t.Errorf("request count after cached walk = %d, want 3", mock.GetRequestCount())
	}

	if len(first) != 3 || len(second) != 3 {
		t.Fatalf("walks yielded %v and %v, want three names each", first, second)
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("walks disagree at %d: %q vs %q", i, first[i], second[i])
		}
	}
}

func TestUncachedClientAlwaysFetches(t *testing.T) {
	// No Redis configured: each identical listing call hits the network.
	mock := testutil.NewMockAPI()
	defer mock.Close()

	mock.SetPages("/storage/v1/b", []testutil.PageScript{
		{Items: []any{map[string]any{"name": "logs"}}, Token: ""},
	})

	c, err := client.New(client.DefaultConfig(mock.URL(), "gcloud-go-integration/1.0"))
	if err != nil {
		t.Fatalf("client.New failed: %v", err)
	}

	svc, err := storage.NewService(c, "demo")
	if err != nil {
		t.Fatalf("storage.NewService failed: %v", err)
	}

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if _, err := svc.Buckets(ctx, storage.ListOptions{}); err != nil {
			t.Fatalf("Buckets call %d failed: %v", i+1, err)
		}
	}

	if mock.GetRequestCount() != 2 {
		t.Errorf("request count = %d, want 2", mock.GetRequestCount())
	}
}
