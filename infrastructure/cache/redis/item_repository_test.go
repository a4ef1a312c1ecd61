package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"orderservice/domain/catalog"
	"orderservice/infrastructure/persistence/memory"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getRedisClient(t *testing.T) *redis.Client {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}

// countingRepository records how often the primary repository is hit
type countingRepository struct {
	*memory.ItemRepository
	finds int
}

func (r *countingRepository) FindByID(ctx context.Context, id string) (*catalog.Item, error) {
	r.finds++
	return r.ItemRepository.FindByID(ctx, id)
}

func TestItemCacheReadThrough(t *testing.T) {
	client := getRedisClient(t)
	ctx := context.Background()

	item := catalog.RebuildItem("cache-test-item", "Pen", 100)
	client.Del(ctx, itemKey(item.ID()))

	primary := &countingRepository{ItemRepository: memory.NewItemRepository(item)}
	repo := NewItemRepository(primary, client, time.Minute)

	first, err := repo.FindByID(ctx, item.ID())
	require.NoError(t, err)
	second, err := repo.FindByID(ctx, item.ID())
	require.NoError(t, err)

	assert.Equal(t, first.Name(), second.Name())
	assert.Equal(t, 1, primary.finds, "second read should be served from cache")

	updated := catalog.RebuildItem(item.ID(), "Fountain pen", 250)
	require.NoError(t, repo.Save(ctx, &updated))

	third, err := repo.FindByID(ctx, item.ID())
	require.NoError(t, err)
	assert.Equal(t, "Fountain pen", third.Name())
	assert.Equal(t, 2, primary.finds, "save should evict the cached copy")

	require.NoError(t, repo.Remove(ctx, item.ID()))
	_, err = repo.FindByID(ctx, item.ID())
	assert.ErrorIs(t, err, catalog.ErrItemNotFound)
}

func TestItemCacheFallsBackWhenRedisIsDown(t *testing.T) {
	// nothing listens on this port; every cache call fails fast
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 50 * time.Millisecond, MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })

	item := catalog.RebuildItem("i-1", "Pen", 100)
	repo := NewItemRepository(memory.NewItemRepository(item), client, time.Minute)

	got, err := repo.FindByID(context.Background(), "i-1")
	require.NoError(t, err)
	assert.Equal(t, "Pen", got.Name())

	_, err = repo.FindByID(context.Background(), "missing")
	assert.ErrorIs(t, err, catalog.ErrItemNotFound)
}
