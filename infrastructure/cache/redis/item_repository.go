/*
Package redis caches catalog items in front of the primary item repository.

Reads go through the cache and fill it on a miss. Writes go to the primary repository
first and then evict the cached copy twice: once right away and once after the enclosing
unit of work commits. The second eviction drops any old row a concurrent reader cached
while the transaction was still open.
*/
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"orderservice/domain/catalog"
	"orderservice/infrastructure/persistence"
	"orderservice/pkg/logger"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const itemKeyPrefix = "catalog:item:"

// cachedItem is the JSON form stored under itemKeyPrefix+id
type cachedItem struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Price int64  `json:"price"`
}

// ItemRepository read-through cache decorating a catalog.Repository
type ItemRepository struct {
	next   catalog.Repository
	client redis.Cmdable
	ttl    time.Duration
}

func NewItemRepository(next catalog.Repository, client redis.Cmdable, ttl time.Duration) *ItemRepository {
	return &ItemRepository{next: next, client: client, ttl: ttl}
}

func itemKey(id string) string {
	return itemKeyPrefix + id
}

// FindByID serves from Redis when possible. Cache failures fall back to the primary repository.
func (r *ItemRepository) FindByID(ctx context.Context, id string) (*catalog.Item, error) {
	raw, err := r.client.Get(ctx, itemKey(id)).Bytes()
	switch {
	case err == nil:
		var ci cachedItem
		if jsonErr := json.Unmarshal(raw, &ci); jsonErr == nil {
			item := catalog.RebuildItem(ci.ID, ci.Name, ci.Price)
			return &item, nil
		}
		logger.FromContext(ctx).Warn("Discarding undecodable cached item", zap.String("item_id", id))
	case !errors.Is(err, redis.Nil):
		logger.FromContext(ctx).Warn("Item cache read failed", zap.String("item_id", id), zap.Error(err))
	}

	item, err := r.next.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r.store(ctx, item)
	return item, nil
}

// FindPage is not cached
func (r *ItemRepository) FindPage(ctx context.Context, offset, limit int) ([]*catalog.Item, int64, error) {
	return r.next.FindPage(ctx, offset, limit)
}

func (r *ItemRepository) Save(ctx context.Context, item *catalog.Item) error {
	if err := r.next.Save(ctx, item); err != nil {
		return err
	}
	r.evict(ctx, item.ID())
	return nil
}

func (r *ItemRepository) Remove(ctx context.Context, id string) error {
	if err := r.next.Remove(ctx, id); err != nil {
		return err
	}
	r.evict(ctx, id)
	return nil
}

func (r *ItemRepository) store(ctx context.Context, item *catalog.Item) {
	raw, err := json.Marshal(cachedItem{ID: item.ID(), Name: item.Name(), Price: item.Price()})
	if err != nil {
		return
	}
	if err := r.client.Set(ctx, itemKey(item.ID()), raw, r.ttl).Err(); err != nil {
		logger.FromContext(ctx).Warn("Item cache write failed", zap.String("item_id", item.ID()), zap.Error(err))
	}
}

func (r *ItemRepository) evict(ctx context.Context, id string) {
	r.del(ctx, id)
	persistence.AfterCommit(ctx, func(ctx context.Context) { r.del(ctx, id) })
}

func (r *ItemRepository) del(ctx context.Context, id string) {
	if err := r.client.Del(ctx, itemKey(id)).Err(); err != nil {
		logger.FromContext(ctx).Warn("Item cache eviction failed", zap.String("item_id", id), zap.Error(err))
	}
}

var _ catalog.Repository = (*ItemRepository)(nil)
