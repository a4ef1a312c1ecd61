package memory

import (
	"context"
	"sort"
	"sync"

	"orderservice/domain/catalog"
)

// ItemRepository in-memory implementation of catalog.Repository
type ItemRepository struct {
	items map[string]catalog.Item
	mu    sync.RWMutex
}

// NewItemRepository creates a repository pre-populated with items
func NewItemRepository(seed ...catalog.Item) *ItemRepository {
	repo := &ItemRepository{items: make(map[string]catalog.Item, len(seed))}
	for _, it := range seed {
		repo.items[it.ID()] = it
	}
	return repo
}

func (r *ItemRepository) FindByID(ctx context.Context, id string) (*catalog.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	it, ok := r.items[id]
	if !ok {
		return nil, catalog.NewItemNotFoundError(id)
	}
	return &it, nil
}

func (r *ItemRepository) FindPage(ctx context.Context, offset, limit int) ([]*catalog.Item, int64, error) {
	r.mu.RLock()
	ids := make([]string, 0, len(r.items))
	for id := range r.items {
		ids = append(ids, id)
	}
	snapshot := make(map[string]catalog.Item, len(r.items))
	for k, v := range r.items {
		snapshot[k] = v
	}
	r.mu.RUnlock()

	sort.Strings(ids)
	total := int64(len(ids))

	if offset < 0 {
		offset = 0
	}
	if offset >= len(ids) {
		return []*catalog.Item{}, total, nil
	}
	end := len(ids)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}

	page := make([]*catalog.Item, 0, end-offset)
	for _, id := range ids[offset:end] {
		it := snapshot[id]
		page = append(page, &it)
	}
	return page, total, nil
}

func (r *ItemRepository) Save(ctx context.Context, item *catalog.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[item.ID()] = *item
	return nil
}

func (r *ItemRepository) Remove(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return catalog.NewItemNotFoundError(id)
	}
	delete(r.items, id)
	return nil
}

var _ catalog.Repository = (*ItemRepository)(nil)
