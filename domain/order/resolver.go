package order

import (
	"context"

	"orderservice/domain/catalog"
)

// ItemFinder is the catalog lookup the resolver depends on
type ItemFinder interface {
	FindByID(ctx context.Context, id string) (*catalog.Item, error)
}

// LineRequest a requested (item, quantity) pair
type LineRequest struct {
	ItemID   string
	Quantity int
}

// ItemResolver turns requested lines into line items backed by the current catalog state
type ItemResolver struct {
	items ItemFinder
}

// NewItemResolver creates an item resolver
func NewItemResolver(items ItemFinder) *ItemResolver {
	return &ItemResolver{items: items}
}

// Resolve looks the item up and pairs its current state with the quantity.
// A missing item yields an error matching catalog.ErrItemNotFound.
func (r *ItemResolver) Resolve(ctx context.Context, req LineRequest) (LineItem, error) {
	item, err := r.items.FindByID(ctx, req.ItemID)
	if err != nil {
		return LineItem{}, err
	}
	return NewLineItem(*item, req.Quantity)
}

// ResolveAll resolves every request in order and stops at the first failure
func (r *ItemResolver) ResolveAll(ctx context.Context, reqs []LineRequest) ([]LineItem, error) {
	lines := make([]LineItem, 0, len(reqs))
	for _, req := range reqs {
		line, err := r.Resolve(ctx, req)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, nil
}
