package catalog

import "context"

// Repository persistence port for catalog items
type Repository interface {
	// FindByID returns an error matching ErrItemNotFound when the item does not exist
	FindByID(ctx context.Context, id string) (*Item, error)

	// FindPage returns items ordered by id together with the total count
	FindPage(ctx context.Context, offset, limit int) ([]*Item, int64, error)

	Save(ctx context.Context, item *Item) error

	// Remove returns an error matching ErrItemNotFound when nothing was deleted
	Remove(ctx context.Context, id string) error
}
