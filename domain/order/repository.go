package order

import (
	"context"

	"orderservice/domain/shared"
)

// Repository Order repository interface
// The repository stores and removes the whole aggregate, lines included.
type Repository interface {
	// FindByID returns an error matching ErrOrderNotFound when absent
	FindByID(ctx context.Context, id string) (*Order, error)

	// FindByIDs returns the subset of ids that exist; missing ids are not an error
	FindByIDs(ctx context.Context, ids []string) ([]*Order, error)

	// FindByStatuses returns the orders whose status is in statuses
	FindByStatuses(ctx context.Context, statuses []Status) ([]*Order, error)

	// FindBySpecification returns the orders satisfying spec
	FindBySpecification(ctx context.Context, spec shared.Specification[*Order]) ([]*Order, error)

	// Save inserts or replaces the aggregate
	Save(ctx context.Context, o *Order) error

	// Remove deletes the aggregate; returns an error matching ErrOrderNotFound when absent
	Remove(ctx context.Context, id string) error
}
