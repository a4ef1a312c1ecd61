/*
Package memory provides in-process repositories used for local runs and tests.

Aggregates are copied on the way in and on the way out, so callers only ever hold a
request-scoped copy and the map stays the single source of truth, as a database would.
*/
package memory

import (
	"context"
	"sort"
	"sync"

	"orderservice/domain/order"
	"orderservice/domain/shared"
)

// OrderRepository in-memory implementation of order.Repository
type OrderRepository struct {
	orders map[string]*order.Order
	mu     sync.RWMutex
}

// NewOrderRepository creates an empty order repository
func NewOrderRepository() *OrderRepository {
	return &OrderRepository{
		orders: make(map[string]*order.Order),
	}
}

// Save inserts or replaces the order (last write wins)
func (r *OrderRepository) Save(ctx context.Context, o *order.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.orders[o.ID()] = cloneOrder(o)
	return nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id string) (*order.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	o, exists := r.orders[id]
	if !exists {
		return nil, order.NewOrderNotFoundError(id)
	}
	return cloneOrder(o), nil
}

func (r *OrderRepository) FindByIDs(ctx context.Context, ids []string) ([]*order.Order, error) {
	if len(ids) == 0 {
		return []*order.Order{}, nil
	}
	return r.FindBySpecification(ctx, order.NewByIDsSpecification(ids))
}

func (r *OrderRepository) FindByStatuses(ctx context.Context, statuses []order.Status) ([]*order.Order, error) {
	if len(statuses) == 0 {
		return []*order.Order{}, nil
	}
	return r.FindBySpecification(ctx, order.NewByStatusesSpecification(statuses))
}

// FindBySpecification returns matching orders sorted by id (ids are time ordered)
func (r *OrderRepository) FindBySpecification(ctx context.Context, spec shared.Specification[*order.Order]) ([]*order.Order, error) {
	r.mu.RLock()
	all := make([]*order.Order, 0, len(r.orders))
	for _, o := range r.orders {
		all = append(all, o)
	}
	r.mu.RUnlock()

	matched := shared.Filter(ctx, all, spec)
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID() < matched[j].ID() })

	result := make([]*order.Order, len(matched))
	for i, o := range matched {
		result[i] = cloneOrder(o)
	}
	return result, nil
}

// Remove physically deletes the order together with its lines
func (r *OrderRepository) Remove(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.orders[id]; !exists {
		return order.NewOrderNotFoundError(id)
	}
	delete(r.orders, id)
	return nil
}

func cloneOrder(o *order.Order) *order.Order {
	return order.RebuildFromDTO(order.ReconstructionDTO{
		ID:           o.ID(),
		UserID:       o.UserID(),
		Status:       o.Status(),
		CreationDate: o.CreationDate(),
		Lines:        o.Lines(),
	})
}

// Compile-time interface implementation check
var _ order.Repository = (*OrderRepository)(nil)
