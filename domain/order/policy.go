package order

import (
	"context"
	"errors"
)

// AccessPolicy ownership rules guarding order operations.
//
// The policy knows nothing about roles: administrators are let through by the caller
// before the policy is consulted.
type AccessPolicy struct {
	orders Repository
}

// NewAccessPolicy creates an access policy backed by the order repository
func NewAccessPolicy(orders Repository) *AccessPolicy {
	return &AccessPolicy{orders: orders}
}

// CanCreate passes only when the principal creates an order for itself
func (p *AccessPolicy) CanCreate(principalID, ownerID string) (bool, error) {
	if principalID == "" || ownerID == "" || principalID != ownerID {
		return false, NewAccessDeniedError(msgCannotCreate)
	}
	return true, nil
}

// CanAccess passes only when the order exists and belongs to the principal.
// A missing order is reported as AccessDenied.
func (p *AccessPolicy) CanAccess(ctx context.Context, principalID, orderID string) (bool, error) {
	if _, err := p.ownedOrder(ctx, principalID, orderID, msgCannotAccess); err != nil {
		return false, err
	}
	return true, nil
}

// CanManage is CanAccess restricted to orders still in status CREATED
func (p *AccessPolicy) CanManage(ctx context.Context, principalID, orderID string) (bool, error) {
	o, err := p.ownedOrder(ctx, principalID, orderID, msgCannotManage)
	if err != nil {
		return false, err
	}
	if !o.IsManageable() {
		return false, NewAccessDeniedError(msgCannotManage)
	}
	return true, nil
}

// CanAccessBatch reports whether every existing order among orderIDs belongs to the principal.
// An ownership mismatch yields false without an error; missing principal or ids are AccessDenied.
func (p *AccessPolicy) CanAccessBatch(ctx context.Context, principalID string, orderIDs []string) (bool, error) {
	if principalID == "" || orderIDs == nil {
		return false, NewAccessDeniedError(msgCannotAccessOrders)
	}

	orders, err := p.orders.FindByIDs(ctx, orderIDs)
	if err != nil {
		return false, err
	}
	for _, o := range orders {
		if !o.BelongsTo(principalID) {
			return false, nil
		}
	}
	return true, nil
}

func (p *AccessPolicy) ownedOrder(ctx context.Context, principalID, orderID, denial string) (*Order, error) {
	if principalID == "" || orderID == "" {
		return nil, NewAccessDeniedError(denial)
	}

	o, err := p.orders.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			return nil, NewAccessDeniedError(denial)
		}
		return nil, err
	}
	if !o.BelongsTo(principalID) {
		return nil, NewAccessDeniedError(denial)
	}
	return o, nil
}
