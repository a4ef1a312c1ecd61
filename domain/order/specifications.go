package order

import (
	"context"

	"orderservice/domain/shared"
)

// ByIDsSpecification filters orders whose id is in IDs
type ByIDsSpecification struct {
	IDs []string
}

// IsSatisfiedBy returns true if the order id is listed
func (spec ByIDsSpecification) IsSatisfiedBy(ctx context.Context, entity *Order) bool {
	for _, id := range spec.IDs {
		if entity.ID() == id {
			return true
		}
	}
	return false
}

// ByStatusesSpecification filters orders whose status is in Statuses
type ByStatusesSpecification struct {
	Statuses []Status
}

// IsSatisfiedBy returns true if the order has one of the statuses
func (spec ByStatusesSpecification) IsSatisfiedBy(ctx context.Context, entity *Order) bool {
	for _, st := range spec.Statuses {
		if entity.Status() == st {
			return true
		}
	}
	return false
}

// NewByIDsSpecification creates a specification to filter by id set
func NewByIDsSpecification(ids []string) shared.Specification[*Order] {
	return ByIDsSpecification{IDs: ids}
}

// NewByStatusesSpecification creates a specification to filter by status set
func NewByStatusesSpecification(statuses []Status) shared.Specification[*Order] {
	return ByStatusesSpecification{Statuses: statuses}
}
