/*
Package order Order subdomain - Core layer of DDD architecture

The order aggregate owns its line items by value. Lines never outlive or escape the
order they belong to, so the aggregate is persisted and removed as a whole.

DDD Core Principles:
1. Domain layer does not depend on any other layer (pure business logic)
2. All fields are private, behavior exposed through methods
3. Business rules encapsulated within entities and value objects
*/
package order

import (
	"fmt"
	"time"

	"orderservice/domain/catalog"
	"orderservice/domain/shared"

	"github.com/google/uuid"
)

// Order Order aggregate root
type Order struct {
	id           string
	userID       string
	status       Status
	creationDate time.Time
	lines        []LineItem
}

// LineItem an item snapshot with its ordered quantity
type LineItem struct {
	item     catalog.Item
	quantity int
}

// NewLineItem pairs an item snapshot with a positive quantity
func NewLineItem(item catalog.Item, quantity int) (LineItem, error) {
	if quantity <= 0 {
		return LineItem{}, shared.NewValidationError("order", "quantity", "Quantity must be positive")
	}
	return LineItem{item: item, quantity: quantity}, nil
}

func (l LineItem) Item() catalog.Item { return l.item }
func (l LineItem) Quantity() int      { return l.quantity }

// Amount price × quantity
func (l LineItem) Amount() int64 {
	return l.item.Price() * int64(l.quantity)
}

// ============================================================================
// Factory Methods
// ============================================================================

// NewOrder Create new Order aggregate root in status CREATED.
// creationDate is the calendar date of now.
func NewOrder(userID string, lines []LineItem, now time.Time) (*Order, error) {
	if userID == "" {
		return nil, shared.NewValidationError("order", "userId", "User ID is required")
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate order ID: %w", err)
	}

	return &Order{
		id:           id.String(),
		userID:       userID,
		status:       StatusCreated,
		creationDate: dateOf(now),
		lines:        copyLines(lines),
	}, nil
}

// ReconstructionDTO is used by repositories to rebuild aggregates from storage
type ReconstructionDTO struct {
	ID           string
	UserID       string
	Status       Status
	CreationDate time.Time
	Lines        []LineItem
}

// RebuildFromDTO rebuilds an order without running creation rules
func RebuildFromDTO(dto ReconstructionDTO) *Order {
	return &Order{
		id:           dto.ID,
		userID:       dto.UserID,
		status:       dto.Status,
		creationDate: dateOf(dto.CreationDate),
		lines:        copyLines(dto.Lines),
	}
}

// ============================================================================
// Behavior
// ============================================================================

// ReplaceLines discards the current lines and installs the given ones.
// An empty replacement is allowed.
func (o *Order) ReplaceLines(lines []LineItem) {
	o.lines = copyLines(lines)
}

// ChangeStatus overwrites the status. Any status may follow any other.
func (o *Order) ChangeStatus(status Status) {
	o.status = status
}

// IsManageable reports whether the owner may still modify or delete the order
func (o *Order) IsManageable() bool {
	return o.status == StatusCreated
}

// BelongsTo reports ownership
func (o *Order) BelongsTo(userID string) bool {
	return userID != "" && o.userID == userID
}

// ============================================================================
// Getters
// ============================================================================

func (o *Order) ID() string              { return o.id }
func (o *Order) UserID() string          { return o.userID }
func (o *Order) Status() Status          { return o.status }
func (o *Order) CreationDate() time.Time { return o.creationDate }

// Lines returns a copy of the line items in their original order
func (o *Order) Lines() []LineItem {
	return copyLines(o.lines)
}

// TotalOf sums price × quantity over lines
func TotalOf(lines []LineItem) int64 {
	var total int64
	for _, l := range lines {
		total += l.Amount()
	}
	return total
}

func copyLines(lines []LineItem) []LineItem {
	out := make([]LineItem, len(lines))
	copy(out, lines)
	return out
}

func dateOf(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
