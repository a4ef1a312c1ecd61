/*
Package catalog holds the purchasable items orders are built from.

Items are plain keyed records: an order line takes a snapshot of the item at
resolution time and never refers back to the catalog afterwards.
*/
package catalog

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"orderservice/domain/shared"

	"github.com/google/uuid"
)

const (
	MinNameLength = 2
	MaxNameLength = 255
)

// Item a catalog entry priced in minor currency units
type Item struct {
	id    string
	name  string
	price int64
}

// NewItem validates the attributes and assigns a fresh identifier
func NewItem(name string, price int64) (*Item, error) {
	name = strings.TrimSpace(name)
	if err := validate(name, price); err != nil {
		return nil, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate item ID: %w", err)
	}

	return &Item{id: id.String(), name: name, price: price}, nil
}

// RebuildItem restores an item from storage or from an order line snapshot.
// No validation is performed.
func RebuildItem(id, name string, price int64) Item {
	return Item{id: id, name: name, price: price}
}

func (i Item) ID() string   { return i.id }
func (i Item) Name() string { return i.name }
func (i Item) Price() int64 { return i.price }

// Update replaces name and price
func (i *Item) Update(name string, price int64) error {
	name = strings.TrimSpace(name)
	if err := validate(name, price); err != nil {
		return err
	}
	i.name = name
	i.price = price
	return nil
}

func validate(name string, price int64) error {
	if n := utf8.RuneCountInString(name); n < MinNameLength || n > MaxNameLength {
		return shared.NewValidationError("item", "name",
			fmt.Sprintf("Name must be between %d and %d characters", MinNameLength, MaxNameLength))
	}
	if price < 0 {
		return shared.NewValidationError("item", "price", "Price must be positive")
	}
	return nil
}
