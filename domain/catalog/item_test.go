package catalog

import (
	"errors"
	"strings"
	"testing"

	"orderservice/domain/shared"
)

func TestNewItem(t *testing.T) {
	tests := []struct {
		name    string
		price   int64
		wantErr string
	}{
		{"Pen", 100, ""},
		{"  Ink  ", 0, ""},
		{"X", 10, "Name must be between 2 and 255 characters"},
		{strings.Repeat("a", 256), 10, "Name must be between 2 and 255 characters"},
		{"Pen", -1, "Price must be positive"},
	}
	for _, tt := range tests {
		item, err := NewItem(tt.name, tt.price)
		if tt.wantErr == "" {
			if err != nil {
				t.Errorf("NewItem(%q): %v", tt.name, err)
				continue
			}
			if item.ID() == "" || item.Name() != strings.TrimSpace(tt.name) {
				t.Errorf("unexpected item %+v", item)
			}
			continue
		}
		if !errors.Is(err, shared.ErrInvalidInput) || err.Error() != tt.wantErr {
			t.Errorf("NewItem(%q, %d) error = %v, want %q", tt.name, tt.price, err, tt.wantErr)
		}
	}
}

func TestItemUpdateKeepsStateOnError(t *testing.T) {
	item := RebuildItem("id-1", "Pen", 100)

	if err := item.Update("P", 5); err == nil {
		t.Fatal("expected validation error")
	}
	if item.Name() != "Pen" || item.Price() != 100 {
		t.Error("failed update must not modify the item")
	}

	if err := item.Update("Fountain pen", 250); err != nil {
		t.Fatal(err)
	}
	if item.Name() != "Fountain pen" || item.Price() != 250 {
		t.Errorf("update not applied: %+v", item)
	}
}

func TestItemNotFoundError(t *testing.T) {
	err := NewItemNotFoundError("7")
	if !errors.Is(err, ErrItemNotFound) || !errors.Is(err, shared.ErrNotFound) {
		t.Error("should match both sentinels")
	}
}
