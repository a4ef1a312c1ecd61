package po

import (
	"time"

	"orderservice/domain/catalog"
	"orderservice/domain/order"
)

// OrderPO Order persistence object
// Note: Only used for database mapping, does not contain any business logic
// Defining GORM associations is prohibited here
type OrderPO struct {
	ID           string    `gorm:"primaryKey;size:36"`
	UserID       string    `gorm:"size:64;index;not null"` // Only store ID, the user lives in another service
	Status       string    `gorm:"size:20;index;not null"`
	CreationDate time.Time `gorm:"type:date;not null"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

// TableName Specify table name
func (OrderPO) TableName() string {
	return "orders"
}

// OrderLinePO one ordered item with the item state captured at resolution time
type OrderLinePO struct {
	ID        uint64 `gorm:"primaryKey;autoIncrement"`
	OrderID   string `gorm:"size:36;index;not null"` // Only store ID, no GORM association
	Position  int    `gorm:"not null"`
	ItemID    string `gorm:"size:36;not null"`
	ItemName  string `gorm:"size:255;not null"`
	ItemPrice int64  `gorm:"not null"`
	Quantity  int    `gorm:"not null"`
}

// TableName Specify table name
func (OrderLinePO) TableName() string {
	return "order_lines"
}

// FromOrderDomain Convert domain model to persistence objects
func FromOrderDomain(o *order.Order) (*OrderPO, []OrderLinePO) {
	orderPO := &OrderPO{
		ID:           o.ID(),
		UserID:       o.UserID(),
		Status:       string(o.Status()),
		CreationDate: o.CreationDate(),
	}

	lines := o.Lines()
	linePOs := make([]OrderLinePO, len(lines))
	for i, line := range lines {
		item := line.Item()
		linePOs[i] = OrderLinePO{
			OrderID:   o.ID(),
			Position:  i,
			ItemID:    item.ID(),
			ItemName:  item.Name(),
			ItemPrice: item.Price(),
			Quantity:  line.Quantity(),
		}
	}

	return orderPO, linePOs
}

// ToDomain Convert persistence objects to domain model.
// linePOs must already be sorted by position.
func (po *OrderPO) ToDomain(linePOs []OrderLinePO) *order.Order {
	lines := make([]order.LineItem, 0, len(linePOs))
	for _, l := range linePOs {
		// stored lines were validated on the way in
		line, err := order.NewLineItem(catalog.RebuildItem(l.ItemID, l.ItemName, l.ItemPrice), l.Quantity)
		if err != nil {
			continue
		}
		lines = append(lines, line)
	}

	return order.RebuildFromDTO(order.ReconstructionDTO{
		ID:           po.ID,
		UserID:       po.UserID,
		Status:       order.Status(po.Status),
		CreationDate: po.CreationDate,
		Lines:        lines,
	})
}
