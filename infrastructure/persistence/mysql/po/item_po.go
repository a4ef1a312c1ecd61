package po

import (
	"time"

	"orderservice/domain/catalog"
)

// ItemPO catalog item persistence object
type ItemPO struct {
	ID        string    `gorm:"primaryKey;size:36"`
	Name      string    `gorm:"size:255;not null"`
	Price     int64     `gorm:"not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// TableName Specify table name
func (ItemPO) TableName() string {
	return "items"
}

func FromItemDomain(i *catalog.Item) *ItemPO {
	return &ItemPO{
		ID:    i.ID(),
		Name:  i.Name(),
		Price: i.Price(),
	}
}

func (po *ItemPO) ToDomain() *catalog.Item {
	item := catalog.RebuildItem(po.ID, po.Name, po.Price)
	return &item
}
