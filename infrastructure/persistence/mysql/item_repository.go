package mysql

import (
	"context"
	"errors"

	"orderservice/domain/catalog"
	"orderservice/infrastructure/persistence"
	"orderservice/infrastructure/persistence/mysql/po"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ItemRepository MySQL/GORM implementation of catalog.Repository
type ItemRepository struct {
	db *gorm.DB
}

func NewItemRepository(db *gorm.DB) *ItemRepository {
	return &ItemRepository{db: db}
}

func (r *ItemRepository) getDB(ctx context.Context) *gorm.DB {
	if tx := persistence.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.db.WithContext(ctx)
}

func (r *ItemRepository) FindByID(ctx context.Context, id string) (*catalog.Item, error) {
	var itemPO po.ItemPO
	if err := r.getDB(ctx).First(&itemPO, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, catalog.NewItemNotFoundError(id)
		}
		return nil, err
	}
	return itemPO.ToDomain(), nil
}

func (r *ItemRepository) FindPage(ctx context.Context, offset, limit int) ([]*catalog.Item, int64, error) {
	db := r.getDB(ctx)

	var total int64
	if err := db.Model(&po.ItemPO{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var itemPOs []po.ItemPO
	if err := db.Order("id").Offset(offset).Limit(limit).Find(&itemPOs).Error; err != nil {
		return nil, 0, err
	}

	items := make([]*catalog.Item, len(itemPOs))
	for i := range itemPOs {
		items[i] = itemPOs[i].ToDomain()
	}
	return items, total, nil
}

func (r *ItemRepository) Save(ctx context.Context, item *catalog.Item) error {
	upsert := clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "price", "updated_at"}),
	}
	return r.getDB(ctx).Clauses(upsert).Create(po.FromItemDomain(item)).Error
}

func (r *ItemRepository) Remove(ctx context.Context, id string) error {
	result := r.getDB(ctx).Where("id = ?", id).Delete(&po.ItemPO{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return catalog.NewItemNotFoundError(id)
	}
	return nil
}

var _ catalog.Repository = (*ItemRepository)(nil)
