package mysql

import (
	"context"
	"errors"
	"fmt"

	"orderservice/domain/order"
	"orderservice/domain/shared"
	"orderservice/infrastructure/persistence"
	"orderservice/infrastructure/persistence/mysql/po"
	"orderservice/infrastructure/persistence/retry"
	"orderservice/infrastructure/persistence/specification"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OrderRepository MySQL/GORM implementation of order repository
// GORM usage specification: Association features are prohibited to maintain DDD aggregate boundaries
type OrderRepository struct {
	db          *gorm.DB
	translator  specification.Translator
	retryConfig retry.Config
}

// NewOrderRepository Create order repository
func NewOrderRepository(db *gorm.DB, retryConfig retry.Config) *OrderRepository {
	return &OrderRepository{
		db:          db,
		translator:  specification.NewGormTranslator(),
		retryConfig: retryConfig,
	}
}

// getDB returns the transaction from context if available, otherwise the default db
func (r *OrderRepository) getDB(ctx context.Context) *gorm.DB {
	if tx := persistence.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.db.WithContext(ctx)
}

// Save Save order (create or replace)
// Note: Lines are saved manually with a delete-then-insert strategy, GORM associations are not used
// When called within UnitOfWork.Execute(), it uses the transaction from context
// When called standalone, it creates its own transaction and retries on deadlock
func (r *OrderRepository) Save(ctx context.Context, o *order.Order) error {
	orderPO, linePOs := po.FromOrderDomain(o)

	if tx := persistence.TxFromContext(ctx); tx != nil {
		return r.saveWithTx(tx, orderPO, linePOs)
	}

	return retry.ExecuteWithRetry(ctx, r.retryConfig, func(ctx context.Context) error {
		return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return r.saveWithTx(tx, orderPO, linePOs)
		})
	})
}

// saveWithTx performs the actual save operations within a transaction
func (r *OrderRepository) saveWithTx(tx *gorm.DB, orderPO *po.OrderPO, linePOs []po.OrderLinePO) error {
	upsert := clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"user_id", "status", "creation_date", "updated_at"}),
	}
	if err := tx.Clauses(upsert).Create(orderPO).Error; err != nil {
		return err
	}

	if err := tx.Where("order_id = ?", orderPO.ID).Delete(&po.OrderLinePO{}).Error; err != nil {
		return err
	}

	if len(linePOs) > 0 {
		if err := tx.Create(&linePOs).Error; err != nil {
			return err
		}
	}

	return nil
}

// FindByID Find order by ID
func (r *OrderRepository) FindByID(ctx context.Context, id string) (*order.Order, error) {
	db := r.getDB(ctx)
	var orderPO po.OrderPO

	result := db.First(&orderPO, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, order.NewOrderNotFoundError(id)
		}
		return nil, result.Error
	}

	// Manually query lines (do not use GORM's Preload to keep aggregate boundaries clear)
	var linePOs []po.OrderLinePO
	if err := db.Where("order_id = ?", id).Order("position").Find(&linePOs).Error; err != nil {
		return nil, err
	}

	return orderPO.ToDomain(linePOs), nil
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

// FindBySpecification translates spec to SQL; specifications without a translation are
// evaluated in memory over the full table
func (r *OrderRepository) FindBySpecification(ctx context.Context, spec shared.Specification[*order.Order]) ([]*order.Order, error) {
	db := r.getDB(ctx)

	scope := r.translator.Translate(spec)
	query := db.Model(&po.OrderPO{})
	if scope != nil {
		query = query.Scopes(scope)
	}

	var orderPOs []po.OrderPO
	if err := query.Order("id").Find(&orderPOs).Error; err != nil {
		return nil, err
	}

	orders, err := r.withLines(db, orderPOs)
	if err != nil {
		return nil, err
	}
	if scope == nil {
		orders = shared.Filter(ctx, orders, spec)
	}
	return orders, nil
}

// withLines batch-loads the lines of all given orders in one query
func (r *OrderRepository) withLines(db *gorm.DB, orderPOs []po.OrderPO) ([]*order.Order, error) {
	if len(orderPOs) == 0 {
		return []*order.Order{}, nil
	}

	ids := make([]string, len(orderPOs))
	for i, o := range orderPOs {
		ids[i] = o.ID
	}

	var linePOs []po.OrderLinePO
	if err := db.Where("order_id IN ?", ids).Order("order_id, position").Find(&linePOs).Error; err != nil {
		return nil, fmt.Errorf("failed to load order lines: %w", err)
	}

	byOrder := make(map[string][]po.OrderLinePO, len(orderPOs))
	for _, l := range linePOs {
		byOrder[l.OrderID] = append(byOrder[l.OrderID], l)
	}

	orders := make([]*order.Order, len(orderPOs))
	for i := range orderPOs {
		orders[i] = orderPOs[i].ToDomain(byOrder[orderPOs[i].ID])
	}
	return orders, nil
}

// Remove physically deletes the order and its lines
func (r *OrderRepository) Remove(ctx context.Context, id string) error {
	remove := func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&po.OrderLinePO{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&po.OrderPO{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return order.NewOrderNotFoundError(id)
		}
		return nil
	}

	if tx := persistence.TxFromContext(ctx); tx != nil {
		return remove(tx)
	}
	return retry.ExecuteWithRetry(ctx, r.retryConfig, func(ctx context.Context) error {
		return r.db.WithContext(ctx).Transaction(remove)
	})
}

// Compile-time interface implementation check
var _ order.Repository = (*OrderRepository)(nil)
