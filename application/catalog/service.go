/*
Package catalog Application Layer - item catalog maintenance.
*/
package catalog

import (
	"context"

	"orderservice/domain/catalog"
	"orderservice/domain/shared"
	"orderservice/pkg/logger"

	"go.uber.org/zap"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// ApplicationService Item application service
type ApplicationService struct {
	items catalog.Repository
	uow   shared.UnitOfWork
}

// NewApplicationService Create item application service
func NewApplicationService(items catalog.Repository, uow shared.UnitOfWork) *ApplicationService {
	return &ApplicationService{items: items, uow: uow}
}

// Create validates and stores a new item
func (s *ApplicationService) Create(ctx context.Context, req ItemRequest) (*ItemResponse, error) {
	logger.FromContext(ctx).Debug("Creating item", zap.String("name", req.Name))

	it, err := catalog.NewItem(req.Name, req.Price)
	if err != nil {
		return nil, err
	}
	err = s.uow.Execute(ctx, func(ctx context.Context) error {
		return s.items.Save(ctx, it)
	})
	if err != nil {
		return nil, err
	}
	return toItemResponse(it), nil
}

func (s *ApplicationService) GetByID(ctx context.Context, id string) (*ItemResponse, error) {
	logger.FromContext(ctx).Debug("Getting item", zap.String("item_id", id))

	it, err := s.items.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toItemResponse(it), nil
}

// List returns a 1-based page; page and size are clamped to sane bounds
func (s *ApplicationService) List(ctx context.Context, page, size int) (*ItemPage, error) {
	if page < 1 {
		page = 1
	}
	if size <= 0 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	logger.FromContext(ctx).Debug("Listing items", zap.Int("page", page), zap.Int("size", size))

	items, total, err := s.items.FindPage(ctx, (page-1)*size, size)
	if err != nil {
		return nil, err
	}

	out := make([]*ItemResponse, len(items))
	for i, it := range items {
		out[i] = toItemResponse(it)
	}
	return &ItemPage{Items: out, Page: page, PageSize: size, TotalItems: total}, nil
}

// Update replaces name and price. Existing order lines keep their snapshot.
func (s *ApplicationService) Update(ctx context.Context, id string, req ItemRequest) (*ItemResponse, error) {
	logger.FromContext(ctx).Debug("Updating item", zap.String("item_id", id))

	var it *catalog.Item
	err := s.uow.Execute(ctx, func(ctx context.Context) error {
		var err error
		it, err = s.items.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := it.Update(req.Name, req.Price); err != nil {
			return err
		}
		return s.items.Save(ctx, it)
	})
	if err != nil {
		return nil, err
	}
	return toItemResponse(it), nil
}

func (s *ApplicationService) Delete(ctx context.Context, id string) error {
	logger.FromContext(ctx).Debug("Deleting item", zap.String("item_id", id))

	return s.uow.Execute(ctx, func(ctx context.Context) error {
		return s.items.Remove(ctx, id)
	})
}
