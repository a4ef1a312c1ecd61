package catalog

import (
	"context"
	"errors"
	"testing"

	"orderservice/domain/catalog"
	"orderservice/domain/shared"
	"orderservice/infrastructure/persistence/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService() *ApplicationService {
	return NewApplicationService(memory.NewItemRepository(), memory.NewUnitOfWork())
}

func TestCreateAndGet(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	created, err := svc.Create(ctx, ItemRequest{Name: "  Notebook ", Price: 250})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Notebook", created.Name)

	got, err := svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)
}

func TestCreateValidation(t *testing.T) {
	svc := newService()

	for _, req := range []ItemRequest{{Name: "x", Price: 1}, {Name: "Valid", Price: -1}} {
		_, err := svc.Create(context.Background(), req)
		assert.True(t, errors.Is(err, shared.ErrInvalidInput), "request %+v: %v", req, err)
	}
}

func TestList(t *testing.T) {
	ctx := context.Background()
	svc := newService()
	for _, name := range []string{"Alpha", "Bravo", "Charlie", "Delta", "Echo"} {
		_, err := svc.Create(ctx, ItemRequest{Name: name, Price: 1})
		require.NoError(t, err)
	}

	page, err := svc.List(ctx, 2, 2)
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
	assert.EqualValues(t, 5, page.TotalItems)
	assert.Equal(t, 3, page.TotalPages())

	page, err = svc.List(ctx, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, DefaultPageSize, page.PageSize)
	assert.Len(t, page.Items, 5)

	page, err = svc.List(ctx, 1, 1000)
	require.NoError(t, err)
	assert.Equal(t, MaxPageSize, page.PageSize)
}

func TestUpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	svc := newService()
	created, err := svc.Create(ctx, ItemRequest{Name: "Pen", Price: 100})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, created.ID, ItemRequest{Name: "Fountain pen", Price: 900})
	require.NoError(t, err)
	assert.Equal(t, int64(900), updated.Price)

	_, err = svc.Update(ctx, created.ID, ItemRequest{Name: "P", Price: 900})
	assert.True(t, errors.Is(err, shared.ErrInvalidInput))
	got, _ := svc.GetByID(ctx, created.ID)
	assert.Equal(t, "Fountain pen", got.Name, "failed update must not be stored")

	require.NoError(t, svc.Delete(ctx, created.ID))
	_, err = svc.GetByID(ctx, created.ID)
	assert.True(t, errors.Is(err, catalog.ErrItemNotFound))
	assert.True(t, errors.Is(svc.Delete(ctx, created.ID), catalog.ErrItemNotFound))
	_, err = svc.Update(ctx, created.ID, ItemRequest{Name: "Pen", Price: 1})
	assert.True(t, errors.Is(err, catalog.ErrItemNotFound))
}
