package mysql

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"orderservice/domain/catalog"
	"orderservice/domain/order"
	"orderservice/infrastructure/persistence"
	"orderservice/infrastructure/persistence/retry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// openTestDB connects using the ORDERS_TEST_MYSQL_* variables,
// skipping the test when no server is reachable.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	host := os.Getenv("ORDERS_TEST_MYSQL_HOST")
	if host == "" {
		t.Skipf("ORDERS_TEST_MYSQL_HOST not set, skipping MySQL integration test")
	}
	cfg := &Config{
		Host:     host,
		Port:     envOr("ORDERS_TEST_MYSQL_PORT", "3306"),
		Username: envOr("ORDERS_TEST_MYSQL_USER", "root"),
		Password: os.Getenv("ORDERS_TEST_MYSQL_PASSWORD"),
		Database: envOr("ORDERS_TEST_MYSQL_DATABASE", "orders_test"),
		LogLevel: "silent",
	}
	db, err := cfg.Connect()
	if err != nil {
		t.Skipf("MySQL unavailable: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := Ping(ctx, db); err != nil {
		t.Skipf("MySQL unavailable: %v", err)
	}
	require.NoError(t, Migrate(db))
	t.Cleanup(func() { _ = Close(db) })
	return db
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func TestConfigDSN(t *testing.T) {
	cfg := &Config{Host: "db", Port: "3306", Username: "u", Password: "p", Database: "orders"}
	assert.Equal(t,
		"u:p@tcp(db:3306)/orders?parseTime=true&loc=UTC&charset=utf8mb4&collation=utf8mb4_unicode_ci&readTimeout=10s&writeTimeout=10s",
		cfg.DSN())

	cfg.applyDefaults()
	assert.Equal(t, DefaultMaxOpenConns, cfg.MaxOpenConns)
	assert.Equal(t, DefaultMaxIdleConns, cfg.MaxIdleConns)
}

func TestOrderRepositoryIntegration(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	repo := NewOrderRepository(db, retry.DefaultConfig)

	lineA, _ := order.NewLineItem(catalog.RebuildItem("item-a", "Pen", 100), 2)
	lineB, _ := order.NewLineItem(catalog.RebuildItem("item-b", "Ink", 50), 3)
	o, err := order.NewOrder("user-1", []order.LineItem{lineA, lineB}, time.Now())
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, o))
	t.Cleanup(func() { _ = repo.Remove(ctx, o.ID()) })

	loaded, err := repo.FindByID(ctx, o.ID())
	require.NoError(t, err)
	assert.Equal(t, int64(350), order.TotalOf(loaded.Lines()))
	require.Len(t, loaded.Lines(), 2)
	assert.Equal(t, "item-a", loaded.Lines()[0].Item().ID())
	assert.Equal(t, o.CreationDate(), loaded.CreationDate())

	loaded.ReplaceLines([]order.LineItem{lineB})
	loaded.ChangeStatus(order.StatusPaid)
	require.NoError(t, NewUnitOfWork(db, retry.DefaultConfig).Execute(ctx, func(ctx context.Context) error {
		return repo.Save(ctx, loaded)
	}))

	paid, err := repo.FindByStatuses(ctx, []order.Status{order.StatusPaid})
	require.NoError(t, err)
	var found bool
	for _, p := range paid {
		if p.ID() == o.ID() {
			found = true
			assert.Len(t, p.Lines(), 1)
		}
	}
	assert.True(t, found, "paid order should be listed")

	byIDs, err := repo.FindByIDs(ctx, []string{o.ID(), "missing"})
	require.NoError(t, err)
	assert.Len(t, byIDs, 1)

	require.NoError(t, repo.Remove(ctx, o.ID()))
	_, err = repo.FindByID(ctx, o.ID())
	assert.True(t, errors.Is(err, order.ErrOrderNotFound))
}

func TestItemRepositoryIntegration(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	repo := NewItemRepository(db)

	item, err := catalog.NewItem(fmt.Sprintf("Item %d", time.Now().UnixNano()), 999)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, item))

	loaded, err := repo.FindByID(ctx, item.ID())
	require.NoError(t, err)
	assert.Equal(t, item.Name(), loaded.Name())

	_, total, err := repo.FindPage(ctx, 0, 10)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, total, int64(1))

	require.NoError(t, repo.Remove(ctx, item.ID()))
	assert.True(t, errors.Is(repo.Remove(ctx, item.ID()), catalog.ErrItemNotFound))
}

func TestUnitOfWorkRunsHooksAfterCommit(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	repo := NewItemRepository(db)
	uow := NewUnitOfWork(db, retry.DefaultConfig)

	item, err := catalog.NewItem(fmt.Sprintf("Hooked %d", time.Now().UnixNano()), 10)
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Remove(ctx, item.ID()) })

	var visibleInHook bool
	require.NoError(t, uow.Execute(ctx, func(ctx context.Context) error {
		if err := repo.Save(ctx, item); err != nil {
			return err
		}
		persistence.AfterCommit(ctx, func(ctx context.Context) {
			_, err := repo.FindByID(ctx, item.ID())
			visibleInHook = err == nil
		})
		return nil
	}))
	assert.True(t, visibleInHook, "hook should observe the committed row")

	rolledBack := false
	boom := errors.New("boom")
	err = uow.Execute(ctx, func(ctx context.Context) error {
		persistence.AfterCommit(ctx, func(context.Context) { rolledBack = true })
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.False(t, rolledBack, "hooks must not run after a rollback")
}
