package cmd

import (
	"context"
	"errors"
	"fmt"
	"slices"

	orderapp "orderservice/application/order"
	paymentapp "orderservice/application/payment"
	"orderservice/config"
	"orderservice/domain/catalog"
	"orderservice/domain/order"
	"orderservice/domain/shared"
	cacheredis "orderservice/infrastructure/cache/redis"
	"orderservice/infrastructure/messaging"
	"orderservice/infrastructure/messaging/kafka"
	"orderservice/infrastructure/metrics"
	"orderservice/infrastructure/persistence/memory"
	"orderservice/infrastructure/persistence/mysql"
	"orderservice/infrastructure/persistence/retry"
	"orderservice/infrastructure/userdirectory"
	"orderservice/pkg/logger"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Infrastructure the adapters shared by the API server and the payment worker
type Infrastructure struct {
	Config   *config.Config
	DB       *gorm.DB
	Redis    *redis.Client
	Kafka    *kafka.Client
	Orders   order.Repository
	Items    catalog.Repository
	UoW      shared.UnitOfWork
	Registry *prometheus.Registry
	Metrics  *metrics.Metrics

	closers []func() error
}

// NewInfrastructure connects storage, cache, messaging and metrics as configured
func NewInfrastructure(ctx context.Context, cfg *config.Config) (*Infrastructure, error) {
	infra := &Infrastructure{
		Config: cfg,
		Kafka:  kafka.NewClient(cfg.Kafka.Brokers),
	}

	if cfg.Metrics.Enabled {
		infra.Registry = prometheus.NewRegistry()
		infra.Registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		infra.Metrics = metrics.New(cfg.Metrics.Namespace, infra.Registry)
	}

	if err := infra.initStorage(ctx); err != nil {
		_ = infra.Close()
		return nil, err
	}
	infra.initCache(ctx)

	return infra, nil
}

func (i *Infrastructure) initStorage(ctx context.Context) error {
	switch i.Config.Database.Type {
	case "mysql":
		logger.Info("Using MySQL/GORM persistence layer")

		db, err := mysql.FromDatabaseConfig(i.Config.Database).Connect()
		if err != nil {
			return fmt.Errorf("failed to connect to MySQL: %w", err)
		}
		i.DB = db
		i.closers = append(i.closers, func() error { return mysql.Close(db) })

		if err := mysql.Ping(ctx, db); err != nil {
			return fmt.Errorf("failed to ping MySQL: %w", err)
		}
		if i.Config.Database.AutoMigrate {
			if err := mysql.Migrate(db); err != nil {
				return fmt.Errorf("failed to auto migrate: %w", err)
			}
		}

		retryConfig := retry.FromConfig(i.Config.Database.Retry)
		i.Orders = mysql.NewOrderRepository(db, retryConfig)
		i.Items = mysql.NewItemRepository(db)
		i.UoW = mysql.NewUnitOfWork(db, retryConfig)
		logger.Info("Connected to MySQL successfully")

	case "memory", "":
		logger.Info("Using in-memory persistence layer")
		i.Orders = memory.NewOrderRepository()
		i.Items = memory.NewItemRepository()
		i.UoW = memory.NewUnitOfWork()

	default:
		return fmt.Errorf("unsupported database type %q", i.Config.Database.Type)
	}
	return nil
}

// initCache wraps the item repository with Redis. An unreachable server leaves the catalog uncached.
func (i *Infrastructure) initCache(ctx context.Context) {
	if !i.Config.Redis.Enabled {
		return
	}
	client, err := cacheredis.NewClient(ctx, i.Config.Redis)
	if err != nil {
		logger.Warn("Redis unavailable, item cache disabled", zap.Error(err))
		return
	}
	i.Redis = client
	i.closers = append(i.closers, client.Close)
	i.Items = cacheredis.NewItemRepository(i.Items, client, i.Config.Redis.ItemTTL)
	logger.Info("Item cache enabled", zap.String("addr", i.Config.Redis.Addr))
}

// NewDirectory builds the breaker-guarded user directory
func (i *Infrastructure) NewDirectory() *userdirectory.Directory {
	ud := i.Config.UserDirectory
	return userdirectory.NewDirectory(userdirectory.NewClient(ud.BaseURL, ud.Timeout), ud.Breaker, i.Metrics)
}

// NewNotifier publishes to Kafka when brokers are configured and only logs otherwise
func (i *Infrastructure) NewNotifier() order.CreatedNotifier {
	if !i.Kafka.Enabled() {
		logger.Warn("Kafka brokers not configured, order created events are only logged")
		return messaging.NewLoggingNotifier(i.Metrics)
	}
	kc := i.Config.Kafka
	publisher := kafka.NewOrderCreatedPublisher(i.Kafka.NewWriter(kc.OrderCreatedTopic), kc.OrderCreatedTopic, kc.PublishTimeout, i.Metrics)
	i.closers = append(i.closers, publisher.Close)
	return publisher
}

// NewOrderService wires the order lifecycle service
func (i *Infrastructure) NewOrderService(directory *userdirectory.Directory, notifier order.CreatedNotifier) *orderapp.ApplicationService {
	return orderapp.NewApplicationService(i.Orders, order.NewItemResolver(i.Items), directory, notifier, i.UoW)
}

// NewPaymentConsumer returns kafka.ErrDisabled when no brokers are configured
func (i *Infrastructure) NewPaymentConsumer(orders paymentapp.StatusChanger) (*kafka.PaymentConsumer, error) {
	if !i.Kafka.Enabled() {
		return nil, kafka.ErrDisabled
	}
	kc := i.Config.Kafka
	consumer := kafka.NewPaymentConsumer(
		i.Kafka.NewReader(kc.PaymentTopic, kc.ConsumerGroup),
		i.Kafka.NewWriter(kc.DeadLetterTopic),
		paymentapp.NewHandler(orders),
		retry.FromConfig(kc.Retry),
		i.Metrics,
	)
	i.closers = append(i.closers, consumer.Close)
	return consumer, nil
}

// Close releases everything in reverse order of acquisition
func (i *Infrastructure) Close() error {
	var errs []error
	for _, closeFn := range slices.Backward(i.closers) {
		if err := closeFn(); err != nil {
			errs = append(errs, err)
		}
	}
	i.closers = nil
	return errors.Join(errs...)
}
