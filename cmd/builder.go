package cmd

import (
	"context"
	"errors"
	"net/http"

	"orderservice/api"
	"orderservice/api/health"
	apiitem "orderservice/api/item"
	apiorder "orderservice/api/order"
	catalogapp "orderservice/application/catalog"
	"orderservice/config"
	"orderservice/domain/order"
	cacheredis "orderservice/infrastructure/cache/redis"
	"orderservice/infrastructure/messaging/kafka"
	"orderservice/infrastructure/metrics"
	"orderservice/infrastructure/persistence/mysql"
	"orderservice/pkg/logger"

	"go.uber.org/zap"
)

// AppBuilder builds an App from configuration
type AppBuilder struct {
	cfg              *config.Config
	consumerOverride *bool
}

// NewBuilder creates a new AppBuilder
func NewBuilder(cfg *config.Config) *AppBuilder {
	return &AppBuilder{cfg: cfg}
}

// WithConsumer forces the embedded payment consumer on or off regardless of kafka.consumer_enabled
func (b *AppBuilder) WithConsumer(enabled bool) *AppBuilder {
	b.consumerOverride = &enabled
	return b
}

// Build creates the App instance. The logger must be initialized beforehand.
func (b *AppBuilder) Build(ctx context.Context) (*App, error) {
	logger.Info("Starting application",
		zap.String("app", b.cfg.App.Name),
		zap.String("version", b.cfg.App.Version),
		zap.String("env", b.cfg.App.Env))

	infra, err := NewInfrastructure(ctx, b.cfg)
	if err != nil {
		return nil, err
	}

	directory := infra.NewDirectory()
	orderService := infra.NewOrderService(directory, infra.NewNotifier())
	itemService := catalogapp.NewApplicationService(infra.Items, infra.UoW)

	app := &App{config: b.cfg, infra: infra}

	if b.consumerEnabled() {
		consumer, err := infra.NewPaymentConsumer(orderService)
		switch {
		case errors.Is(err, kafka.ErrDisabled):
			logger.Warn("Payment consumer requested but Kafka brokers are not configured")
		case err != nil:
			_ = infra.Close()
			return nil, err
		default:
			app.consumer = consumer
		}
	}

	healthController := health.NewController(b.cfg).
		AddInfo("user_directory_breaker", func() string { return directory.State().String() })
	if infra.DB != nil {
		db := infra.DB
		healthController.AddProbe("database", func(ctx context.Context) error { return mysql.Ping(ctx, db) })
	}
	if infra.Redis != nil {
		healthController.AddProbe("redis", cacheredis.Pinger(infra.Redis))
	}
	if infra.Kafka.Enabled() {
		healthController.AddProbe("kafka", infra.Kafka.Ping)
	}

	var metricsHandler http.Handler
	if infra.Registry != nil {
		metricsHandler = metrics.Handler(infra.Registry)
	}

	router := api.NewRouter(
		b.cfg,
		infra.Metrics,
		metricsHandler,
		healthController,
		apiorder.NewController(orderService, order.NewAccessPolicy(infra.Orders)),
		apiitem.NewController(itemService),
	)
	router.SetupRoutes()

	app.router = router
	app.server = &http.Server{
		Addr:         ":" + b.cfg.Server.Port,
		Handler:      router.GetEngine(),
		ReadTimeout:  b.cfg.Server.ReadTimeout,
		WriteTimeout: b.cfg.Server.WriteTimeout,
	}

	return app, nil
}

func (b *AppBuilder) consumerEnabled() bool {
	if b.consumerOverride != nil {
		return *b.consumerOverride
	}
	return b.cfg.Kafka.ConsumerEnabled
}
