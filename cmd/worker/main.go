package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"orderservice/cmd"
	"orderservice/config"
	"orderservice/infrastructure/messaging/kafka"
	"orderservice/pkg/logger"

	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Printf("Worker startup failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := parseConfigPath()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&cfg.Log, cfg.App.Env); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	infra, err := cmd.NewInfrastructure(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := infra.Close(); err != nil {
			logger.Error("Failed to release resources", zap.Error(err))
		}
	}()

	orderService := infra.NewOrderService(infra.NewDirectory(), infra.NewNotifier())
	consumer, err := infra.NewPaymentConsumer(orderService)
	if errors.Is(err, kafka.ErrDisabled) {
		logger.Info("Kafka brokers not configured; payment worker exiting")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to create payment consumer: %w", err)
	}

	logger.Info("Payment worker started",
		zap.String("topic", cfg.Kafka.PaymentTopic),
		zap.String("group", cfg.Kafka.ConsumerGroup),
		zap.String("dead_letter_topic", cfg.Kafka.DeadLetterTopic),
	)

	if err := consumer.Run(ctx); err != nil {
		return fmt.Errorf("payment worker exited with error: %w", err)
	}
	return nil
}

func parseConfigPath() string {
	var configPath string
	flag.StringVar(&configPath, "config", "", "Path to config file")
	flag.Parse()
	return configPath
}
