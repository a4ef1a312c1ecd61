package cmd

import (
	"context"
	"errors"
	"net/http"
	"time"

	"orderservice/api"
	"orderservice/config"
	"orderservice/infrastructure/messaging/kafka"
	"orderservice/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const defaultShutdownTimeout = 10 * time.Second

// App the HTTP server plus an optional embedded payment consumer
type App struct {
	config   *config.Config
	router   *api.Router
	server   *http.Server
	consumer *kafka.PaymentConsumer
	infra    *Infrastructure
}

// Run serves until ctx is cancelled or a component fails, then shuts everything down
func (a *App) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("HTTP server listening", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	if a.consumer != nil {
		g.Go(func() error {
			return a.consumer.Run(gctx)
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		return a.shutdown()
	})

	err := g.Wait()
	if closeErr := a.infra.Close(); closeErr != nil {
		logger.Error("Failed to release resources", zap.Error(closeErr))
	}
	logger.Info("Application stopped")
	return err
}

func (a *App) shutdown() error {
	timeout := a.config.Server.ShutdownTimeout
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	logger.Info("Shutting down HTTP server", zap.Duration("timeout", timeout))
	if err := a.server.Shutdown(ctx); err != nil {
		return err
	}
	return nil
}

// GetServer 获取 Gin 引擎（用于测试）
func (a *App) GetServer() *gin.Engine {
	return a.router.GetEngine()
}

// Close releases resources of an App that was built but never run
func (a *App) Close() error {
	return a.infra.Close()
}
