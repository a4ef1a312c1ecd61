package cmd

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"orderservice/config"
	"orderservice/infrastructure/messaging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		App:      config.AppConfig{Name: "order-service", Version: "test", Env: "test"},
		Server:   config.ServerConfig{Port: "0"},
		Database: config.DatabaseConfig{Type: "memory"},
		Metrics:  config.MetricsConfig{Enabled: true, Path: "/metrics", Namespace: "orders"},
		UserDirectory: config.UserDirectoryConfig{
			BaseURL: "http://127.0.0.1:1",
			Breaker: config.BreakerConfig{MaxRequests: 1, MinRequests: 5, FailureRatio: 0.5},
		},
	}
}

func TestBuildInMemoryApp(t *testing.T) {
	app, err := NewBuilder(testConfig()).WithConsumer(true).Build(context.Background())
	require.NoError(t, err)
	defer app.Close()

	assert.Nil(t, app.consumer, "consumer needs kafka brokers")
	_, ok := app.infra.NewNotifier().(*messaging.LoggingNotifier)
	assert.True(t, ok, "without brokers events are only logged")

	engine := app.GetServer()

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "user_directory_breaker")

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/orders?statuses=PAID", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "orders_http_requests_total"))
}

func TestBuildRejectsUnknownStorage(t *testing.T) {
	cfg := testConfig()
	cfg.Database.Type = "cassandra"

	_, err := NewBuilder(cfg).Build(context.Background())
	assert.ErrorContains(t, err, "unsupported database type")
}

func TestRunStopsOnCancel(t *testing.T) {
	app, err := NewBuilder(testConfig()).Build(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()
	cancel()

	assert.NoError(t, <-done)
}
