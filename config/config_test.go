package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "order-service", cfg.App.Name)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, "memory", cfg.Database.Type)
	assert.Equal(t, "PAYMENT_CREATED", cfg.Kafka.PaymentTopic)
	assert.Equal(t, "PAYMENT_CREATED-dlt", cfg.Kafka.DeadLetterTopic)
	assert.False(t, cfg.KafkaEnabled())
	assert.Equal(t, 2*time.Second, cfg.UserDirectory.Timeout)
	assert.Equal(t, uint32(3), cfg.UserDirectory.Breaker.MaxRequests)
	assert.InDelta(t, 0.5, cfg.UserDirectory.Breaker.FailureRatio, 1e-9)
	assert.Equal(t, 3, cfg.Kafka.Retry.MaxAttempts)
}

func TestLoadFromFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
app:
  env: production
database:
  type: mysql
  port: "3307"
user_directory:
  base_url: http://users:8080
  breaker:
    open_timeout: 5s
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("ORDERS_KAFKA_BROKERS", "kafka-1:9092,kafka-2:9092")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "mysql", cfg.Database.Type)
	assert.Equal(t, "3307", cfg.Database.Port)
	assert.Equal(t, "http://users:8080", cfg.UserDirectory.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.UserDirectory.Breaker.OpenTimeout)
	assert.True(t, cfg.KafkaEnabled())
	assert.Equal(t, "kafka-1:9092,kafka-2:9092", cfg.Kafka.Brokers)
}

func TestLoadInvalidFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("app: [unclosed"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}
