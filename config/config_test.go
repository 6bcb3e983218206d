package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultsForTest() *Config {
	cfg := &Config{Depth: 10}
	cfg.Log.Level = "info"
	cfg.Log.Format = "json"
	cfg.Kafka.Topic = "mbp10-updates"
	return cfg
}

func TestApplyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
depth: 5
summary: true
log:
  level: debug
kafka:
  broker_addr: localhost:9092
  topic: book-updates
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	cfg := defaultsForTest()
	require.NoError(t, applyFile(cfg, path))

	assert.Equal(t, 5, cfg.Depth)
	assert.True(t, cfg.Summary)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "localhost:9092", cfg.Kafka.BrokerAddr)
	assert.Equal(t, "book-updates", cfg.Kafka.Topic)
}

func TestApplyFileMissing(t *testing.T) {
	cfg := defaultsForTest()
	assert.Error(t, applyFile(cfg, filepath.Join(t.TempDir(), "absent.yaml")))
}

func TestApplyFileInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("depth: [not an int"), 0o644))

	cfg := defaultsForTest()
	assert.Error(t, applyFile(cfg, path))
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("BLOCKHOUSE_KAFKA_BROKER", "kafka:29092")
	t.Setenv("BLOCKHOUSE_LOG_LEVEL", "warn")

	cfg := defaultsForTest()
	applyEnv(cfg)

	assert.Equal(t, "kafka:29092", cfg.Kafka.BrokerAddr)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "mbp10-updates", cfg.Kafka.Topic)
}

func TestValidateConfig(t *testing.T) {
	cfg := defaultsForTest()
	assert.NoError(t, validateConfig(cfg))

	cfg.Depth = 0
	assert.Error(t, validateConfig(cfg))

	cfg.Depth = 10
	cfg.Rate = -1
	assert.Error(t, validateConfig(cfg))
}
