package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "8080", cfg.HTTP.Port)
	require.Equal(t, 10.0, cfg.Planner.BufferKm)
	require.Equal(t, 5*time.Minute, cfg.Redis.DeviceTTL)
	require.Empty(t, cfg.Kafka.Brokers)
}

func TestLoadFileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := []byte(`
http:
  port: "9090"
planner:
  weightDistance: 1
  weightCriticality: 0
  weightAirQloud: 0
  bufferKm: 5
kafka:
  brokers: ["kafka:9092"]
`)
	require.NoError(t, os.WriteFile(path, body, 0o644))

	t.Setenv("CONFIG_PATH", path)
	t.Setenv("PLANNER_BUFFER_KM", "7.5")
	t.Setenv("KAFKA_BROKERS", "a:9092, b:9092")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "9090", cfg.HTTP.Port)
	require.Equal(t, 1.0, cfg.Planner.WeightDistance)
	require.Equal(t, 0.0, cfg.Planner.WeightCriticality)
	require.Equal(t, 7.5, cfg.Planner.BufferKm)
	require.Equal(t, []string{"a:9092", "b:9092"}, cfg.Kafka.Brokers)
	require.Equal(t, "maintenance.plans", cfg.Kafka.Topic)
}

func TestValidateRejectsNegativeBuffer(t *testing.T) {
	cfg := defaultConfig()
	cfg.Planner.BufferKm = -1
	require.Error(t, cfg.Validate())
}

func TestGet(t *testing.T) {
	t.Setenv("SOME_KEY", "  ")
	require.Equal(t, "fallback", Get("SOME_KEY", "fallback"))

	t.Setenv("SOME_KEY", "value")
	require.Equal(t, "value", Get("SOME_KEY", "fallback"))
}
