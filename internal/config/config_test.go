package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_YAMLFile(t *testing.T) {
	body := `world:
  seed: "misty-grove"
  player_level: 12
  catalog_path: "catalog.yml"
storage:
  data_path: "/tmp/grove"
  save_snapshots: true
metrics:
  enabled: true
  port: 9100
`
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "misty-grove", cfg.World.GetSeed())
	assert.Equal(t, 12, cfg.World.GetPlayerLevel())
	assert.Equal(t, "catalog.yml", cfg.World.CatalogPath)
	assert.Equal(t, "/tmp/grove", cfg.Storage.GetDataPath())
	assert.True(t, cfg.Storage.SaveSnapshots)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, 9100, cfg.Metrics.GetMetricsPort())
}

func TestLoad_NoConfig(t *testing.T) {
	t.Setenv("GROVE_CONFIG", "")

	cfg, err := Load("")
	assert.NoError(t, err, "Отсутствие конфига — не ошибка")
	assert.Nil(t, cfg)
}

func TestLoad_FromEnvPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("world:\n  seed: env-seed\n"), 0o644))
	t.Setenv("GROVE_CONFIG", path)

	cfg, err := Load("")
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, "env-seed", cfg.World.GetSeed())
}

func TestLoad_Errors(t *testing.T) {
	t.Run("отсутствующий файл", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
		assert.Error(t, err)
	})

	t.Run("битый YAML", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "broken.yml")
		require.NoError(t, os.WriteFile(path, []byte("world: [unclosed"), 0o644))
		_, err := Load(path)
		assert.Error(t, err)
	})
}

func TestDefaults(t *testing.T) {
	t.Setenv("GROVE_WORLD_SEED", "")
	t.Setenv("GROVE_PLAYER_LEVEL", "")
	t.Setenv("GROVE_DATA_PATH", "")
	t.Setenv("GROVE_METRICS_PORT", "")

	var cfg Config
	assert.Equal(t, "default", cfg.World.GetSeed())
	assert.Equal(t, 1, cfg.World.GetPlayerLevel())
	assert.Equal(t, "data", cfg.Storage.GetDataPath())
	assert.Equal(t, 2112, cfg.Metrics.GetMetricsPort())
}

func TestEnvFallbacks(t *testing.T) {
	t.Setenv("GROVE_WORLD_SEED", "seed-from-env")
	t.Setenv("GROVE_PLAYER_LEVEL", "17")
	t.Setenv("GROVE_DATA_PATH", "/var/grove")
	t.Setenv("GROVE_METRICS_PORT", "9999")

	var cfg Config
	assert.Equal(t, "seed-from-env", cfg.World.GetSeed())
	assert.Equal(t, 17, cfg.World.GetPlayerLevel())
	assert.Equal(t, "/var/grove", cfg.Storage.GetDataPath())
	assert.Equal(t, 9999, cfg.Metrics.GetMetricsPort())
}

func TestEnvFallbacks_InvalidValues(t *testing.T) {
	t.Setenv("GROVE_PLAYER_LEVEL", "not-a-number")
	t.Setenv("GROVE_METRICS_PORT", "-5")

	var cfg Config
	assert.Equal(t, 1, cfg.World.GetPlayerLevel(), "Нечисловой уровень игнорируется")
	assert.Equal(t, 2112, cfg.Metrics.GetMetricsPort(), "Отрицательный порт игнорируется")
}

func TestConfigPriority(t *testing.T) {
	// Значение из файла важнее переменной окружения
	t.Setenv("GROVE_WORLD_SEED", "env-seed")

	cfg := Config{}
	cfg.World.Seed = "file-seed"
	assert.Equal(t, "file-seed", cfg.World.GetSeed())
}
