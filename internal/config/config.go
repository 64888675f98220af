package config

import (
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config корневая структура конфигурации приложения.

type Config struct {
	World   WorldConfig   `yaml:"world"`
	Storage StorageConfig `yaml:"storage"`
	Metrics MetricsConfig `yaml:"metrics"`
}

type WorldConfig struct {
	Seed        string `yaml:"seed"`
	PlayerLevel int    `yaml:"player_level"`
	CatalogPath string `yaml:"catalog_path"` // Пусто — встроенный каталог
}

type StorageConfig struct {
	DataPath      string `yaml:"data_path"`
	SaveSnapshots bool   `yaml:"save_snapshots"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
	Port    int  `yaml:"port"`
}

// GetSeed возвращает сид с приоритетом: config -> env -> default
func (w *WorldConfig) GetSeed() string {
	if w.Seed != "" {
		return w.Seed
	}
	if envVal := os.Getenv("GROVE_WORLD_SEED"); envVal != "" {
		return envVal
	}
	return "default"
}

// GetPlayerLevel возвращает уровень игрока с приоритетом: config -> env -> default
func (w *WorldConfig) GetPlayerLevel() int {
	if w.PlayerLevel > 0 {
		return w.PlayerLevel
	}
	if envVal := os.Getenv("GROVE_PLAYER_LEVEL"); envVal != "" {
		if level, err := strconv.Atoi(envVal); err == nil && level > 0 {
			return level
		}
	}
	return 1
}

// GetDataPath возвращает директорию данных с приоритетом: config -> env -> default
func (s *StorageConfig) GetDataPath() string {
	if s.DataPath != "" {
		return s.DataPath
	}
	if envVal := os.Getenv("GROVE_DATA_PATH"); envVal != "" {
		return envVal
	}
	return "data"
}

// GetMetricsPort возвращает порт Prometheus метрик с приоритетом: config -> env -> default
func (m *MetricsConfig) GetMetricsPort() int {
	if m.Port > 0 {
		return m.Port
	}
	if envVal := os.Getenv("GROVE_METRICS_PORT"); envVal != "" {
		if port, err := strconv.Atoi(envVal); err == nil && port > 0 {
			return port
		}
	}
	return 2112
}

// Load читает YAML файл конфигурации.
// Если path == "", пытается прочитать из ENV GROVE_CONFIG или возвращает nil, nil.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("GROVE_CONFIG")
		if path == "" {
			return nil, nil // конфиг не задан — использовать дефолты
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
