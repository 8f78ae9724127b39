package common

import (
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration
type Config struct {
	Environment string         `toml:"environment" validate:"omitempty,oneof=development production"`
	Server      ServerConfig   `toml:"server"`
	Storage     StorageConfig  `toml:"storage"`
	Logging     LoggingConfig  `toml:"logging"`
	Engine      EngineConfig   `toml:"engine"`
	Entities    EntitiesConfig `toml:"entities"`
}

type ServerConfig struct {
	Port int    `toml:"port" validate:"gte=0,lte=65535"`
	Host string `toml:"host"`
	// Requests per second allowed through the API rate limiter; Burst is the
	// token bucket size. Zero disables limiting.
	RateLimit float64 `toml:"rate_limit" validate:"gte=0"`
	RateBurst int     `toml:"rate_burst" validate:"gte=0"`
}

type StorageConfig struct {
	Badger BadgerConfig `toml:"badger"`
}

// BadgerConfig represents BadgerDB-specific configuration
type BadgerConfig struct {
	Path           string `toml:"path"`
	ResetOnStartup bool   `toml:"reset_on_startup"`
}

type LoggingConfig struct {
	Level      string   `toml:"level"`       // "debug", "info", "warn", "error"
	Output     []string `toml:"output"`      // "stdout", "file"
	TimeFormat string   `toml:"time_format"` // Time format for logs
}

// EngineConfig carries chain detection settings in TOML-friendly form.
// Signal trigger keys/values are validated when the engine config is
// converted, not here.
type EngineConfig struct {
	MaxDepth             int                 `toml:"max_depth" validate:"gte=0"`
	MinConfidence        float64             `toml:"min_confidence" validate:"gte=0,lte=1"`
	CorrelationThreshold float64             `toml:"correlation_threshold" validate:"gte=0,lte=1"`
	SignalTriggers       map[string][]string `toml:"signal_triggers"`
	CacheSize            int                 `toml:"cache_size" validate:"gte=0"`
	Workers              int                 `toml:"workers" validate:"gte=0"`
	// Cron expression for periodic snapshot reload + cluster refresh.
	// Empty disables the scheduler.
	RefreshSchedule string `toml:"refresh_schedule"`
}

// EntitiesConfig configures the entity snapshot loader
type EntitiesConfig struct {
	// Directory containing YAML entity snapshot files loaded at startup
	SnapshotDir string `toml:"snapshot_dir"`
}

// DefaultConfig returns baseline configuration values
func DefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Port:      8190,
			Host:      "localhost",
			RateLimit: 50,
			RateBurst: 100,
		},
		Storage: StorageConfig{
			Badger: BadgerConfig{
				Path: "./data/signalchain",
			},
		},
		Logging: LoggingConfig{
			Level:      "info",
			Output:     []string{"stdout"},
			TimeFormat: "15:04:05.000",
		},
		Engine: EngineConfig{
			MaxDepth:             3,
			MinConfidence:        0.5,
			CorrelationThreshold: 0.6,
			RefreshSchedule:      "*/15 * * * *",
		},
		Entities: EntitiesConfig{
			SnapshotDir: "./entities",
		},
	}
}

// LoadFromFiles loads configuration in priority order: defaults, then each
// config file (later files override earlier ones), then environment
// variables. Missing files are an error; an empty path list returns
// defaults plus env overrides.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := DefaultConfig()

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	if err := validator.New().Struct(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return config, nil
}

// LoadFromFile loads a single configuration file
func LoadFromFile(path string) (*Config, error) {
	return LoadFromFiles(path)
}

// applyEnvOverrides applies SIGNALCHAIN_* environment variables over file values
func applyEnvOverrides(config *Config) {
	if v := os.Getenv("SIGNALCHAIN_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			config.Server.Port = port
		}
	}
	if v := os.Getenv("SIGNALCHAIN_HOST"); v != "" {
		config.Server.Host = v
	}
	if v := os.Getenv("SIGNALCHAIN_LOG_LEVEL"); v != "" {
		config.Logging.Level = v
	}
	if v := os.Getenv("SIGNALCHAIN_DATA_PATH"); v != "" {
		config.Storage.Badger.Path = v
	}
	if v := os.Getenv("SIGNALCHAIN_SNAPSHOT_DIR"); v != "" {
		config.Entities.SnapshotDir = v
	}
}

// ApplyFlagOverrides applies command-line flag values (highest priority)
func ApplyFlagOverrides(config *Config, port int, host string) {
	if port != 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}
