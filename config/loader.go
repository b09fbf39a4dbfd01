package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads configuration from environment variables as raw strings
// Components handle validation and defaults during initialization
func Load() *Config {
	cfg := &Config{}
	applyEnv(cfg)
	return cfg
}

// LoadFile reads a YAML config file and then applies environment variables on top.
// Environment variables take precedence over file values. A missing file is not an error.
func LoadFile(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	applyEnv(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	envOverride(&cfg.Server.Port, "SERVER_PORT")
	envOverride(&cfg.Server.Environment, "SERVER_ENV")
	envOverride(&cfg.Server.ReadTimeout, "SERVER_READ_TIMEOUT")
	envOverride(&cfg.Server.WriteTimeout, "SERVER_WRITE_TIMEOUT")

	envOverride(&cfg.Database.Host, "DB_HOST")
	envOverride(&cfg.Database.Port, "DB_PORT")
	envOverride(&cfg.Database.User, "DB_USER")
	envOverride(&cfg.Database.Password, "DB_PASSWORD")
	envOverride(&cfg.Database.DBName, "DB_NAME")
	envOverride(&cfg.Database.SSLMode, "DB_SSLMODE")
	envOverride(&cfg.Database.MaxOpenConns, "DB_MAX_OPEN_CONNS")

	envOverride(&cfg.Store.Driver, "STORE_DRIVER")
	envOverride(&cfg.Store.BoltPath, "STORE_BOLT_PATH")

	envOverride(&cfg.JWT.Secret, "JWT_SECRET")
	envOverride(&cfg.JWT.Expiration, "JWT_EXPIRATION")

	envOverride(&cfg.Worker.Interval, "WORKER_INTERVAL")
	envOverride(&cfg.Worker.HistoryRetention, "WORKER_HISTORY_RETENTION")

	envOverride(&cfg.Logging.Level, "LOG_LEVEL")
	envOverride(&cfg.Logging.Format, "LOG_FORMAT")
	envOverride(&cfg.Logging.ServiceName, "SERVICE_NAME")
	envOverride(&cfg.Logging.Dir, "LOG_DIR")

	envOverride(&cfg.Catalog.Path, "CATALOG_PATH")
	envOverride(&cfg.Catalog.BuildWorkers, "CATALOG_BUILD_WORKERS")
}

func envOverride(dst *string, key string) {
	if value := os.Getenv(key); value != "" {
		*dst = value
	}
}
