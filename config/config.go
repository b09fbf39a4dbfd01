package config

// Config contains all configuration grouped by domain
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Store    StoreConfig    `yaml:"store"`
	JWT      JWTConfig      `yaml:"jwt"`
	Worker   WorkerConfig   `yaml:"worker"`
	Logging  LoggingConfig  `yaml:"logging"`
	Catalog  CatalogConfig  `yaml:"catalog"`
}

// All config structs use string fields only - packages handle conversion during initialization
type ServerConfig struct {
	Port         string `yaml:"port"`
	Environment  string `yaml:"environment"`
	ReadTimeout  string `yaml:"read_timeout"`
	WriteTimeout string `yaml:"write_timeout"`
}

type DatabaseConfig struct {
	Host         string `yaml:"host"`
	Port         string `yaml:"port"`
	User         string `yaml:"user"`
	Password     string `yaml:"password"`
	DBName       string `yaml:"dbname"`
	SSLMode      string `yaml:"sslmode"`
	MaxOpenConns string `yaml:"max_open_conns"`
}

// StoreConfig selects the persistence backend for users and interactions.
// Driver is one of "postgres", "bolt" or "none".
type StoreConfig struct {
	Driver   string `yaml:"driver"`
	BoltPath string `yaml:"bolt_path"`
}

type JWTConfig struct {
	Secret     string `yaml:"secret"`
	Expiration string `yaml:"expiration"`
}

type WorkerConfig struct {
	Interval         string `yaml:"interval"`
	HistoryRetention string `yaml:"history_retention"`
}

type LoggingConfig struct {
	Level       string `yaml:"level"`
	Format      string `yaml:"format"`
	ServiceName string `yaml:"service_name"`
	Dir         string `yaml:"dir"`
}

type CatalogConfig struct {
	Path         string `yaml:"path"`
	BuildWorkers string `yaml:"build_workers"`
}
