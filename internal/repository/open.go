package repository

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Akshu121796/Personalized-Recommendation-System/config"
	interactionPkg "github.com/Akshu121796/Personalized-Recommendation-System/internal/interaction"
	userPkg "github.com/Akshu121796/Personalized-Recommendation-System/internal/user"
	"github.com/Akshu121796/Personalized-Recommendation-System/pkg/database"
	"github.com/Akshu121796/Personalized-Recommendation-System/pkg/logger"
	"gorm.io/gorm"
)

// Store drivers
const (
	DriverPostgres = "postgres"
	DriverBolt     = "bolt"
	DriverNone     = "none"
)

// DefaultBoltPath is used when the bolt driver is selected without a path
const DefaultBoltPath = "data/trendmatrix.db"

// Stores bundles the repositories of one persistence backend.
// With DriverNone both repositories are nil.
type Stores struct {
	Driver       string
	Users        userPkg.Repository
	Interactions interactionPkg.Repository
	closeFn      func() error
}

// Enabled reports whether a persistence backend is configured
func (s *Stores) Enabled() bool {
	return s.Driver != DriverNone
}

// Close releases the backend's connections or file lock
func (s *Stores) Close() error {
	if s.closeFn == nil {
		return nil
	}
	return s.closeFn()
}

// ResolveDriver picks the store driver. Without an explicit driver, Postgres is
// used when a database host is configured and the embedded bolt store otherwise.
func ResolveDriver(cfg *config.Config) string {
	driver := strings.ToLower(strings.TrimSpace(cfg.Store.Driver))
	if driver != "" {
		return driver
	}
	if cfg.Database.Host != "" {
		return DriverPostgres
	}
	return DriverBolt
}

// Open connects to the configured backend and returns its repositories
func Open(cfg *config.Config, log *logger.Logger) (*Stores, error) {
	driver := ResolveDriver(cfg)

	switch driver {
	case DriverPostgres:
		db, err := database.NewConnection(&cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		return newGORMStores(db, log)

	case DriverBolt:
		path := cfg.Store.BoltPath
		if path == "" {
			path = DefaultBoltPath
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create store directory: %w", err)
		}
		store, err := NewBoltStore(path)
		if err != nil {
			return nil, err
		}
		log.Info("Bolt store opened at " + path)

		return &Stores{
			Driver:       driver,
			Users:        NewBoltUserRepository(store, log),
			Interactions: NewBoltInteractionRepository(store, log),
			closeFn:      store.Close,
		}, nil

	case DriverNone:
		log.Warn("No store configured, user features are disabled")
		return &Stores{Driver: driver}, nil

	default:
		return nil, fmt.Errorf("unknown store driver '%s'", cfg.Store.Driver)
	}
}

// newGORMStores migrates the schema and wraps db. The connection pool is
// closed when migration fails.
func newGORMStores(db *gorm.DB, log *logger.Logger) (*Stores, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access connection pool: %w", err)
	}
	if err := db.AutoMigrate(&userPkg.User{}, &interactionPkg.Interaction{}); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	log.Info("Database connection established and migrated")

	return &Stores{
		Driver:       DriverPostgres,
		Users:        NewGORMUserRepository(db, log),
		Interactions: NewGORMInteractionRepository(db, log),
		closeFn:      sqlDB.Close,
	}, nil
}
