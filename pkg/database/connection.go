package database

import (
	"fmt"
	"strconv"

	"github.com/Akshu121796/Personalized-Recommendation-System/config"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// DSN builds the Postgres connection string with defaults for empty values
func DSN(cfg *config.DatabaseConfig) string {
	host := cfg.Host
	if host == "" {
		host = "localhost"
	}

	port := cfg.Port
	if port == "" {
		port = "5432"
	}

	user := cfg.User
	if user == "" {
		user = "postgres"
	}

	dbName := cfg.DBName
	if dbName == "" {
		dbName = "trendmatrix"
	}

	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	// Note: empty password is valid for local development
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		host, user, cfg.Password, dbName, port, sslMode)
}

func NewConnection(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	maxOpen := 10
	if cfg.MaxOpenConns != "" {
		n, err := strconv.Atoi(cfg.MaxOpenConns)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("invalid max open connections '%s'", cfg.MaxOpenConns)
		}
		maxOpen = n
	}

	db, err := gorm.Open(postgres.Open(DSN(cfg)), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access connection pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetMaxIdleConns(maxOpen / 2)

	return db, nil
}
