package repository

import (
	"path/filepath"
	"testing"

	"github.com/Akshu121796/Personalized-Recommendation-System/config"
	userPkg "github.com/Akshu121796/Personalized-Recommendation-System/internal/user"
	"github.com/Akshu121796/Personalized-Recommendation-System/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestResolveDriver(t *testing.T) {
	testCases := []struct {
		name string
		cfg  config.Config
		want string
	}{
		{"default is bolt", config.Config{}, DriverBolt},
		{"database host selects postgres", config.Config{Database: config.DatabaseConfig{Host: "db"}}, DriverPostgres},
		{"explicit driver wins", config.Config{Store: config.StoreConfig{Driver: " None "}, Database: config.DatabaseConfig{Host: "db"}}, DriverNone},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ResolveDriver(&tc.cfg))
		})
	}
}

func TestOpen(t *testing.T) {
	t.Run("bolt", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "store.db")
		stores, err := Open(&config.Config{Store: config.StoreConfig{Driver: "bolt", BoltPath: path}}, logger.Nop())
		require.NoError(t, err)
		defer stores.Close()

		assert.True(t, stores.Enabled())
		require.NoError(t, stores.Users.Create(&userPkg.User{Username: "ada"}))
		_, err = stores.Users.FindByUsername("ada")
		assert.NoError(t, err)
	})

	t.Run("none", func(t *testing.T) {
		stores, err := Open(&config.Config{Store: config.StoreConfig{Driver: "none"}}, logger.Nop())
		require.NoError(t, err)
		assert.False(t, stores.Enabled())
		assert.Nil(t, stores.Users)
		assert.NoError(t, stores.Close())
	})

	t.Run("unknown driver", func(t *testing.T) {
		_, err := Open(&config.Config{Store: config.StoreConfig{Driver: "redis"}}, logger.Nop())
		assert.Error(t, err)
	})
}

func TestNewGORMStores_ClosesPoolWhenMigrationFails(t *testing.T) {
	dsn := "host=127.0.0.1 port=1 user=test dbname=test sslmode=disable connect_timeout=1"
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableAutomaticPing: true,
		Logger:               gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)

	stores, err := newGORMStores(db, logger.Nop())
	require.Error(t, err)
	assert.Nil(t, stores)
	assert.Contains(t, err.Error(), "failed to migrate database")

	err = sqlDB.Ping()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database is closed")
}
