package repository

import (
	"testing"

	"uniconnect/internal/cache"
	"uniconnect/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens a migrated in-memory sqlite database.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(models.AllRecords()...))
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

func setupRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	c, err := cache.NewClient(mr.Addr())
	require.NoError(t, err)
	cache.SetClient(c)
	t.Cleanup(func() {
		cache.SetClient(nil)
		_ = c.Close()
	})
	return mr
}

func createUser(t *testing.T, db *gorm.DB, name string) *models.UserRecord {
	t.Helper()
	u := &models.UserRecord{Username: name, Email: name + "@example.com", Password: "hash", UserType: "student"}
	require.NoError(t, NewUserRepository(db).Create(t.Context(), u))
	return u
}
