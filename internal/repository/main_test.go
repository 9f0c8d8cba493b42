package repository

import (
	"path/filepath"
	"sync"
	"testing"

	"blogapi/internal/cache"
	"blogapi/internal/config"
	"blogapi/internal/database"
	"blogapi/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

// setupSQLiteDB opens a migrated file-backed SQLite database with foreign
// keys enforced.
func setupSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "repo.db") + "?_foreign_keys=on"
	db, err := database.Open(sqlite.Open(dsn), &config.Config{Env: "test", DBAutoMigrate: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

func setupCache(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	cache.SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() {
		_ = cache.Close()
		cache.SetClient(nil)
	})
	return mr
}

func seedUser(t *testing.T, db *gorm.DB, name string, typ models.UserType) *models.User {
	t.Helper()
	u := &models.User{Name: name, Email: name + "@blog.dev", PasswordHash: "hash", Type: typ}
	require.NoError(t, db.Create(u).Error)
	return u
}

func seedPost(t *testing.T, db *gorm.DB, authorID uint, title string, hidden bool) *models.Post {
	t.Helper()
	p := &models.Post{Title: title, Content: "some long content", AuthorID: authorID, IsHidden: hidden}
	require.NoError(t, db.Create(p).Error)
	return p
}

// afterFirstRead runs fn once, right after the first query against table
// has read its rows and before the repository returns them.
func afterFirstRead(t *testing.T, db *gorm.DB, table string, fn func()) {
	t.Helper()
	var once sync.Once
	require.NoError(t, db.Callback().Query().After("gorm:query").Register("test:after_first_read", func(tx *gorm.DB) {
		if tx.Statement.Table == table {
			once.Do(fn)
		}
	}))
}
