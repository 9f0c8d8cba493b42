package database

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"blogapi/internal/config"
	"blogapi/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T, autoMigrate bool) *gorm.DB {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "blog.db") + "?_foreign_keys=on"
	db, err := Open(sqlite.Open(dsn), &config.Config{Env: "test", DBAutoMigrate: autoMigrate})
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })
	return db
}

func TestOpen_AppliesSchema(t *testing.T) {
	db := openTestDB(t, true)

	for _, m := range PersistentModels() {
		assert.True(t, db.Migrator().HasTable(m), "missing table for %T", m)
	}
	assert.NoError(t, Ping(context.Background(), db))
}

func TestOpen_SkipsSchemaWhenDisabled(t *testing.T) {
	db := openTestDB(t, false)
	assert.False(t, db.Migrator().HasTable(&models.User{}))
}

func TestSchema_UniqueAndCascade(t *testing.T) {
	db := openTestDB(t, true)

	author := models.User{Name: "ann", Email: "ann@blog.dev", PasswordHash: "x", Type: models.UserTypeBlogger}
	require.NoError(t, db.Create(&author).Error)

	dup := models.User{Name: "ann", Email: "other@blog.dev", PasswordHash: "x", Type: models.UserTypeBlogger}
	err := db.Create(&dup).Error
	require.Error(t, err)
	assert.True(t, IsUniqueViolation(err))

	post := models.Post{Title: "Hello", Content: "long enough body", AuthorID: author.ID}
	require.NoError(t, db.Create(&post).Error)
	require.NoError(t, db.Create(&models.Comment{PostID: post.ID, AuthorID: author.ID, Content: "hi"}).Error)

	require.NoError(t, db.Delete(&models.User{}, author.ID).Error)

	var posts, comments int64
	db.Model(&models.Post{}).Count(&posts)
	db.Model(&models.Comment{}).Count(&comments)
	assert.Zero(t, posts)
	assert.Zero(t, comments)
}

func TestIsUniqueViolation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"gorm duplicated key", gorm.ErrDuplicatedKey, true},
		{"postgres unique", fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"}), true},
		{"postgres fk", &pgconn.PgError{Code: "23503"}, false},
		{"sqlite unique", errors.New("UNIQUE constraint failed: users.email"), true},
		{"other", errors.New("connection refused"), false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, IsUniqueViolation(tt.err))
		})
	}
}

func TestCustomGormLogger_LogMode(t *testing.T) {
	t.Parallel()

	base := NewGormLogger(nil)
	silent := base.LogMode(logger.Silent).(*CustomGormLogger)

	assert.Equal(t, logger.Warn, base.Config.LogLevel)
	assert.Equal(t, logger.Silent, silent.Config.LogLevel)
	// Silent must not touch the nil slog logger.
	silent.Trace(context.Background(), time.Now(), func() (string, int64) { return "SELECT 1", 1 }, errors.New("x"))
}

func TestOpen_ClosesPoolWhenSchemaFails(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	// No query expectations: the first migration statement fails.
	mock.ExpectClose()

	db, err := Open(postgres.New(postgres.Config{Conn: sqlDB}), &config.Config{Env: "test", DBAutoMigrate: true})
	require.Error(t, err)
	assert.Nil(t, db)
	assert.Contains(t, err.Error(), "auto-migrate")
	assert.NoError(t, mock.ExpectationsWereMet())
}
