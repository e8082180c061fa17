package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormlogger "gorm.io/gorm/logger"

	"github.com/d60-Lab/todomate/config"
)

type widget struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"uniqueIndex"`
}

func TestInitDB_SQLite(t *testing.T) {
	cfg := &config.Config{Database: config.DatabaseConfig{Driver: "sqlite", Path: ":memory:", LogLevel: "silent"}}
	db, err := InitDB(cfg)
	require.NoError(t, err)
	defer Close(db)

	require.NoError(t, Migrate(db, &widget{}))
	require.NoError(t, db.Create(&widget{Name: "a"}).Error)

	err = db.Create(&widget{Name: "a"}).Error
	require.Error(t, err)
}

func TestInitDB_SQLiteCreatesDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "todomate.db")
	db, err := InitDB(&config.Config{Database: config.DatabaseConfig{Driver: "sqlite", Path: path, LogLevel: "silent"}})
	require.NoError(t, err)
	require.NoError(t, Migrate(db, &widget{}))
	require.NoError(t, Close(db))
	assert.FileExists(t, path)
}

func TestInitDB_UnknownDriver(t *testing.T) {
	_, err := InitDB(&config.Config{Database: config.DatabaseConfig{Driver: "oracle"}})
	assert.Error(t, err)
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Silent, parseLogLevel("silent"))
	assert.Equal(t, gormlogger.Info, parseLogLevel("INFO"))
	assert.Equal(t, gormlogger.Warn, parseLogLevel(""))
}

func TestSQLiteDSN(t *testing.T) {
	assert.Equal(t, ":memory:?_foreign_keys=on", SQLiteDSN(":memory:"))
	assert.Equal(t, "file:x?mode=memory&_foreign_keys=on", SQLiteDSN("file:x?mode=memory"))
}
