// Package testutil holds helpers shared by package tests.
package testutil

import (
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/d60-Lab/todomate/internal/model"
	"github.com/d60-Lab/todomate/pkg/database"
)

// NewDB 打开一个独立的共享内存 sqlite 库并完成迁移
func NewDB(tb testing.TB) *gorm.DB {
	tb.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := database.Open(sqlite.Open(database.SQLiteDSN(dsn)), "silent")
	if err != nil {
		tb.Fatalf("open db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		tb.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	tb.Cleanup(func() { _ = sqlDB.Close() })

	if err := database.Migrate(db, model.All()...); err != nil {
		tb.Fatalf("migrate: %v", err)
	}
	return db
}

// SeedUser 插入一个用户
func SeedUser(tb testing.TB, db *gorm.DB, email, nickname string) *model.User {
	tb.Helper()
	u := &model.User{Email: email, Nickname: nickname, Password: "x"}
	if err := db.Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}
