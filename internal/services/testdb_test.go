package services

import (
	"testing"

	"thicket/internal/db"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB 打开独立的内存 sqlite 并建表。
// 连接数限制为 1：内存库随连接销毁，同时也让并发测试在真实的
// 单语句原子性下运行，而不是各写各的库。
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("unwrap sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.Migrate(conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	return conn
}
