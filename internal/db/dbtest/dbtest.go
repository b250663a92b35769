// Package dbtest поднимает для тестов SQLite в памяти с применённой схемой.
package dbtest

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"issue_tracker/internal/config"
	"issue_tracker/internal/db"
)

// NewSQLite возвращает чистую базу на одном соединении: у :memory: каждое соединение открывает отдельную базу.
func NewSQLite(t testing.TB) *sql.DB {
	t.Helper()

	cfg := config.DBConfig{
		Driver:          config.DriverSQLite,
		DSN:             "file::memory:?_foreign_keys=on",
		MaxOpenConns:    1,
		MaxIdleConns:    1,
		ConnMaxLifetime: time.Hour,
	}

	ctx := context.Background()
	conn, err := db.Open(ctx, cfg)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	if err := db.Migrate(ctx, conn, config.DriverSQLite); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}
	return conn
}
