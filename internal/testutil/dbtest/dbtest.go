// Package dbtest opens migrated in-memory databases for tests.
package dbtest

import (
	"testing"

	"contrack-backend/internal/infrastructure/db"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open returns a fresh in-memory SQLite database with every table migrated.
// It holds a single connection, so concurrent transactions queue instead of interleaving.
func Open(t testing.TB) *gorm.DB {
	t.Helper()
	gdb, err := db.OpenGorm(db.DriverSQLite, ":memory:", db.WithLogger(zerolog.Nop(), logger.Silent))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return gdb
}
