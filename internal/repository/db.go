package repository

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"focusflow/internal/log"
	"focusflow/internal/model"
)

// busyTimeoutMillis lets the CLI and a running bot share one database file.
const busyTimeoutMillis = 5000

// OpenSQLite opens (creating if needed) the database at path and migrates
// the slot table. path may be a plain file name or a "file:" DSN.
func OpenSQLite(path string) (*gorm.DB, error) {
	if path == "" {
		path = "focusflow.db"
	}
	if err := ensureDirForSQLite(path); err != nil {
		return nil, err
	}

	db, err := gorm.Open(sqlite.Open(withBusyTimeout(path)), &gorm.Config{
		Logger: logger.New(gormWriter{}, logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("open db %s: %w", sqliteFile(path), err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("open db %s: %w", sqliteFile(path), err)
	}
	// sqlite serializes writers anyway; one connection avoids SQLITE_BUSY
	// inside our own process.
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&model.Slot{}); err != nil {
		return nil, fmt.Errorf("migrate db: %w", err)
	}
	log.Debug("sqlite ready", "path", sqliteFile(path))
	return db, nil
}

func withBusyTimeout(dsn string) string {
	if strings.Contains(dsn, "_busy_timeout") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return fmt.Sprintf("%s%s_busy_timeout=%d", dsn, sep, busyTimeoutMillis)
}

func isMemoryDSN(dsn string) bool {
	return strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory")
}

func ensureDirForSQLite(dsn string) error {
	if isMemoryDSN(dsn) {
		return nil
	}
	dir := filepath.Dir(sqliteFile(dsn))
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create db dir %q: %w", dir, err)
	}
	return nil
}

// sqliteFile strips the file: prefix and query string from a DSN.
func sqliteFile(dsn string) string {
	clean := strings.TrimPrefix(dsn, "file:")
	return strings.Split(clean, "?")[0]
}

// gormWriter sends gorm's slow-query and error lines to the leveled log.
type gormWriter struct{}

func (gormWriter) Printf(format string, args ...interface{}) {
	log.Warn("gorm", "detail", strings.TrimSpace(fmt.Sprintf(format, args...)))
}
