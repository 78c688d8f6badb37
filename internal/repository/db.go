package repository

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DefaultDSN is used when no DSN is configured.
const DefaultDSN = "taskflow.db"

// busyTimeout lets the CLI and a running bot share one database file.
const busyTimeout = "_busy_timeout=5000"

// NewDB opens the SQLite key-value database and migrates the entries table.
func NewDB(dsn string, log *zap.Logger) (*gorm.DB, error) {
	if dsn == "" {
		dsn = DefaultDSN
	}
	if log == nil {
		log = zap.NewNop()
	}

	memory := isMemoryDSN(dsn)
	if !memory {
		if err := ensureDir(sqlitePath(dsn)); err != nil {
			return nil, err
		}
		dsn = withParam(dsn, busyTimeout)
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.New(zap.NewStdLog(log.Named("gorm")), logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if memory {
		// Every new connection to :memory: would see an empty database.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("db handle: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, fmt.Errorf("migrate db: %w", err)
	}
	log.Debug("database ready", zap.String("path", sqlitePath(dsn)))
	return db, nil
}

// sqlitePath strips the file: scheme and query parameters.
func sqlitePath(dsn string) string {
	path := strings.TrimPrefix(dsn, "file:")
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	return path
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create db dir %q: %w", dir, err)
	}
	return nil
}

func withParam(dsn, param string) string {
	key := param[:strings.IndexByte(param, '=')+1]
	if strings.Contains(dsn, key) {
		return dsn
	}
	if strings.Contains(dsn, "?") {
		return dsn + "&" + param
	}
	return dsn + "?" + param
}

func isMemoryDSN(dsn string) bool {
	return strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory")
}
