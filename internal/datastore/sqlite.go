package datastore

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3" // cgo sqlite3 driver
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mvirtanen/timesheet-go/internal/conf"
)

// SQLiteStore implements DataStore for SQLite
type SQLiteStore struct {
	DataStore
	Settings *conf.Settings
}

func validateSQLiteConfig(settings *conf.Settings) error {
	if settings.Output.SQLite.Path == "" {
		return fmt.Errorf("sqlite database path is not set")
	}
	return nil
}

// Open sets up the SQLite database connection, runs schema migration,
// materializes the reporting view and seeds the sentinel category.
func (store *SQLiteStore) Open() error {
	if err := validateSQLiteConfig(store.Settings); err != nil {
		return err
	}

	dbPath := store.Settings.Output.SQLite.Path
	if !isMemoryPath(dbPath) {
		if dir := filepath.Dir(dbPath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("failed to create database directory: %w", err)
			}
		}
	}

	db, err := gorm.Open(sqlite.Open(sqliteDSN(dbPath)), &gorm.Config{
		Logger:         createGormLogger(store.Settings.Debug),
		TranslateError: true,
	})
	if err != nil {
		return fmt.Errorf("failed to open SQLite database: %w", err)
	}

	store.DB = db
	store.lookup = newLookupCache()

	if err := performAutoMigration(db, store.Settings.Debug, "SQLite", dbPath); err != nil {
		return err
	}
	if err := createReportingView(db); err != nil {
		return err
	}
	return seedSentinelCategory(db)
}

// Close releases the underlying database handle.
func (store *SQLiteStore) Close() error {
	if store.DB == nil {
		return nil
	}
	sqlDB, err := store.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to access underlying database: %w", err)
	}
	return sqlDB.Close()
}

func isMemoryPath(path string) bool {
	return path == ":memory:" || strings.Contains(path, "mode=memory")
}

// sqliteDSN appends the foreign-key pragma to the connection string.
// Referential integrity is off by default in SQLite, and a one-shot
// `PRAGMA foreign_keys = ON` only reaches the single pooled connection it
// runs on; the DSN parameter applies to every connection the pool dials.
func sqliteDSN(path string) string {
	if strings.Contains(path, "?") {
		return path + "&_foreign_keys=on"
	}
	return path + "?_foreign_keys=on"
}

// performAutoMigration automates database migrations with error handling.
func performAutoMigration(db *gorm.DB, debug bool, dbType, connectionInfo string) error {
	if err := db.AutoMigrate(&Company{}, &Category{}, &Project{}, &Entry{}); err != nil {
		return fmt.Errorf("failed to auto-migrate %s database: %w", dbType, err)
	}

	if debug {
		log.Printf("%s database connection initialized: %s", dbType, connectionInfo)
	}

	return nil
}

// createReportingView materializes vt_entry_with_end, the derived read view
// joining entries to their labels. end_time is computed by SQLite's time()
// which wraps modulo 24h: an entry crossing midnight keeps its entry_date
// and exposes the wrapped time of day.
func createReportingView(db *gorm.DB) error {
	const viewDDL = `
CREATE VIEW IF NOT EXISTS vt_entry_with_end AS
SELECT
    e.id,
    e.entry_date,
    e.start_time,
    e.duration_minutes,
    time(e.start_time, '+' || e.duration_minutes || ' minutes') AS end_time,
    e.description,
    e.notes,
    e.billable,
    e.category_id,
    c.code        AS category_code,
    c.description AS category_description,
    e.project_id,
    p.code AS project_code,
    p.name AS project_name,
    e.company_id,
    co.name AS company_name
FROM dt_entry e
LEFT JOIN rt_category c ON e.category_id = c.id
LEFT JOIN rt_project  p ON e.project_id  = p.id
LEFT JOIN rt_company co ON e.company_id = co.id`

	if err := db.Exec(viewDDL).Error; err != nil {
		return fmt.Errorf("failed to create reporting view: %w", err)
	}
	return nil
}

// seedSentinelCategory makes sure the reserved "NONE" category exists so
// bulk ingest always has a fallback id.
func seedSentinelCategory(db *gorm.DB) error {
	sentinel := Category{Code: SentinelCategoryCode, Description: "Uncategorized"}
	err := db.Where(Category{Code: SentinelCategoryCode}).FirstOrCreate(&sentinel).Error
	if err != nil {
		return fmt.Errorf("failed to seed sentinel category: %w", err)
	}
	return nil
}

// createGormLogger configures and returns a new GORM logger instance.
func createGormLogger(debug bool) logger.Interface {
	level := logger.Warn
	if debug {
		level = logger.Info
	}
	return logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
		},
	)
}
