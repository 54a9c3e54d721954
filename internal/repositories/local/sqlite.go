package local

import (
	"context"
	"database/sql"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"

	// registers the "sqlite" driver
	_ "modernc.org/sqlite"

	"github.com/KirkDiggler/rpg-sheet/internal/errors"
	"github.com/KirkDiggler/rpg-sheet/internal/pkg/clock"
	"github.com/KirkDiggler/rpg-sheet/internal/repositories/local/migrations"
)

const (
	migrationTable = "schema_migrations"
	migrateUp      = "-- +migrate Up"
	migrateDown    = "-- +migrate Down"
)

// SQLiteConfig contains configuration for the SQLite blob store
type SQLiteConfig struct {
	// Path is the database file. ":memory:" keeps the store in memory.
	Path  string
	Clock clock.Clock
}

// Validate validates the SQLiteConfig
func (cfg *SQLiteConfig) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("path", strings.TrimSpace(cfg.Path), vb)
	return vb.Build()
}

type sqliteRepository struct {
	db    *sql.DB
	clock clock.Clock
}

// NewSQLite opens the database at cfg.Path and applies the embedded
// migrations
func NewSQLite(ctx context.Context, cfg *SQLiteConfig) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	dsn := cfg.Path
	if dsn != ":memory:" {
		dsn = filepath.Clean(dsn)
	}
	dsn += "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open sqlite db %s", cfg.Path)
	}
	// a single connection keeps ":memory:" databases alive and serializes writes
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errors.Wrapf(err, "failed to ping sqlite db %s", cfg.Path)
	}
	if err := applyMigrations(ctx, db, migrations.FS); err != nil {
		_ = db.Close()
		return nil, err
	}

	c := cfg.Clock
	if c == nil {
		c = clock.New()
	}

	return &sqliteRepository{db: db, clock: c}, nil
}

func (r *sqliteRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if input.Key == "" {
		return nil, errors.InvalidArgument("key cannot be empty")
	}

	var value []byte
	err := r.db.QueryRowContext(ctx, `SELECT value FROM blobs WHERE key = ?`, input.Key).Scan(&value)
	if err != nil {
		if err == sql.ErrNoRows {
			return &GetOutput{}, nil
		}
		slog.ErrorContext(ctx, "failed to read local blob",
			"key", input.Key,
			"error", err.Error())
		return nil, errors.Wrapf(err, "failed to read %s", input.Key)
	}

	return &GetOutput{Value: value}, nil
}

func (r *sqliteRepository) Put(ctx context.Context, input PutInput) (*PutOutput, error) {
	if input.Key == "" {
		return nil, errors.InvalidArgument("key cannot be empty")
	}

	value := input.Value
	if value == nil {
		value = []byte{}
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO blobs (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		input.Key, value, r.clock.Now().UnixMilli())
	if err != nil {
		slog.ErrorContext(ctx, "failed to write local blob",
			"key", input.Key,
			"error", err.Error())
		return nil, errors.Wrapf(err, "failed to write %s", input.Key)
	}

	slog.DebugContext(ctx, "wrote local blob",
		"key", input.Key,
		"bytes", len(value))

	return &PutOutput{}, nil
}

func (r *sqliteRepository) Close() error {
	return r.db.Close()
}

// applyMigrations runs each embedded .sql file once, in name order
func applyMigrations(ctx context.Context, db *sql.DB, migrationFS fs.FS) error {
	entries, err := fs.ReadDir(migrationFS, ".")
	if err != nil {
		return errors.Wrap(err, "failed to read migrations")
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)

	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS `+migrationTable+` (
		name TEXT PRIMARY KEY,
		applied_at INTEGER NOT NULL
	)`); err != nil {
		return errors.Wrap(err, "failed to create migration table")
	}

	for _, file := range files {
		var found int
		err := db.QueryRowContext(ctx, `SELECT 1 FROM `+migrationTable+` WHERE name = ?`, file).Scan(&found)
		if err == nil {
			continue
		}
		if err != sql.ErrNoRows {
			return errors.Wrapf(err, "failed to check migration %s", file)
		}

		content, err := fs.ReadFile(migrationFS, file)
		if err != nil {
			return errors.Wrapf(err, "failed to read migration %s", file)
		}

		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return errors.Wrapf(err, "failed to begin migration %s", file)
		}
		if _, err := tx.ExecContext(ctx, upSection(string(content))); err != nil {
			_ = tx.Rollback()
			return errors.Wrapf(err, "failed to apply migration %s", file)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO `+migrationTable+` (name, applied_at) VALUES (?, strftime('%s','now') * 1000)`,
			file); err != nil {
			_ = tx.Rollback()
			return errors.Wrapf(err, "failed to record migration %s", file)
		}
		if err := tx.Commit(); err != nil {
			return errors.Wrapf(err, "failed to commit migration %s", file)
		}
	}

	return nil
}

func upSection(content string) string {
	start := strings.Index(content, migrateUp)
	if start == -1 {
		return content
	}
	content = content[start+len(migrateUp):]
	if end := strings.Index(content, migrateDown); end != -1 {
		content = content[:end]
	}
	return content
}
