package cache

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	sqlitecloud "github.com/sqlitecloud/sqlitecloud-go"
)

// sqlConn is the subset of a SQLite Cloud connection the store uses.
type sqlConn interface {
	Execute(sql string) error
	ExecuteArray(sql string, values []interface{}) error
	// QueryString returns the first column of the first row, if any.
	QueryString(sql string, values []interface{}) (string, bool, error)
	Close() error
}

type cloudConn struct {
	*sqlitecloud.SQCloud
}

func (c cloudConn) QueryString(sql string, values []interface{}) (string, bool, error) {
	result, err := c.SelectArray(sql, values)
	if err != nil {
		return "", false, err
	}
	defer result.Free()

	if result.GetNumberOfRows() == 0 {
		return "", false, nil
	}
	value, err := result.GetStringValue(0, 0)
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// SQLiteCloudStore is a Store persisted in a SQLite Cloud database.
// Expired rows are filtered on read and purged by Purge.
//
// A connection carries one request at a time, so every round trip holds mu.
type SQLiteCloudStore struct {
	mu     sync.Mutex
	db     sqlConn
	now    func() time.Time
	logger zerolog.Logger
}

// NewSQLiteCloudStore connects to SQLite Cloud and creates the cache table if needed.
func NewSQLiteCloudStore(connStr string, logger zerolog.Logger) (*SQLiteCloudStore, error) {
	logger.Info().
		Str("db", maskConnectionString(connStr)).
		Msg("connecting to SQLite Cloud cache")

	db, err := sqlitecloud.Connect(connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to SQLite Cloud: %w", err)
	}
	return newSQLiteCloudStore(cloudConn{db}, logger)
}

func newSQLiteCloudStore(db sqlConn, logger zerolog.Logger) (*SQLiteCloudStore, error) {
	s := &SQLiteCloudStore{
		db:     db,
		now:    time.Now,
		logger: logger,
	}
	if err := s.createTables(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// maskConnectionString drops everything after apikey= before logging.
func maskConnectionString(connStr string) string {
	if i := strings.Index(connStr, "apikey="); i >= 0 {
		return connStr[:i] + "apikey=***"
	}
	return connStr
}

func (s *SQLiteCloudStore) createTables() error {
	tables := []string{
		`CREATE TABLE IF NOT EXISTS cache_entries (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			expires_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_cache_entries_expires_at ON cache_entries(expires_at)`,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, table := range tables {
		if err := s.db.Execute(table); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}
	return nil
}

// Get retrieves a live entry.
func (s *SQLiteCloudStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	sql := `SELECT value FROM cache_entries
			WHERE key = ? AND expires_at > ?`

	now := s.now().UnixMilli()
	s.mu.Lock()
	value, found, err := s.db.QueryString(sql, []interface{}{key, now})
	s.mu.Unlock()
	if err != nil {
		return nil, false, fmt.Errorf("sqlitecloud get %s: %w", key, err)
	}
	if !found {
		return nil, false, nil
	}
	return []byte(value), true, nil
}

// Set upserts value with ttl. A non-positive ttl stores nothing.
func (s *SQLiteCloudStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	sql := `INSERT INTO cache_entries (key, value, expires_at)
			VALUES (?, ?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value, expires_at = excluded.expires_at`

	expiresAt := s.now().Add(ttl).UnixMilli()
	if err := s.exec(sql, key, string(value), expiresAt); err != nil {
		return fmt.Errorf("sqlitecloud set %s: %w", key, err)
	}
	return nil
}

// Delete removes key.
func (s *SQLiteCloudStore) Delete(_ context.Context, key string) error {
	if err := s.exec(`DELETE FROM cache_entries WHERE key = ?`, key); err != nil {
		return fmt.Errorf("sqlitecloud delete %s: %w", key, err)
	}
	return nil
}

// Purge deletes every expired row.
func (s *SQLiteCloudStore) Purge(_ context.Context) error {
	if err := s.exec(`DELETE FROM cache_entries WHERE expires_at <= ?`, s.now().UnixMilli()); err != nil {
		return fmt.Errorf("sqlitecloud purge: %w", err)
	}
	s.logger.Debug().Msg("purged expired cache entries")
	return nil
}

func (s *SQLiteCloudStore) exec(sql string, values ...interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.ExecuteArray(sql, values)
}

// Close closes the database connection.
func (s *SQLiteCloudStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
