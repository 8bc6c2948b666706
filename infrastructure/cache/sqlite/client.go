// ABOUTME: SQLite-based cache implementation for persistent caching
// ABOUTME: Keeps previews and reader views across restarts in a single database file

package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"

	"foodforbrain-api/core/interfaces"
)

// ErrCacheMiss is returned when a key is absent or expired
var ErrCacheMiss = errors.New("key not found or expired")

const cleanupInterval = 5 * time.Minute

// Client implements the Cache interface using SQLite
type Client struct {
	db       *sql.DB
	builder  sq.StatementBuilderType
	filePath string
	logger   interfaces.Logger
	stop     chan struct{}
	stopOnce sync.Once
}

// NewSQLiteCache opens the cache file and starts the expiry sweeper
func NewSQLiteCache(filePath string, logger interfaces.Logger) (*Client, error) {
	if filePath == "" {
		filePath = "cache.db"
	}

	db, err := sql.Open("sqlite3", filePath+"?_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to SQLite database: %w", err)
	}

	client := &Client{
		db:       db,
		builder:  sq.StatementBuilder.PlaceholderFormat(sq.Question),
		filePath: filePath,
		logger:   logger,
		stop:     make(chan struct{}),
	}

	if err := client.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	go client.cleanupRoutine()

	return client, nil
}

// initSchema creates the cache table if it doesn't exist
func (c *Client) initSchema() error {
	_, err := c.db.Exec(`
		CREATE TABLE IF NOT EXISTS cache (
			key TEXT PRIMARY KEY,
			value BLOB NOT NULL,
			expiry INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_expiry ON cache(expiry);
	`)
	return err
}

// Get retrieves a value that has not expired
func (c *Client) Get(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, errors.New("key cannot be empty")
	}

	var value []byte
	err := c.builder.Select("value").
		From("cache").
		Where(sq.And{sq.Eq{"key": key}, sq.Gt{"expiry": time.Now().UnixNano()}}).
		RunWith(c.db).
		QueryRowContext(ctx).
		Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get value: %w", err)
	}

	return value, nil
}

// Set stores value under key. A zero TTL keeps the entry until it is replaced.
func (c *Client) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if key == "" {
		return errors.New("key cannot be empty")
	}
	if len(value) == 0 {
		return errors.New("value cannot be empty")
	}

	expiry := int64(1<<63 - 1)
	if ttl > 0 {
		expiry = time.Now().Add(ttl).UnixNano()
	}

	_, err := c.builder.Insert("cache").
		Options("OR REPLACE").
		Columns("key", "value", "expiry").
		Values(key, value, expiry).
		RunWith(c.db).
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to set value: %w", err)
	}

	return nil
}

// Delete removes a value from the cache
func (c *Client) Delete(ctx context.Context, key string) error {
	if key == "" {
		return errors.New("key cannot be empty")
	}

	_, err := c.builder.Delete("cache").Where(sq.Eq{"key": key}).RunWith(c.db).ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete value: %w", err)
	}

	return nil
}

// cleanupRoutine periodically removes expired entries until Close
func (c *Client) cleanupRoutine() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.cleanup(context.Background())
		case <-c.stop:
			return
		}
	}
}

// cleanup removes expired entries and returns how many were deleted
func (c *Client) cleanup(ctx context.Context) int64 {
	result, err := c.builder.Delete("cache").
		Where(sq.LtOrEq{"expiry": time.Now().UnixNano()}).
		RunWith(c.db).
		ExecContext(ctx)
	if err != nil {
		c.logger.Warn("Cache cleanup failed", map[string]interface{}{
			"error": err.Error(),
		})
		return 0
	}

	removed, _ := result.RowsAffected()
	if removed > 0 {
		c.logger.Debug("Expired cache entries removed", map[string]interface{}{
			"count": removed,
		})
	}
	return removed
}

// Close stops the sweeper and closes the database connection
func (c *Client) Close() error {
	c.stopOnce.Do(func() { close(c.stop) })
	return c.db.Close()
}

// Stats returns cache statistics
func (c *Client) Stats(ctx context.Context) (map[string]interface{}, error) {
	stats := map[string]interface{}{"file_path": c.filePath}

	var count int
	if err := c.builder.Select("COUNT(*)").From("cache").RunWith(c.db).QueryRowContext(ctx).Scan(&count); err != nil {
		return nil, err
	}
	stats["total_entries"] = count

	var expired int
	err := c.builder.Select("COUNT(*)").From("cache").
		Where(sq.LtOrEq{"expiry": time.Now().UnixNano()}).
		RunWith(c.db).QueryRowContext(ctx).Scan(&expired)
	if err != nil {
		return nil, err
	}
	stats["expired_entries"] = expired

	var pageCount, pageSize int
	if err := c.db.QueryRowContext(ctx, "PRAGMA page_count").Scan(&pageCount); err == nil {
		if err := c.db.QueryRowContext(ctx, "PRAGMA page_size").Scan(&pageSize); err == nil {
			stats["db_size_bytes"] = pageCount * pageSize
		}
	}

	return stats, nil
}
