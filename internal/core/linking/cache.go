package linking

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/agenthands/linkbench/internal/core/model"
	_ "github.com/mattn/go-sqlite3"
)

// Cache persists linker output per (linker, utterance) in SQLite.
type Cache struct {
	db *sql.DB
}

func OpenCache(path string) (*Cache, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create cache directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open cache: %w", err)
	}

	_, err = db.Exec(`
	CREATE TABLE IF NOT EXISTS ned_cache (
		linker TEXT NOT NULL,
		utterance TEXT NOT NULL,
		spans TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		PRIMARY KEY (linker, utterance)
	);`)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize cache schema: %w", err)
	}

	return &Cache{db: db}, nil
}

func (c *Cache) Close() error {
	return c.db.Close()
}

func (c *Cache) Get(ctx context.Context, linker, utterance string) ([]model.Span, bool, error) {
	var raw string
	err := c.db.QueryRowContext(ctx,
		`SELECT spans FROM ned_cache WHERE linker = ? AND utterance = ?`,
		linker, utterance).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read cache: %w", err)
	}

	var spans []model.Span
	if err := json.Unmarshal([]byte(raw), &spans); err != nil {
		return nil, false, fmt.Errorf("corrupt cache entry: %w", err)
	}
	return spans, true, nil
}

func (c *Cache) Put(ctx context.Context, linker, utterance string, spans []model.Span) error {
	if spans == nil {
		spans = []model.Span{}
	}
	raw, err := json.Marshal(spans)
	if err != nil {
		return err
	}
	_, err = c.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO ned_cache (linker, utterance, spans, created_at) VALUES (?, ?, ?, ?)`,
		linker, utterance, string(raw), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to write cache: %w", err)
	}
	return nil
}

// Cached serves repeated utterances from the cache. Name separates entries
// of different linkers and models sharing one cache file.
type Cached struct {
	Next  Predictor
	Cache *Cache
	Name  string
}

func (c *Cached) Predict(ctx context.Context, utterance string) ([]model.Span, error) {
	spans, ok, err := c.Cache.Get(ctx, c.Name, utterance)
	if err != nil {
		return nil, err
	}
	if ok {
		return spans, nil
	}

	spans, err = c.Next.Predict(ctx, utterance)
	if err != nil {
		return nil, err
	}
	if err := c.Cache.Put(ctx, c.Name, utterance, spans); err != nil {
		return nil, err
	}
	return spans, nil
}

func (c *Cached) Warmup(ctx context.Context) error {
	_, err := Warmup(ctx, c.Next)
	return err
}

// Relations is not cached.
func (c *Cached) Relations(ctx context.Context, utterance string) ([]model.Relation, error) {
	return Relations(ctx, c.Next, utterance)
}
