// internal/cache/cache.go
package cache

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	_ "modernc.org/sqlite"

	"nutrition-engine/internal/models"
)

// Identity derives the cache key for one analysis. The key is intentionally
// weak: the surrounding system has no shared primary key for a food, so the
// declared name plus the headline score is the best identity available. Two
// unrelated analyses that happen to share both will collide; this is a
// documented limitation, not something the cache tries to detect.
func Identity(name string, headlineScore float64) string {
	return fmt.Sprintf("%s|%.1f", strings.ToLower(strings.TrimSpace(name)), headlineScore)
}

// ResultCache persists resolved profiles by identity: an in-memory layer in
// front of a sqlite table. Writes are last-writer-wins with no TTL and no
// versioning. The cache performs no validation; every consumer is
// responsible for gating a hit before using it.
type ResultCache struct {
	mem *gocache.Cache
	db  *sql.DB
}

func New(dbPath string) (*ResultCache, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	c := &ResultCache{
		mem: gocache.New(gocache.NoExpiration, 0),
		db:  db,
	}
	if err := c.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize cache schema: %w", err)
	}

	return c, nil
}

func (c *ResultCache) Close() error {
	return c.db.Close()
}

func (c *ResultCache) initSchema() error {
	schema := `
    CREATE TABLE IF NOT EXISTS results (
        identity TEXT PRIMARY KEY,
        profile TEXT NOT NULL,
        tier TEXT NOT NULL,
        created_at DATETIME NOT NULL
    );
    `

	if _, err := c.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// Get returns the cached entry for an identity, or false when none exists.
func (c *ResultCache) Get(identity string) (*models.CacheEntry, bool) {
	if v, ok := c.mem.Get(identity); ok {
		if entry, ok := v.(*models.CacheEntry); ok {
			return entry, true
		}
	}

	var profileJSON, tier, createdAt string
	err := c.db.QueryRow(
		`SELECT profile, tier, created_at FROM results WHERE identity = ?`,
		identity,
	).Scan(&profileJSON, &tier, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false
	}
	if err != nil {
		return nil, false
	}

	var profile models.Profile
	if err := json.Unmarshal([]byte(profileJSON), &profile); err != nil {
		return nil, false
	}

	timestamp, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		timestamp = time.Time{}
	}

	entry := &models.CacheEntry{
		Identity:  identity,
		Profile:   &profile,
		Tier:      models.Tier(tier),
		Timestamp: timestamp,
	}
	c.mem.Set(identity, entry, gocache.NoExpiration)

	return entry, true
}

// Put stores a resolved profile, unconditionally replacing any prior entry
// for the same identity.
func (c *ResultCache) Put(identity string, profile *models.Profile, tier models.Tier) error {
	entry := &models.CacheEntry{
		Identity:  identity,
		Profile:   profile,
		Tier:      tier,
		Timestamp: time.Now().UTC(),
	}

	profileJSON, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}

	_, err = c.db.Exec(
		`INSERT OR REPLACE INTO results (identity, profile, tier, created_at) VALUES (?, ?, ?, ?)`,
		identity, string(profileJSON), string(tier), entry.Timestamp.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to persist cache entry: %w", err)
	}

	c.mem.Set(identity, entry, gocache.NoExpiration)
	return nil
}
