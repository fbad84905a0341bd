package providers

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

const cacheFileName = "provider_cache.json"

type cacheEntry struct {
	Body     json.RawMessage `json:"body"`
	StoredAt time.Time       `json:"stored_at"`
}

// ResponseCache keeps provider responses on disk keyed by provider, path and
// request body.
type ResponseCache struct {
	logger  *logrus.Logger
	dir     string
	ttl     time.Duration
	entries map[string]cacheEntry
	mu      sync.RWMutex
	now     func() time.Time
}

// NewResponseCache opens the cache in dir, loading any saved entries. A
// non-positive ttl keeps entries forever.
func NewResponseCache(dir string, ttl time.Duration, logger *logrus.Logger) (*ResponseCache, error) {
	if logger == nil {
		logger = logrus.New()
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	c := &ResponseCache{
		logger:  logger,
		dir:     dir,
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
	c.load()
	return c, nil
}

// CacheKey hashes a provider request into a cache key.
func CacheKey(provider, path string, body []byte) string {
	h := sha256.New()
	h.Write([]byte(provider))
	h.Write([]byte{0})
	h.Write([]byte(path))
	h.Write([]byte{0})
	h.Write(body)
	return hex.EncodeToString(h.Sum(nil))
}

// Get returns a cached body that has not expired.
func (c *ResponseCache) Get(key string) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.ttl > 0 && c.now().Sub(entry.StoredAt) > c.ttl {
		return nil, false
	}
	return entry.Body, true
}

// Put stores a body and persists the cache.
func (c *ResponseCache) Put(key string, body []byte) {
	if !json.Valid(body) {
		c.logger.WithField("key", key).Debug("Skipping cache for non-JSON body")
		return
	}
	c.mu.Lock()
	c.entries[key] = cacheEntry{Body: append(json.RawMessage(nil), body...), StoredAt: c.now()}
	c.mu.Unlock()

	c.save()
}

// Len returns the number of cached entries.
func (c *ResponseCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Prune drops expired entries and persists the cache when anything was
// removed. It returns the number of entries dropped.
func (c *ResponseCache) Prune() int {
	if c.ttl <= 0 {
		return 0
	}
	c.mu.Lock()
	removed := 0
	now := c.now()
	for key, entry := range c.entries {
		if now.Sub(entry.StoredAt) > c.ttl {
			delete(c.entries, key)
			removed++
		}
	}
	c.mu.Unlock()

	if removed > 0 {
		c.save()
	}
	return removed
}

func (c *ResponseCache) load() {
	data, err := os.ReadFile(filepath.Join(c.dir, cacheFileName))
	if err != nil {
		if !os.IsNotExist(err) {
			c.logger.WithError(err).Warn("Could not load provider cache")
		}
		return
	}
	if err := json.Unmarshal(data, &c.entries); err != nil {
		c.logger.WithError(err).Error("Failed to parse provider cache")
		c.entries = make(map[string]cacheEntry)
		return
	}
	c.logger.WithField("entries", len(c.entries)).Info("Loaded provider cache")
}

func (c *ResponseCache) save() {
	c.mu.RLock()
	data, err := json.Marshal(c.entries)
	c.mu.RUnlock()
	if err != nil {
		c.logger.WithError(err).Error("Failed to marshal provider cache")
		return
	}
	if err := os.WriteFile(filepath.Join(c.dir, cacheFileName), data, 0644); err != nil {
		c.logger.WithError(err).Error("Failed to save provider cache")
	}
}
