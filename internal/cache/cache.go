package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// NoExpiration passed as a ttl keeps an entry until it is deleted or cleared.
// A zero ttl uses the backend default.
const NoExpiration time.Duration = -1

// Cache stores downloaded documents by key
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
	Close() error
}

// Key kinds
const (
	KindRules = "rules" // Raw comprehensive rules downloads
)

// CacheKey generates a cache key for a source (URL or path) of the given kind
func CacheKey(kind, source string) string {
	hash := sha256.Sum256([]byte(source))
	return "spellbook:v1:" + kind + ":" + hex.EncodeToString(hash[:])
}

// entry is the persisted envelope used by the disk and bolt backends
type entry struct {
	Data      []byte    `json:"data"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (e entry) expired(now time.Time) bool {
	return !e.ExpiresAt.IsZero() && now.After(e.ExpiresAt)
}

func newEntry(value []byte, ttl time.Duration) entry {
	e := entry{Data: value}
	if ttl > 0 {
		e.ExpiresAt = time.Now().Add(ttl)
	}
	return e
}
