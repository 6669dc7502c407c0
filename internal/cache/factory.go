package cache

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/ppiankov/spellbook/internal/model"
)

// Backend names
const (
	BackendMemory = "memory"
	BackendDisk   = "disk"
	BackendBolt   = "bolt"
)

// New builds the cache described by cfg.
// Persistent backends are layered behind a memory cache.
func New(cfg model.CacheConfig) (Cache, error) {
	memory := NewMemoryCache(cfg.MemoryTTL, 10*time.Minute)

	switch strings.ToLower(cfg.Backend) {
	case BackendMemory:
		return memory, nil

	case BackendDisk, "":
		return NewLayeredCache(memory, NewDiskCache(cfg.Dir, cfg.DiskTTL)), nil

	case BackendBolt:
		bc, err := NewBoltCache(filepath.Join(cfg.Dir, "cache.db"), cfg.DiskTTL)
		if err != nil {
			return nil, err
		}
		return NewLayeredCache(memory, bc), nil

	default:
		return nil, fmt.Errorf("unknown cache backend: %s (supported: memory, disk, bolt)", cfg.Backend)
	}
}
