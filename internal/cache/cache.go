package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/HQhanqiZHQ/bmi706-2024-Project/internal/model"
)

// Cache persists raw dataset bytes between process restarts
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// SourceKey derives the cache key for a (owner, repo, path, branch) tuple
func SourceKey(owner, repo, path, branch string) string {
	hash := sha256.Sum256([]byte(strings.Join([]string{owner, repo, path, branch}, "\x00")))
	return "cirrhosis:v1:" + hex.EncodeToString(hash[:])
}

// KeyFor is SourceKey for a model.Source
func KeyFor(src model.Source) string {
	return SourceKey(src.Owner, src.Repo, src.Path, src.Branch)
}

// New builds the byte cache described by cfg. Without a disk directory it is a no-op:
// within a process the parsed table is memoized instead.
func New(cfg model.CacheConfig) Cache {
	if !cfg.Enabled || cfg.DiskDir == "" {
		return Nop{}
	}
	return NewDiskCache(cfg.DiskDir, cfg.DiskTTL)
}

// Nop never stores anything
type Nop struct{}

func (Nop) Get(string) ([]byte, bool) { return nil, false }

func (Nop) Set(string, []byte, time.Duration) error { return nil }

func (Nop) Delete(string) error { return nil }

func (Nop) Clear() error { return nil }
