// Package cache stores fetched pages and generated dossiers.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key builds a namespaced cache key, e.g. Key("page", url). The identifier is
// hashed so keys are safe to use as file names.
func Key(namespace, id string) string {
	hash := sha256.Sum256([]byte(id))
	return "archivist-v1-" + namespace + "-" + hex.EncodeToString(hash[:])
}

// Nop is a cache that stores nothing (used when caching is disabled)
type Nop struct{}

func (Nop) Get(string) ([]byte, bool) { return nil, false }
func (Nop) Set(string, []byte, time.Duration) error { return nil }
func (Nop) Delete(string) error { return nil }
func (Nop) Clear() error { return nil }
