package api

import "sync"

// responseCache is a thread-safe in-memory cache of GET response bodies,
// keyed by endpoint. It exists so list screens don't refetch on every
// visit; it is purged wholesale whenever the session changes.
type responseCache struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

func newResponseCache() *responseCache {
	return &responseCache{entries: make(map[string][]byte)}
}

func (rc *responseCache) get(key string) ([]byte, bool) {
	rc.mu.RLock()
	defer rc.mu.RUnlock()
	body, ok := rc.entries[key]
	return body, ok
}

func (rc *responseCache) put(key string, body []byte) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	rc.entries[key] = body
}

func (rc *responseCache) purge() {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	rc.entries = make(map[string][]byte)
}
