package station

import (
	"time"

	"cpsim/types"
)

type CacheEntry struct {
	IdToken    string
	Info       types.IdTokenInfo
	LastUsedAt time.Time
	StoredAt   time.Time
}

// AuthCache stores idTokenInfo seen on Authorize and TransactionEvent
// responses. Expiry is evaluated lazily at lookup; eviction first purges
// every non-Accepted entry, then the oldest-by-last-use Accepted ones.
type AuthCache struct {
	entries  map[string]*CacheEntry
	capacity int
	lifetime time.Duration
}

func NewAuthCache(capacity int, lifetime time.Duration) *AuthCache {
	return &AuthCache{
		entries:  make(map[string]*CacheEntry),
		capacity: capacity,
		lifetime: lifetime,
	}
}

func (c *AuthCache) Upsert(idToken string, info types.IdTokenInfo, now time.Time) {
	entry, ok := c.entries[idToken]
	if !ok {
		entry = &CacheEntry{IdToken: idToken, StoredAt: now}
		c.entries[idToken] = entry
	}
	entry.Info = info
	entry.LastUsedAt = now
	if len(c.entries) > c.capacity {
		c.evict()
	}
}

// Lookup returns the cached info when present and not expired. An expired
// hit counts as a miss and stays in place until eviction wants the slot.
func (c *AuthCache) Lookup(idToken string, now time.Time) (*types.IdTokenInfo, bool) {
	entry, ok := c.entries[idToken]
	if !ok {
		return nil, false
	}
	if c.expired(entry, now) {
		return nil, false
	}
	entry.LastUsedAt = now
	info := entry.Info
	return &info, true
}

func (c *AuthCache) expired(entry *CacheEntry, now time.Time) bool {
	if entry.Info.CacheExpiryDateTime != nil {
		return now.After(entry.Info.CacheExpiryDateTime.Time)
	}
	return now.After(entry.StoredAt.Add(c.lifetime))
}

func (c *AuthCache) evict() {
	// every non-Accepted entry goes before any Accepted one is considered
	for token, entry := range c.entries {
		if entry.Info.Status != types.AuthorizationStatusAccepted {
			delete(c.entries, token)
		}
	}
	for len(c.entries) > c.capacity {
		oldest := ""
		var oldestAt time.Time
		for token, entry := range c.entries {
			if oldest == "" || entry.LastUsedAt.Before(oldestAt) {
				oldest = token
				oldestAt = entry.LastUsedAt
			}
		}
		delete(c.entries, oldest)
	}
}

func (c *AuthCache) Clear() {
	c.entries = make(map[string]*CacheEntry)
}

func (c *AuthCache) Len() int {
	return len(c.entries)
}
