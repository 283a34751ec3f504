package peers

import (
	"sync"
)

// discoveryCache memoizes peer lists per symbol for the engine's
// lifetime. Discovery scans the whole universe, so a hit saves ~100
// upstream calls. There is no eviction; the universe is small and a
// stale entry is harmlessly overwritten by a concurrent re-discovery.
type discoveryCache struct {
	mu      sync.RWMutex
	entries map[string][]string
}

func newDiscoveryCache() *discoveryCache {
	return &discoveryCache{entries: make(map[string][]string)}
}

// get returns the cached peer list, false when absent
func (c *discoveryCache) get(symbol string) ([]string, bool) {
	c.mu.RLock()
	entry, ok := c.entries[symbol]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}

	// Callers mutate their copy freely
	peers := make([]string, len(entry))
	copy(peers, entry)
	return peers, true
}

// put stores a peer list under the symbol
func (c *discoveryCache) put(symbol string, peers []string) {
	stored := make([]string, len(peers))
	copy(stored, peers)

	c.mu.Lock()
	c.entries[symbol] = stored
	c.mu.Unlock()
}
