package server

import (
	"fmt"

	"github.com/dgraph-io/ristretto"
)

const (
	// Cache configuration
	maxCacheCost = 1 << 22 // plenty for 1000 decoded lines

	numCounters = 1e5 // Number of keys to track frequency

	bufferItems = 64 // Number of keys per Get buffer
)

// entryCache keeps decoded record lines so back to back dumps do not
// re-read the same thousand pages. Keys carry the logger generation, so a
// write or erase makes every older key unreachable and the stale entries
// just age out.
type entryCache struct {
	cache *ristretto.Cache
}

func newEntryCache() (*entryCache, error) {

	cache, err := ristretto.NewCache(&ristretto.Config{

		NumCounters: numCounters,

		MaxCost: maxCacheCost,

		BufferItems: bufferItems,
	})

	if err != nil {

		return nil, fmt.Errorf("failed to initialize cache: %v", err)

	}

	return &entryCache{cache: cache}, nil
}

func entryKey(gen uint64, slot int) string {

	return fmt.Sprintf("%d:%d", gen, slot)

}

func (c *entryCache) get(gen uint64, slot int) (string, bool) {

	v, ok := c.cache.Get(entryKey(gen, slot))

	if !ok {

		return "", false

	}

	line, ok := v.(string)

	return line, ok
}

func (c *entryCache) set(gen uint64, slot int, line string) {

	c.cache.Set(entryKey(gen, slot), line, int64(len(line))+1)

}
