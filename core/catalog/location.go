package catalog

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// locationTTL bounds how long a looked-up location id is reused. The client
// is constructed per run, so the cache can never outlive one run.
const locationTTL = 5 * time.Minute

// locationCache memoizes the active-location lookup. Singleflight collapses
// concurrent lookups into one remote call.
type locationCache struct {
	mu      sync.RWMutex
	id      string
	fetched time.Time
	sf      singleflight.Group
}

// ActiveLocation implements API with a TTL cache in front of the remote
// lookup.
func (c *Client) ActiveLocation(ctx context.Context) (string, error) {
	c.loc.mu.RLock()
	id, fetched := c.loc.id, c.loc.fetched
	c.loc.mu.RUnlock()

	if id != "" && time.Since(fetched) < locationTTL {
		return id, nil
	}

	result, err, _ := c.loc.sf.Do("location", func() (any, error) {
		// Double-check after winning the singleflight slot.
		c.loc.mu.RLock()
		id, fetched := c.loc.id, c.loc.fetched
		c.loc.mu.RUnlock()
		if id != "" && time.Since(fetched) < locationTTL {
			return id, nil
		}

		fresh, err := c.fetchLocation(ctx)
		if err != nil {
			return "", err
		}

		c.loc.mu.Lock()
		c.loc.id = fresh
		c.loc.fetched = time.Now()
		c.loc.mu.Unlock()
		return fresh, nil
	})
	if err != nil {
		return "", err
	}
	return result.(string), nil
}
