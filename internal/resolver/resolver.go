// Package resolver memoizes recipe configurations.
package resolver

import (
	"github.com/goplus/vxlpkg/recipe"
)

// Cache remembers every configuration it has resolved successfully.
// A Cache has a single owner and is not safe for concurrent use.
type Cache struct {
	configs map[string]*recipe.Configuration
	hits    int
}

// New returns an empty Cache.
func New() *Cache {
	return &Cache{configs: make(map[string]*recipe.Configuration)}
}

// Resolve returns the configuration for req on s. Requests that normalize
// to the same option set share one *recipe.Configuration, which callers
// must treat as read-only. Failed resolutions are not remembered.
func (c *Cache) Resolve(req recipe.Options, s recipe.Settings) (*recipe.Configuration, error) {
	key := recipe.ConfigKey(recipe.Normalize(req, s), s)
	if cfg, ok := c.configs[key]; ok {
		c.hits++
		return cfg, nil
	}
	cfg, err := recipe.Configure(req, s)
	if err != nil {
		return nil, err
	}
	c.configs[key] = cfg
	return cfg, nil
}

// Len returns the number of cached configurations.
func (c *Cache) Len() int {
	return len(c.configs)
}

// Hits returns how many Resolve calls were answered from the cache.
func (c *Cache) Hits() int {
	return c.hits
}
