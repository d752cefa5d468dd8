package avatar

import (
	"crypto/md5"
	"fmt"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Cache resolves author names to gravatar URLs. Each Cache owns its own
// lookup table so tests and components stay isolated; it is not a package
// global.
type Cache struct {
	enabled bool
	urls    *gocache.Cache
}

// NewCache creates an avatar cache. When enabled is false, URL returns
// the empty string for every author.
func NewCache(enabled bool) *Cache {
	return &Cache{
		enabled: enabled,
		urls:    gocache.New(30*time.Minute, 10*time.Minute),
	}
}

// URL returns the gravatar URL for an author, computing and caching it on
// first use.
func (c *Cache) URL(author string) string {
	if !c.enabled || author == "" {
		return ""
	}
	if cached, ok := c.urls.Get(author); ok {
		return cached.(string)
	}
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(author))))
	url := fmt.Sprintf("https://www.gravatar.com/avatar/%x?d=robohash", sum)
	c.urls.Set(author, url, gocache.DefaultExpiration)
	return url
}
