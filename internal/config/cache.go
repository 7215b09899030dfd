package config

import (
	"strings"
	"time"
)

// CacheConfig defines settings for the response cache middleware.  Caching
// is off when Enabled is false or no Redis client is available.
type CacheConfig struct {
	Enabled bool `envconfig:"ENABLED" default:"true"`
	// MethodList is a comma separated list of cached HTTP methods.
	MethodList   string          `envconfig:"METHODS" default:"GET"`
	Methods      map[string]bool `ignored:"true"`
	TTL          time.Duration   `envconfig:"TTL" default:"30s"`
	KeyStrategy  string          `envconfig:"KEY_STRATEGY" default:"route_query"`
	Prefix       string          `envconfig:"PREFIX" default:"cache"`
	MaxBodyBytes int             `envconfig:"MAX_BODY_BYTES" default:"1048576"`
}

func (c *CacheConfig) normalize() {
	c.Methods = parseMethods(c.MethodList)
	if c.TTL <= 0 {
		c.TTL = time.Second
	}
	if c.Prefix == "" {
		c.Prefix = "cache"
	}
}

func parseMethods(s string) map[string]bool {
	m := map[string]bool{}
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(strings.ToUpper(p))
		if p != "" {
			m[p] = true
		}
	}
	return m
}
