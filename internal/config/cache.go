package config

import (
    "os"
    "strconv"
    "strings"
    "time"
)

// CacheConfig controls the response cache placed in front of the room
// catalog endpoints.  Caching is off when Enabled is false or Redis is
// unreachable.  Only Methods are cached and bodies above MaxBodyBytes are
// passed through uncached.
type CacheConfig struct {
    Enabled      bool
    Methods      map[string]bool
    TTL          time.Duration
    KeyStrategy  string // "route_query" or "route"
    Prefix       string
    MaxBodyBytes int
}

// LoadCacheConfig reads CACHE_* variables.  The catalog changes only through
// the admin CLI, so entries live for a few minutes by default.
func LoadCacheConfig() CacheConfig {
    cfg := CacheConfig{
        Enabled:      envBool("CACHE_ENABLED", true),
        Methods:      parseMethods(getenv("CACHE_METHODS", "GET")),
        TTL:          parseDur(getenv("CACHE_TTL", "5m"), 5*time.Minute),
        KeyStrategy:  getenv("CACHE_KEY_STRATEGY", "route_query"),
        Prefix:       getenv("CACHE_PREFIX", "cache:catalog"),
        MaxBodyBytes: atoi(getenv("CACHE_MAX_BODY_BYTES", "262144"), 262144),
    }
    if len(cfg.Methods) == 0 {
        cfg.Methods = map[string]bool{"GET": true}
    }
    return cfg
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

func getenv(key, def string) string {
    if v := os.Getenv(key); v != "" {
        return v
    }
    return def
}

func atoi(s string, def int) int {
    i, err := strconv.Atoi(s)
    if err != nil {
        return def
    }
    return i
}

func parseDur(s string, def time.Duration) time.Duration {
    d, err := time.ParseDuration(s)
    if err != nil || d <= 0 {
        return def
    }
    return d
}
