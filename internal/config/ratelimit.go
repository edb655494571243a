package config

import (
    "os"
    "strconv"
    "strings"
    "time"
)

type RateLimitConfig struct {
    Enabled        bool
    Capacity       int
    RefillTokens   int
    RefillInterval time.Duration
    TTL            time.Duration
    KeyStrategy    string
    Prefix         string
    Debug          bool
}

// Default budgets for the two public write endpoints.  Booking allows a
// burst of 10 per client refilled one per six minutes; login is tighter.
var (
    BookRateLimitDefaults = RateLimitConfig{
        Enabled: true, Capacity: 10, RefillTokens: 1, RefillInterval: 6 * time.Minute,
        TTL: 2 * time.Hour, KeyStrategy: "ip_route", Prefix: "rl:book",
    }
    LoginRateLimitDefaults = RateLimitConfig{
        Enabled: true, Capacity: 5, RefillTokens: 1, RefillInterval: 12 * time.Minute,
        TTL: 2 * time.Hour, KeyStrategy: "ip_route", Prefix: "rl:login",
    }
)

// LoadRateLimitConfig reads the budget for one endpoint.  Variables are
// named <PREFIX>_CAPACITY, <PREFIX>_REFILL_EVERY and so on, e.g.
// RATE_LIMIT_BOOK_CAPACITY.  RATE_LIMIT_ENABLED switches all limiters.
func LoadRateLimitConfig(prefix string, def RateLimitConfig) RateLimitConfig {
    p := strings.ToUpper(prefix) + "_"
    cfg := RateLimitConfig{
        Enabled:        envBool("RATE_LIMIT_ENABLED", def.Enabled) && envBool(p+"ENABLED", true),
        Capacity:       envInt(p+"CAPACITY", def.Capacity),
        RefillTokens:   envInt(p+"REFILL_TOKENS", def.RefillTokens),
        RefillInterval: envDur(p+"REFILL_INTERVAL", def.RefillInterval),
        TTL:            envDur(p+"TTL", def.TTL),
        KeyStrategy:    envStr(p+"KEY_STRATEGY", def.KeyStrategy),
        Prefix:         envStr(p+"PREFIX", def.Prefix),
        Debug:          envBool("RATE_LIMIT_DEBUG", def.Debug),
    }
    if b := envInt(p+"BURST", -1); b > 0 { cfg.Capacity = b }
    if every := envDur(p+"REFILL_EVERY", 0); every > 0 {
        cfg.RefillTokens = 1
        cfg.RefillInterval = every
    }
    if cfg.Capacity < 1 { cfg.Capacity = 1 }
    if cfg.RefillTokens < 1 { cfg.RefillTokens = 1 }
    if cfg.RefillInterval <= 0 { cfg.RefillInterval = time.Second }
    if cfg.Prefix == "" { cfg.Prefix = "rl" }
    minTTL := 5 * cfg.RefillInterval
    if cfg.TTL < minTTL { cfg.TTL = minTTL }
    return cfg
}

func envStr(k, d string) string { if v := os.Getenv(k); v != "" { return v }; return d }
func envBool(k string, d bool) bool {
    v := os.Getenv(k)
    if v == "" { return d }
    switch v {
    case "1","true","TRUE","True","yes","YES","on","ON": return true
    case "0","false","FALSE","False","no","NO","off","OFF": return false
    }
    return d
}
func envInt(k string, d int) int {
    v := os.Getenv(k); if v == "" { return d }
    if n, err := strconv.Atoi(v); err == nil { return n }
    return d
}
func envDur(k string, d time.Duration) time.Duration {
    v := os.Getenv(k); if v == "" { return d }
    if dur, err := time.ParseDuration(v); err == nil { return dur }
    return d
}
