package config

import (
    "testing"
    "time"
)

func TestLoadRateLimitConfigDefaults(t *testing.T) {
    cfg := LoadRateLimitConfig("RATE_LIMIT_BOOK", BookRateLimitDefaults)
    if !cfg.Enabled || cfg.Capacity != 10 || cfg.RefillInterval != 6*time.Minute {
        t.Fatalf("unexpected defaults: %+v", cfg)
    }
    if cfg.Prefix != "rl:book" {
        t.Fatalf("prefix = %q", cfg.Prefix)
    }
}

func TestLoadRateLimitConfigOverrides(t *testing.T) {
    t.Setenv("RATE_LIMIT_LOGIN_BURST", "3")
    t.Setenv("RATE_LIMIT_LOGIN_REFILL_EVERY", "1m")
    t.Setenv("RATE_LIMIT_LOGIN_TTL", "1s")
    cfg := LoadRateLimitConfig("rate_limit_login", LoginRateLimitDefaults)
    if cfg.Capacity != 3 || cfg.RefillTokens != 1 || cfg.RefillInterval != time.Minute {
        t.Fatalf("overrides not applied: %+v", cfg)
    }
    if cfg.TTL != 5*time.Minute {
        t.Fatalf("ttl = %v, want raised to 5m", cfg.TTL)
    }
}

func TestLoadRateLimitConfigDisabled(t *testing.T) {
    tests := []struct {
        name, key, val string
    }{
        {"global switch", "RATE_LIMIT_ENABLED", "false"},
        {"endpoint switch", "RATE_LIMIT_BOOK_ENABLED", "off"},
    }
    for _, tt := range tests {
        t.Run(tt.name, func(t *testing.T) {
            t.Setenv(tt.key, tt.val)
            if cfg := LoadRateLimitConfig("RATE_LIMIT_BOOK", BookRateLimitDefaults); cfg.Enabled {
                t.Fatalf("limiter still enabled")
            }
        })
    }
}

func TestLoadCacheConfig(t *testing.T) {
    t.Setenv("CACHE_METHODS", "get, head")
    t.Setenv("CACHE_TTL", "bogus")
    cfg := LoadCacheConfig()
    if !cfg.Methods["GET"] || !cfg.Methods["HEAD"] || len(cfg.Methods) != 2 {
        t.Fatalf("methods = %v", cfg.Methods)
    }
    if cfg.TTL != 5*time.Minute {
        t.Fatalf("ttl = %v", cfg.TTL)
    }
}

func TestLoadRedisConfig(t *testing.T) {
    t.Setenv("REDIS_ADDR", "cache:6380")
    t.Setenv("REDIS_DB", "2")
    if cfg := LoadRedisConfig(); cfg.Addr != "cache:6380" || cfg.DB != 2 || cfg.TLS {
        t.Fatalf("unexpected: %+v", cfg)
    }
    t.Setenv("REDIS_HOST", "redis")
    t.Setenv("REDIS_PORT", "6379")
    if cfg := LoadRedisConfig(); cfg.Addr != "redis:6379" {
        t.Fatalf("host/port did not take precedence: %+v", cfg)
    }
}
