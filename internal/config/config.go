package config // package config loads application configuration from environment variables

import (
    "log"     // log is used to report configuration errors and halt execution
    "os"      // os provides access to environment variables
    "strconv" // strconv converts strings to other types
    "time"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.
type Config struct {
    Env          string         // application environment (e.g. "dev", "prod")
    Port         string         // HTTP port to listen on
    DBDriver     string         // "mysql" (default) or "sqlite"
    DBUser       string         // database username (mysql)
    DBPass       string         // database password (optional)
    DBHost       string         // database host address (mysql)
    DBPort       string         // database port number (mysql)
    DBName       string         // database name (mysql)
    SQLitePath   string         // database file (sqlite)
    JWTSecret    string         // secret used to sign JWTs
    AccessTTLMin int            // access token time‑to‑live in minutes
    Location     *time.Location // zone in which "today" is evaluated
    AMQPURL      string         // RabbitMQ URL; empty disables events
    AuditLogPath string         // file appended to by the audit consumer
    LogLevel     string         // echo logger level: debug, info, warn, error, off
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.  The MySQL connection
// variables are only required when DB_DRIVER is mysql.
func Load() Config {
    cfg := Config{
        Env:          must("APP_ENV"),
        Port:         must("APP_PORT"),
        DBDriver:     getenv("DB_DRIVER", "mysql"),
        DBPass:       os.Getenv("DB_PASS"), // empty allowed
        JWTSecret:    must("JWT_SECRET"),
        AccessTTLMin: mustInt("ACCESS_TOKEN_TTL_MIN"),
        Location:     mustLocation(getenv("APP_TIMEZONE", "Local")),
        AMQPURL:      amqpURL(),
        AuditLogPath: getenv("AUDIT_LOG_PATH", "var/audit.log"),
        LogLevel:     getenv("LOG_LEVEL", "info"),
    }
    switch cfg.DBDriver {
    case "mysql":
        cfg.DBUser = must("DB_USER")
        cfg.DBHost = must("DB_HOST")
        cfg.DBPort = must("DB_PORT")
        cfg.DBName = must("DB_NAME")
    case "sqlite":
        cfg.SQLitePath = getenv("SQLITE_PATH", "var/rooms.db")
    default:
        log.Fatalf("unsupported DB_DRIVER: %q", cfg.DBDriver)
    }
    return cfg
}

// amqpURL honours both RABBITMQ_URL and the older AMQP_URL.
func amqpURL() string {
    if v := os.Getenv("RABBITMQ_URL"); v != "" {
        return v
    }
    return os.Getenv("AMQP_URL")
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
    v, ok := os.LookupEnv(key)
    if !ok || v == "" {
        log.Fatalf("missing required env var: %s", key)
    }
    return v
}

// mustInt is like must() but converts the retrieved string into an integer.
// If conversion fails, the application logs a fatal error and exits.
func mustInt(key string) int {
    s := must(key)
    n, err := strconv.Atoi(s)
    if err != nil {
        log.Fatalf("invalid int for %s: %q", key, s)
    }
    return n
}

func mustLocation(name string) *time.Location {
    loc, err := time.LoadLocation(name)
    if err != nil {
        log.Fatalf("invalid APP_TIMEZONE %q: %v", name, err)
    }
    return loc
}
