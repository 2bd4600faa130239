package config // package config loads application configuration from environment variables

import (
    "log"      // log is used to report configuration errors and halt execution
    "os"       // os provides access to environment variables
    "strconv"  // strconv converts strings to other types
    "time"     // time parses the site timezone and durations
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  The types reflect how the values are used in
// the application: strings for identifiers and secrets, ints for durations
// and costs, a *time.Location for the site timezone.
type Config struct {
    Env             string         // application environment (e.g. "dev", "prod")
    Port            string         // HTTP port to listen on
    DBUser          string         // database username
    DBPass          string         // database password (optional)
    DBHost          string         // database host address
    DBPort          string         // database port number
    DBName          string         // database name
    JWTSecret       string         // secret used to sign JWTs
    AccessTTLMin    int            // access token time-to-live in minutes
    RefreshTTLDays  int            // refresh token time-to-live in days
    BcryptCost      int            // bcrypt cost for password hashing
    HoldsEnabled    bool           // whether the capacity hold subsystem is on
    HoldDurationMin int            // how long a hold lives, in minutes
    PrebuildDays    int            // how many days ahead the cache pre-builder warms
    CacheTTL        time.Duration  // availability cache entry lifetime
    Timezone        *time.Location // site timezone for schedule/slot resolution
    AdminEmail      string         // bootstrap admin account email (optional)
    AdminPassword   string         // bootstrap admin account password (optional)
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.  The hold/cache
// settings carry defaults so a bare environment still boots sensibly:
// holds on, 15 minute duration, 7 prebuild days, 5 minute cache TTL, UTC.
func Load() Config {
    return Config{
        Env:             must("APP_ENV"),
        Port:            must("APP_PORT"),
        DBUser:          must("DB_USER"),
        DBPass:          os.Getenv("DB_PASS"), // empty allowed
        DBHost:          must("DB_HOST"),
        DBPort:          must("DB_PORT"),
        DBName:          must("DB_NAME"),
        JWTSecret:       must("JWT_SECRET"),
        AccessTTLMin:    mustInt("ACCESS_TOKEN_TTL_MIN"),
        RefreshTTLDays:  mustInt("REFRESH_TOKEN_TTL_DAYS"),
        BcryptCost:      mustInt("BCRYPT_COST"),
        HoldsEnabled:    envBool("HOLDS_ENABLED", true),
        HoldDurationMin: envInt("HOLD_DURATION_MIN", 15),
        PrebuildDays:    envInt("PREBUILD_DAYS", 7),
        CacheTTL:        envDur("AVAILABILITY_CACHE_TTL", 5*time.Minute),
        Timezone:        loadTimezone(),
        AdminEmail:      os.Getenv("ADMIN_EMAIL"),    // empty disables seeding
        AdminPassword:   os.Getenv("ADMIN_PASSWORD"), // empty disables seeding
    }
}

// loadTimezone resolves the TIMEZONE env var into a *time.Location,
// falling back to UTC when unset or unknown.  Schedules express wall
// times in this zone; getting it wrong shifts every slot, so an invalid
// name is logged loudly instead of silently accepted.
func loadTimezone() *time.Location {
    name := os.Getenv("TIMEZONE")
    if name == "" {
        return time.UTC
    }
    loc, err := time.LoadLocation(name)
    if err != nil {
        log.Printf("config: unknown TIMEZONE %q, falling back to UTC: %v", name, err)
        return time.UTC
    }
    return loc
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
