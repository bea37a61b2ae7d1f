package config // package config loads application configuration from environment variables

import (
	"log"
	"os"
	"strconv"
	"time"
)

// Config holds all required runtime configuration. Each field corresponds
// to an environment variable; missing required variables abort startup.
type Config struct {
	Env            string // application environment (dev/test/prod)
	Port           string // HTTP port to listen on
	DBUser         string // database username
	DBPass         string // database password (optional)
	DBHost         string // database host address
	DBPort         string // database port number
	DBName         string // database name
	JWTSecret      string // secret used to sign JWTs
	AccessTTLMin   int    // access token time-to-live in minutes
	RefreshTTLDays int    // refresh token time-to-live in days
	BcryptCost     int    // bcrypt cost for password hashing
}

// Load reads the required configuration from environment variables. must()
// enforces presence; absent values exit with a fatal log message.
func Load() Config {
	return Config{
		Env:            must("APP_ENV"),
		Port:           must("APP_PORT"),
		DBUser:         must("DB_USER"),
		DBPass:         os.Getenv("DB_PASS"), // empty allowed
		DBHost:         must("DB_HOST"),
		DBPort:         must("DB_PORT"),
		DBName:         must("DB_NAME"),
		JWTSecret:      must("JWT_SECRET"),
		AccessTTLMin:   mustInt("ACCESS_TOKEN_TTL_MIN"),
		RefreshTTLDays: mustInt("REFRESH_TOKEN_TTL_DAYS"),
		BcryptCost:     mustInt("BCRYPT_COST"),
	}
}

// EditorConfig tunes the seating editor's debounced persistence. All
// values have working defaults and are optional in the environment.
type EditorConfig struct {
	SaveDebounce time.Duration // delay between the last table edit and its flush
	SaveAttempts int           // write attempts before surfacing an error
	SaveBackoff  time.Duration // base of the linearly growing retry backoff
}

// LoadEditorConfig reads the editor persistence settings, falling back to
// the defaults the UI was tuned against.
func LoadEditorConfig() EditorConfig {
	return EditorConfig{
		SaveDebounce: envDur("EDITOR_SAVE_DEBOUNCE", 750*time.Millisecond),
		SaveAttempts: envInt("EDITOR_SAVE_ATTEMPTS", 3),
		SaveBackoff:  envDur("EDITOR_SAVE_BACKOFF", 250*time.Millisecond),
	}
}

// must retrieves a required environment variable or exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustInt is like must() but converts the value to an integer.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}
