package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	appDir  = "readinghall-dashboard"
	logName = "dashboard.log"
)

// Config holds dashboard settings (.env, then environment, then flags).
type Config struct {
	AppEnv   string // APP_ENV
	LogLevel string // READINGHALL_LOG_LEVEL
	LogFile  string // READINGHALL_LOG_FILE, empty means the default for the surface

	APIURL       string        // READINGHALL_API_URL
	HTTPTimeout  time.Duration // READINGHALL_HTTP_TIMEOUT
	HTTPAttempts int           // READINGHALL_HTTP_ATTEMPTS

	PollInterval time.Duration // READINGHALL_POLL_INTERVAL
	UsageDays    int           // READINGHALL_USAGE_DAYS
	DefaultHall  string        // READINGHALL_DEFAULT_HALL

	Grid struct {
		Rows    int // READINGHALL_GRID_ROWS
		Columns int // READINGHALL_GRID_COLUMNS
	}
}

// Load loads config from environment (.env if present). Malformed numbers
// and durations are reported instead of silently falling back.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var errs []error
	cfg := &Config{
		AppEnv:      getEnv("APP_ENV", EnvProduction),
		LogLevel:    getEnv("READINGHALL_LOG_LEVEL", "info"),
		LogFile:     getEnv("READINGHALL_LOG_FILE", ""),
		APIURL:      strings.TrimRight(getEnv("READINGHALL_API_URL", "http://localhost:5000"), "/"),
		DefaultHall: getEnv("READINGHALL_DEFAULT_HALL", "1"),
	}
	cfg.HTTPTimeout = getDuration("READINGHALL_HTTP_TIMEOUT", 10*time.Second, &errs)
	cfg.HTTPAttempts = getInt("READINGHALL_HTTP_ATTEMPTS", 2, &errs)
	cfg.PollInterval = getDuration("READINGHALL_POLL_INTERVAL", 30*time.Second, &errs)
	cfg.UsageDays = getInt("READINGHALL_USAGE_DAYS", 7, &errs)
	cfg.Grid.Rows = getInt("READINGHALL_GRID_ROWS", 5, &errs)
	cfg.Grid.Columns = getInt("READINGHALL_GRID_COLUMNS", 10, &errs)
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return cfg, nil
}

// Validate checks the values the dashboard cannot run without.
func (c *Config) Validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("config: READINGHALL_API_URL must be an http(s) URL, got %q", c.APIURL)
	}
	if c.Grid.Rows <= 0 || c.Grid.Columns <= 0 {
		return fmt.Errorf("config: grid shape must be positive, got %dx%d", c.Grid.Rows, c.Grid.Columns)
	}
	if c.PollInterval < 0 {
		return errors.New("config: READINGHALL_POLL_INTERVAL must not be negative")
	}
	if c.HTTPTimeout <= 0 {
		return errors.New("config: READINGHALL_HTTP_TIMEOUT must be positive")
	}
	if c.HTTPAttempts < 1 {
		return errors.New("config: READINGHALL_HTTP_ATTEMPTS must be at least 1")
	}
	if c.UsageDays <= 0 {
		return errors.New("config: READINGHALL_USAGE_DAYS must be positive")
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == EnvDevelopment
}

// DefaultLogFile is where the TUI logs when READINGHALL_LOG_FILE is unset.
// The terminal is owned by the alternate screen, so it never logs to stderr.
func DefaultLogFile() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, appDir, logName)
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int, errs *[]error) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		*errs = append(*errs, fmt.Errorf("config: %s: %w", key, err))
		return def
	}
	return n
}

// getDuration accepts Go durations ("30s") or bare seconds ("30").
func getDuration(key string, def time.Duration, errs *[]error) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("config: %s: %w", key, err))
		return def
	}
	return d
}
