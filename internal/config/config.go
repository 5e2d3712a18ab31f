package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

const PROD_STRING = "prod"

// Store backends selectable with NEWS_STORE.
const (
	StoreFile     = "file"
	StorePostgres = "postgres"
)

// Config holds all application configuration loaded from environment.
type Config struct {
	IsProduction bool
	HTTPAddr     string
	LogLevel     string

	NewsStore string
	DataDir   string
	NewsFile  string
	DBDSN     string

	IDTokenAudience  string
	TokenInfoURL     string
	TokenInfoTimeout time.Duration

	ScriptAccessKeyHash string

	// WriteRateLimit is the sustained writes per second; zero disables limiting.
	WriteRateLimit float64
	WriteRateBurst int

	// NewsSourceURL, when set, is the collection URL the news pages are
	// rendered from instead of the local store.
	NewsSourceURL string

	Site Site
}

// Site is the site metadata used by the rendered news pages.
type Site struct {
	Name        string `toml:"name"`
	LatestCount int    `toml:"latest_count"`
	HomeCount   int    `toml:"home_count"`
}

// DefaultSite returns the built-in site metadata.
func DefaultSite() Site {
	return Site{Name: "株式会社あかりハウジング", LatestCount: 5, HomeCount: 3}
}

// Load loads configuration from .env (optional) and environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to load .env file", "error", err)
	}

	cfg := &Config{}

	// Application environment (default: dev)
	cfg.IsProduction = getEnv("APP_ENV", "dev") == PROD_STRING

	// HTTP listen address (default: :8080)
	cfg.HTTPAddr = getEnv("HTTP_ADDR", ":8080")
	cfg.LogLevel = getEnv("LOG_LEVEL", "info")

	// Storage backend (default: file)
	cfg.NewsStore = strings.ToLower(getEnv("NEWS_STORE", StoreFile))
	switch cfg.NewsStore {
	case StoreFile:
		cfg.DataDir = getEnv("DATA_DIR", "data")
		cfg.NewsFile = getEnv("NEWS_FILE", "news.json")
		if filepath.IsAbs(cfg.NewsFile) {
			return nil, fmt.Errorf("NEWS_FILE must be relative to DATA_DIR")
		}
	case StorePostgres:
		// Database DSN is required for the postgres store only
		cfg.DBDSN = os.Getenv("DB_DSN")
		if cfg.DBDSN == "" {
			return nil, fmt.Errorf("DB_DSN is required when NEWS_STORE=%s", StorePostgres)
		}
	default:
		return nil, fmt.Errorf("invalid NEWS_STORE %q: want %s or %s", cfg.NewsStore, StoreFile, StorePostgres)
	}

	// OAuth client ID identity tokens must be issued for. Empty refuses every write.
	cfg.IDTokenAudience = strings.TrimSpace(os.Getenv("IDTOKEN_AUDIENCE"))
	cfg.TokenInfoURL = getEnv("TOKENINFO_URL", "https://oauth2.googleapis.com/tokeninfo")

	timeout, err := time.ParseDuration(getEnv("TOKENINFO_TIMEOUT", "5s"))
	if err != nil {
		return nil, fmt.Errorf("invalid TOKENINFO_TIMEOUT: %w", err)
	}
	cfg.TokenInfoTimeout = timeout

	// Script backend is disabled unless a bcrypt hash is configured
	cfg.ScriptAccessKeyHash = os.Getenv("SCRIPT_ACCESS_KEY_HASH")

	cfg.WriteRateLimit, err = getEnvAsFloat("WRITE_RATE_LIMIT", 1)
	if err != nil {
		return nil, fmt.Errorf("invalid WRITE_RATE_LIMIT: %w", err)
	}
	cfg.WriteRateBurst, err = getEnvAsInt("WRITE_RATE_BURST", 5)
	if err != nil {
		return nil, fmt.Errorf("invalid WRITE_RATE_BURST: %w", err)
	}

	// Pages render from the local store unless another deployment serves the collection
	cfg.NewsSourceURL = strings.TrimSpace(os.Getenv("NEWS_SOURCE_URL"))

	cfg.Site = DefaultSite()
	if path := os.Getenv("SITE_CONFIG"); path != "" {
		site, err := LoadSite(path)
		if err != nil {
			return nil, err
		}
		cfg.Site = site
	}

	return cfg, nil
}

// LoadSite reads site metadata from a TOML file. Keys missing from the
// file keep their defaults.
func LoadSite(path string) (Site, error) {
	site := DefaultSite()

	var raw Site
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Site{}, fmt.Errorf("load site config: %w", err)
	}

	if meta.IsDefined("name") {
		if name := strings.TrimSpace(raw.Name); name != "" {
			site.Name = name
		}
	}
	if meta.IsDefined("latest_count") {
		if raw.LatestCount < 0 {
			return Site{}, fmt.Errorf("site config latest_count must not be negative")
		}
		site.LatestCount = raw.LatestCount
	}
	if meta.IsDefined("home_count") {
		if raw.HomeCount < 0 {
			return Site{}, fmt.Errorf("site config home_count must not be negative")
		}
		site.HomeCount = raw.HomeCount
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		slog.Warn("unknown keys in site config", "path", path, "keys", fmt.Sprint(undecoded))
	}

	return site, nil
}

// getEnv returns the value of the environment variable if set,
// otherwise returns the provided default value.
func getEnv(key, defaultValue string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer.
// It returns the default value if the variable is not set.
// It returns an error if the variable is set but is not a valid integer.
func getEnvAsInt(key string, defaultValue int) (int, error) {
	valStr := getEnv(key, "")
	if valStr == "" {
		return defaultValue, nil
	}

	val, err := strconv.Atoi(valStr)
	if err != nil {
		return 0, fmt.Errorf("env %s value %q is not a valid integer: %w", key, valStr, err)
	}

	return val, nil
}

// getEnvAsFloat is getEnvAsInt for non-negative decimal values.
func getEnvAsFloat(key string, defaultValue float64) (float64, error) {
	valStr := getEnv(key, "")
	if valStr == "" {
		return defaultValue, nil
	}

	val, err := strconv.ParseFloat(valStr, 64)
	if err != nil || val < 0 {
		return 0, fmt.Errorf("env %s value %q is not a valid non-negative number", key, valStr)
	}

	return val, nil
}
