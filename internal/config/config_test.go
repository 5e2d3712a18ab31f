package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())
	for _, key := range []string{"APP_ENV", "HTTP_ADDR", "NEWS_STORE", "IDTOKEN_AUDIENCE", "SITE_CONFIG", "WRITE_RATE_LIMIT", "WRITE_RATE_BURST", "TOKENINFO_TIMEOUT", "TOKENINFO_URL", "DATA_DIR", "NEWS_FILE", "NEWS_SOURCE_URL"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.False(t, cfg.IsProduction)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, StoreFile, cfg.NewsStore)
	assert.Equal(t, "data", cfg.DataDir)
	assert.Equal(t, "news.json", cfg.NewsFile)
	assert.Equal(t, 5*time.Second, cfg.TokenInfoTimeout)
	assert.Equal(t, "https://oauth2.googleapis.com/tokeninfo", cfg.TokenInfoURL)
	assert.Equal(t, DefaultSite(), cfg.Site)
	assert.Empty(t, cfg.IDTokenAudience)
	assert.Empty(t, cfg.NewsSourceURL)
}

func TestLoad_NewsSourceURL(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("NEWS_SOURCE_URL", " https://www.example.co.jp/data/news.json ")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://www.example.co.jp/data/news.json", cfg.NewsSourceURL)
}

func TestLoad_Postgres(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("NEWS_STORE", "postgres")
	t.Setenv("DB_DSN", "")

	_, err := Load()
	assert.ErrorContains(t, err, "DB_DSN is required")

	t.Setenv("DB_DSN", "postgres://localhost/news")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "postgres://localhost/news", cfg.DBDSN)
}

func TestLoad_Invalid(t *testing.T) {
	chdir(t, t.TempDir())

	tests := []struct {
		key, value, want string
	}{
		{"NEWS_STORE", "redis", "invalid NEWS_STORE"},
		{"TOKENINFO_TIMEOUT", "soon", "invalid TOKENINFO_TIMEOUT"},
		{"WRITE_RATE_LIMIT", "-1", "invalid WRITE_RATE_LIMIT"},
		{"WRITE_RATE_BURST", "many", "invalid WRITE_RATE_BURST"},
		{"NEWS_FILE", "/etc/news.json", "NEWS_FILE must be relative"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestLoadSite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "site.toml")
	require.NoError(t, os.WriteFile(path, []byte("name = \"Akari Test\"\nhome_count = 2\n"), 0o644))

	site, err := LoadSite(path)
	require.NoError(t, err)
	assert.Equal(t, Site{Name: "Akari Test", LatestCount: 5, HomeCount: 2}, site)

	t.Setenv("SITE_CONFIG", path)
	chdir(t, dir)
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, site, cfg.Site)
}

func TestLoadSite_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadSite(filepath.Join(dir, "missing.toml"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(bad, []byte("latest_count = -1\n"), 0o644))
	_, err = LoadSite(bad)
	assert.ErrorContains(t, err, "latest_count")
}

// chdir changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which needs Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
