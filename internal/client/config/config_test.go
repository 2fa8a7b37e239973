package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaults() *Config {
	c := &Config{}
	c.LoadDefaults()
	return c
}

func TestLoadDefaults(t *testing.T) {
	c := defaults()

	assert.Equal(t, "http://127.0.0.1:5000", c.ServerURL)
	assert.Equal(t, "settings.db", c.SettingsDB)
	assert.Equal(t, "download", c.DownloadDir)
	assert.Equal(t, 5*time.Second, c.StatusTTL)
	assert.Equal(t, "info", c.LogLevel)
}

func TestLoad_NoSources_UsesDefaults(t *testing.T) {
	cfg, err := load(nil)
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(defaults(), cfg))
}

func TestLoad_EnvOverridesDefaults(t *testing.T) {
	t.Setenv("EDULIB_SERVER_URL", "http://env.example:9000")
	t.Setenv("EDULIB_STATUS_TTL", "2s")

	cfg, err := load(nil)
	require.NoError(t, err)
	assert.Equal(t, "http://env.example:9000", cfg.ServerURL)
	assert.Equal(t, 2*time.Second, cfg.StatusTTL)
}

func TestLoad_FileThenFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "client.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"server_url: http://file.example:8000\n"+
			"settings_db: /tmp/prefs.db\n"+
			"status_ttl: 3s\n"+
			"log_level: debug\n"), 0o600))

	cfg, err := load([]string{"-config", path, "-a", "http://flag.example:7000/", "-x", "ignored"})
	require.NoError(t, err)

	assert.Equal(t, "http://flag.example:7000", cfg.ServerURL, "flags win and trailing slash is trimmed")
	assert.Equal(t, "/tmp/prefs.db", cfg.SettingsDB)
	assert.Equal(t, 3*time.Second, cfg.StatusTTL)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := load([]string{"-c", filepath.Join(t.TempDir(), "absent.yaml")})
	require.Error(t, err)
}

func TestLoad_RejectsZeroTTL(t *testing.T) {
	_, err := load([]string{"-s", "0"})
	require.Error(t, err)
}
