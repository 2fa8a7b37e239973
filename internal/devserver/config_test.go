package devserver

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, ":5000", cfg.Addr)
	assert.Equal(t, "admin", cfg.AdminUser)
}

func TestLoadConfig_FlagsOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dev.yaml")
	require.NoError(t, os.WriteFile(path, []byte("addr: \":6000\"\nadmin_user: boss\nadmin_password: file-pw\n"), 0o600))

	cfg, err := LoadConfig([]string{"-c", path, "-admin-password", "flag-pw", "-unknown", "x"})
	require.NoError(t, err)
	assert.Equal(t, ":6000", cfg.Addr)
	assert.Equal(t, "boss", cfg.AdminUser)
	assert.Equal(t, "flag-pw", cfg.AdminPassword)
}

func TestLoadConfig_EmptyAdminRejected(t *testing.T) {
	_, err := LoadConfig([]string{"-admin-password="})
	require.Error(t, err)
}
