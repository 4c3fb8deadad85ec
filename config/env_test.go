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
	t.Chdir(t.TempDir())
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "4000", cfg.Port)
	assert.Equal(t, time.Hour, cfg.TokenTTL)
	assert.Equal(t, "file", cfg.StoreDriver)
	assert.Equal(t, "data", cfg.StoreSource())
	assert.Equal(t, time.Minute, cfg.ReminderInterval)
	assert.Equal(t, 10*time.Minute, cfg.ReminderLead)
	assert.Equal(t, 20, cfg.AuthRateLimit)
	assert.Empty(t, cfg.MQTTURL)
}

func TestLoad_RequiresSecret(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("JWT_SECRET", "")
	os.Unsetenv("JWT_SECRET")

	_, err := Load()
	assert.ErrorContains(t, err, "JWT_SECRET")
}

func TestLoad_ReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("STORE_DRIVER", "")
	t.Setenv("SQLITE_PATH", "")
	os.Unsetenv("STORE_DRIVER")
	os.Unsetenv("SQLITE_PATH")
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"),
		[]byte("JWT_SECRET=from-file\nSTORE_DRIVER=sqlite\nSQLITE_PATH=test.db\n"), 0o600))

	cfg, err := Load()
	require.NoError(t, err)

	// variables already in the environment win over the file
	assert.Equal(t, "from-env", cfg.JWTSecret)
	assert.Equal(t, "sqlite", cfg.StoreDriver)
	assert.Equal(t, "test.db", cfg.StoreSource())
}

func TestLoad_RejectsNonPositiveTTL(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("TOKEN_TTL", "0s")

	_, err := Load()
	assert.ErrorContains(t, err, "TOKEN_TTL")
}
