package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("GATEWAY_BASE_URL", "http://backend.local/api/")
	t.Setenv("CAPTURE_JPEG_QUALITY", "150")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "http://backend.local/api", cfg.Gateway.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.Capture.FrameTimeout)
	assert.Equal(t, 90, cfg.Capture.JPEGQuality)
	assert.Equal(t, time.Duration(0), cfg.Gateway.SyncInterval)
	assert.Empty(t, cfg.Accounts)
}

func TestParseAccounts(t *testing.T) {
	accounts, err := parseAccounts("Admin@Example.com|admin|Admin User|$2a$10$hash; teacher@example.com|teacher|Teacher User|$2a$10$other|t-1")
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Equal(t, "admin@example.com", accounts[0].Email)
	assert.Equal(t, "admin", accounts[0].Role)
	assert.Empty(t, accounts[0].TeacherID)
	assert.Equal(t, "t-1", accounts[1].TeacherID)

	_, err = parseAccounts("broken|entry")
	require.Error(t, err)
}

func TestParseDurationFallback(t *testing.T) {
	assert.Equal(t, time.Minute, parseDuration("", time.Minute))
	assert.Equal(t, time.Minute, parseDuration("soon", time.Minute))
	assert.Equal(t, 3*time.Second, parseDuration("3s", time.Minute))
}

func TestSplitAndTrim(t *testing.T) {
	assert.Nil(t, splitAndTrim(""))
	assert.Equal(t, []string{"a", "b"}, splitAndTrim(" a, ,b "))
}
