package commands

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"coursesync-backend/internal/scrapers/portal"

	"github.com/stretchr/testify/require"
)

func TestReadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "portal.json5")
	*configPath = path

	require.NoError(t, os.WriteFile(path, []byte(`{
		base_url: "https://portal.example.edu",
		cookies: {JSESSIONID: "abc"},
		retry: {max_attempts: 5, initial_delay: "1s"},
	}`), 0600))

	cfg, err := readConfig()
	require.NoError(t, err)
	require.Equal(t, "https://portal.example.edu", cfg.BaseUrl)
	require.Equal(t, "abc", cfg.Cookies["JSESSIONID"])
	require.Equal(t, "data/archive.db", cfg.Database)

	policy, err := cfg.Retry.Policy()
	require.NoError(t, err)
	require.Equal(t, portal.RetryPolicy{
		MaxAttempts:   5,
		FallbackAfter: 10,
		InitialDelay:  time.Second,
		MaxDelay:      5 * time.Second,
	}, policy)
}

func TestReadConfigUnboundedRetry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "portal.json5")
	*configPath = path

	require.NoError(t, os.WriteFile(path, []byte(`{
		base_url: "https://portal.example.edu",
		retry: {max_attempts: 0, fallback_after: 0},
	}`), 0600))

	cfg, err := readConfig()
	require.NoError(t, err)

	policy, err := cfg.Retry.Policy()
	require.NoError(t, err)
	require.Equal(t, 0, policy.MaxAttempts)
	require.Equal(t, 0, policy.FallbackAfter)
	require.Equal(t, 250*time.Millisecond, policy.InitialDelay)

	// the defaults are not shared between reads
	require.Equal(t, 30, portal.DefaultRetryPolicy().MaxAttempts)
	require.Equal(t, 30, *defaultConfig().Retry.MaxAttempts)
}

func TestReadConfigRequiresBaseUrl(t *testing.T) {
	path := filepath.Join(t.TempDir(), "portal.json5")
	*configPath = path
	require.NoError(t, os.WriteFile(path, []byte(`{}`), 0600))

	_, err := readConfig()
	require.Error(t, err)
}

func TestRetryConfigPolicyRejectsBadDuration(t *testing.T) {
	_, err := RetryConfig{InitialDelay: "soon"}.Policy()
	require.Error(t, err)
}
