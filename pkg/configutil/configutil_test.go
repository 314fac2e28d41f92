package configutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type testConfig struct {
	BaseUrl string `json:"base_url"`
	Retries int    `json:"retries"`
	Verbose bool   `json:"verbose"`
}

func TestReadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json5")

	_, err := ReadConfig(path, testConfig{})
	require.True(t, os.IsNotExist(err))

	err = os.WriteFile(path, []byte(`{
		// comments are allowed
		base_url: "https://portal.example.edu",
	}`), 0600)
	require.NoError(t, err)

	cfg, err := ReadConfig(path, testConfig{Retries: 5})
	require.NoError(t, err)
	require.Equal(t, testConfig{BaseUrl: "https://portal.example.edu", Retries: 5}, cfg)

	err = os.WriteFile(filepath.Join(dir, "config.local.json5"), []byte(`{retries: 9, verbose: true}`), 0600)
	require.NoError(t, err)

	cfg, err = ReadConfig(path, testConfig{Retries: 5})
	require.NoError(t, err)
	require.Equal(t, testConfig{BaseUrl: "https://portal.example.edu", Retries: 9, Verbose: true}, cfg)
}

type limitConfig struct {
	Limit *int   `json:"limit"`
	Name  string `json:"name"`
}

func TestReadConfigPointerZeroOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json5")

	limit := 30
	defaults := limitConfig{Limit: &limit, Name: "default"}

	err := os.WriteFile(path, []byte(`{limit: 0}`), 0600)
	require.NoError(t, err)

	cfg, err := ReadConfig(path, defaults)
	require.NoError(t, err)
	require.NotNil(t, cfg.Limit)
	require.Equal(t, 0, *cfg.Limit)
	require.Equal(t, "default", cfg.Name)
	require.Equal(t, 30, limit)

	err = os.WriteFile(path, []byte(`{name: "base"}`), 0600)
	require.NoError(t, err)

	cfg, err = ReadConfig(path, defaults)
	require.NoError(t, err)
	require.Equal(t, 30, *cfg.Limit)
	require.Equal(t, "base", cfg.Name)
}
