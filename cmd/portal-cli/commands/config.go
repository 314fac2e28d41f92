package commands

import (
	"fmt"
	"time"

	"coursesync-backend/internal/components/chrono"
	"coursesync-backend/internal/components/telemetry"
	"coursesync-backend/internal/scrapers/portal"
	"coursesync-backend/pkg/configutil"
)

// RetryConfig uses pointers for the bounds since 0 disables them.
type RetryConfig struct {
	MaxAttempts   *int   `json:"max_attempts"`
	FallbackAfter *int   `json:"fallback_after"`
	InitialDelay  string `json:"initial_delay"`
	MaxDelay      string `json:"max_delay"`
}

type Config struct {
	BaseUrl string `json:"base_url"`
	// Cookies of a logged in browser session.
	Cookies           map[string]string `json:"cookies"`
	RequestsPerSecond float64           `json:"requests_per_second"`
	TimeZone          string            `json:"time_zone"`
	Retry             RetryConfig       `json:"retry"`
	// DumpDir receives every fetched page when set, for debugging extraction.
	DumpDir string `json:"dump_dir"`

	// Database is a sqlite file path or a libsql url.
	Database string `json:"database"`
	// StateDir holds the read state, empty keeps it in memory.
	StateDir string `json:"state_dir"`
	Manifest string `json:"manifest"`
	Schedule string `json:"schedule"`
}

func defaultConfig() Config {
	retry := portal.DefaultRetryPolicy()
	return Config{
		RequestsPerSecond: 2,
		TimeZone:          "America/Los_Angeles",
		Retry: RetryConfig{
			MaxAttempts:   &retry.MaxAttempts,
			FallbackAfter: &retry.FallbackAfter,
			InitialDelay:  retry.InitialDelay.String(),
			MaxDelay:      retry.MaxDelay.String(),
		},
		Database: "data/archive.db",
		StateDir: "data/state",
		Manifest: "manifest.json5",
		Schedule: "*/30 * * * *",
	}
}

func parseDuration(name, value string) (time.Duration, error) {
	if value == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", name, err)
	}
	return d, nil
}

func (c RetryConfig) Policy() (portal.RetryPolicy, error) {
	initial, err := parseDuration("initial_delay", c.InitialDelay)
	if err != nil {
		return portal.RetryPolicy{}, err
	}
	maxDelay, err := parseDuration("max_delay", c.MaxDelay)
	if err != nil {
		return portal.RetryPolicy{}, err
	}
	policy := portal.RetryPolicy{
		InitialDelay: initial,
		MaxDelay:     maxDelay,
	}
	if c.MaxAttempts != nil {
		policy.MaxAttempts = *c.MaxAttempts
	}
	if c.FallbackAfter != nil {
		policy.FallbackAfter = *c.FallbackAfter
	}
	return policy, nil
}

func readConfig() (Config, error) {
	cfg, err := configutil.ReadConfig(*configPath, defaultConfig())
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if cfg.BaseUrl == "" {
		return Config{}, fmt.Errorf("read config: base_url must be set")
	}
	err = chrono.UseLocation(cfg.TimeZone)
	if err != nil {
		return Config{}, fmt.Errorf("read config: time_zone: %w", err)
	}
	return cfg, nil
}

func newEngine(cfg Config, tel telemetry.API) (*portal.Engine, *portal.Client, error) {
	retry, err := cfg.Retry.Policy()
	if err != nil {
		return nil, nil, err
	}
	client, err := portal.NewClient(portal.ClientOptions{
		BaseUrl:           cfg.BaseUrl,
		Cookies:           cfg.Cookies,
		RequestsPerSecond: cfg.RequestsPerSecond,
		DumpDir:           cfg.DumpDir,
	}, tel)
	if err != nil {
		return nil, nil, err
	}
	engine := portal.NewEngine(portal.EngineOptions{
		Accessor: client,
		Retry:    retry,
	}, tel)
	return engine, client, nil
}
