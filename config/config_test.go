package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cascade-dex/cascade/config"
)

func TestDefaultConfigIsValid(t *testing.T) {
	require.NoError(t, config.DefaultConfig().Validate())
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api:\n  port: 9000\n"), 0o600))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, 9000, cfg.API.Port)
	// Untouched fields keep their defaults.
	require.Equal(t, "goleveldb", cfg.DBBackend)
	require.Equal(t, 8081, cfg.Ops.Port)
	require.Equal(t, 24*time.Hour, cfg.API.TokenTTL)
}

func TestLoad_MissingFileFails(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api:\n  port: 9000\n"), 0o600))
	t.Setenv("CASCADE_API_PORT", "9100")
	t.Setenv("CASCADE_JOURNAL_DATABASE_URL", "postgres://localhost/cascade")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, 9100, cfg.API.Port)
	require.Equal(t, "postgres://localhost/cascade", cfg.Journal.DatabaseURL)
}

func TestValidate_Rejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"bad backend", func(c *config.Config) { c.DBBackend = "sqlite" }},
		{"api port out of range", func(c *config.Config) { c.API.Port = 70000 }},
		{"tls without cert", func(c *config.Config) { c.API.TLSEnabled = true }},
		{"port collision", func(c *config.Config) { c.Ops.Port = c.API.Port }},
		{"faucet without amounts", func(c *config.Config) {
			c.Faucet.Enabled = true
			c.Faucet.Amounts = nil
		}},
		{"journal without dsn", func(c *config.Config) { c.Journal.Enabled = true }},
		{"sample ratio out of range", func(c *config.Config) {
			c.Telemetry.Enabled = true
			c.Telemetry.SampleRatio = 1.5
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.DefaultConfig()
			tc.mutate(cfg)
			require.Error(t, cfg.Validate())
		})
	}
}

func TestWriteDefault_RoundTripsAndRefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, config.WriteDefault(path))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, config.DefaultConfig().API.Port, cfg.API.Port)

	require.Error(t, config.WriteDefault(path))
}
