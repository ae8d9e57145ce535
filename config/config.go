// Package config loads the daemon configuration: YAML file, then
// environment overrides, then validation. Zero values fall back to
// defaults so a partial file works.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cast"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config holds all daemon configuration.
type Config struct {
	// Node configuration
	Moniker   string `yaml:"moniker"`
	HomeDir   string `yaml:"home_dir"`
	DBBackend string `yaml:"db_backend"`

	// Logging
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	API       APIConfig       `yaml:"api"`
	Ops       OpsConfig       `yaml:"ops"`
	Faucet    FaucetConfig    `yaml:"faucet"`
	Journal   JournalConfig   `yaml:"journal"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// APIConfig configures the public REST/WebSocket server.
type APIConfig struct {
	Enabled          bool          `yaml:"enabled"`
	Host             string        `yaml:"host"`
	Port             int           `yaml:"port"`
	JWTSecret        string        `yaml:"jwt_secret"`
	TokenTTL         time.Duration `yaml:"token_ttl"`
	OperatorUser     string        `yaml:"operator_user"`
	OperatorPassHash string        `yaml:"operator_pass_hash"`
	OperatorAddress  string        `yaml:"operator_address"`
	CORSOrigins      []string      `yaml:"cors_origins"`
	RateLimitRPS     int           `yaml:"rate_limit_rps"`
	MaxBodyBytes     int64         `yaml:"max_body_bytes"`
	RequestTimeout   time.Duration `yaml:"request_timeout"`
	GeoIPDBPath      string        `yaml:"geoip_db_path"`
	BlockedCountries []string      `yaml:"blocked_countries"`
	TLSEnabled       bool          `yaml:"tls_enabled"`
	TLSCertFile      string        `yaml:"tls_cert_file"`
	TLSKeyFile       string        `yaml:"tls_key_file"`
}

// OpsConfig configures the operational health/metrics server.
type OpsConfig struct {
	Enabled     bool     `yaml:"enabled"`
	Host        string   `yaml:"host"`
	Port        int      `yaml:"port"`
	CORSOrigins []string `yaml:"cors_origins"`
}

// FaucetConfig configures the development faucet.
type FaucetConfig struct {
	Enabled  bool              `yaml:"enabled"`
	Amounts  map[string]string `yaml:"amounts"`
	Cooldown time.Duration     `yaml:"cooldown"`
	RedisURL string            `yaml:"redis_url"`
}

// JournalConfig configures the Postgres event journal.
type JournalConfig struct {
	Enabled     bool   `yaml:"enabled"`
	DatabaseURL string `yaml:"database_url"`
}

// TelemetryConfig configures OpenTelemetry export.
type TelemetryConfig struct {
	Enabled      bool    `yaml:"enabled"`
	ServiceName  string  `yaml:"service_name"`
	OTLPEndpoint string  `yaml:"otlp_endpoint"`
	SampleRatio  float64 `yaml:"sample_ratio"`
}

// DefaultConfig returns the development defaults `cascaded init` writes.
func DefaultConfig() *Config {
	return &Config{
		Moniker:   "cascade-node",
		HomeDir:   defaultHomeDir(),
		DBBackend: "goleveldb",
		LogLevel:  "info",
		LogFormat: "json",
		API: APIConfig{
			Enabled:        true,
			Host:           "0.0.0.0",
			Port:           8080,
			TokenTTL:       24 * time.Hour,
			OperatorUser:   "operator",
			CORSOrigins:    []string{"http://localhost:3000"},
			RateLimitRPS:   100,
			MaxBodyBytes:   1 << 20,
			RequestTimeout: 10 * time.Second,
		},
		Ops: OpsConfig{
			Enabled:     true,
			Host:        "0.0.0.0",
			Port:        8081,
			CORSOrigins: []string{"*"},
		},
		Faucet: FaucetConfig{
			Enabled:  false,
			Amounts:  map[string]string{"ucasc": "1000000000000000000000"},
			Cooldown: time.Hour,
		},
		Journal: JournalConfig{
			Enabled: false,
		},
		Telemetry: TelemetryConfig{
			Enabled:     false,
			ServiceName: "cascaded",
			SampleRatio: 0.1,
		},
	}
}

func defaultHomeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".cascade"
	}
	return home + "/.cascade"
}

// Load reads path (if non-empty), applies CASCADE_* environment overrides,
// and validates the result.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overlays CASCADE_* environment variables: nested keys use
// underscores, e.g. CASCADE_API_PORT, CASCADE_JOURNAL_DATABASE_URL.
func (c *Config) applyEnv() {
	v := viper.New()
	v.SetEnvPrefix("CASCADE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if s := v.GetString("moniker"); s != "" {
		c.Moniker = s
	}
	if s := v.GetString("home_dir"); s != "" {
		c.HomeDir = s
	}
	if s := v.GetString("db_backend"); s != "" {
		c.DBBackend = s
	}
	if s := v.GetString("log_level"); s != "" {
		c.LogLevel = s
	}
	if s := v.GetString("log_format"); s != "" {
		c.LogFormat = s
	}

	if s := v.GetString("api.port"); s != "" {
		c.API.Port = cast.ToInt(s)
	}
	if s := v.GetString("api.host"); s != "" {
		c.API.Host = s
	}
	if s := v.GetString("api.jwt_secret"); s != "" {
		c.API.JWTSecret = s
	}
	if s := v.GetString("api.operator_pass_hash"); s != "" {
		c.API.OperatorPassHash = s
	}
	if s := v.GetString("api.operator_address"); s != "" {
		c.API.OperatorAddress = s
	}
	if s := v.GetString("api.cors_origins"); s != "" {
		c.API.CORSOrigins = strings.Split(s, ",")
	}
	if s := v.GetString("api.rate_limit_rps"); s != "" {
		c.API.RateLimitRPS = cast.ToInt(s)
	}

	if s := v.GetString("ops.port"); s != "" {
		c.Ops.Port = cast.ToInt(s)
	}

	if s := v.GetString("faucet.enabled"); s != "" {
		c.Faucet.Enabled = cast.ToBool(s)
	}
	if s := v.GetString("faucet.redis_url"); s != "" {
		c.Faucet.RedisURL = s
	}
	if s := v.GetString("faucet.cooldown"); s != "" {
		c.Faucet.Cooldown = cast.ToDuration(s)
	}

	if s := v.GetString("journal.enabled"); s != "" {
		c.Journal.Enabled = cast.ToBool(s)
	}
	if s := v.GetString("journal.database_url"); s != "" {
		c.Journal.DatabaseURL = s
	}

	if s := v.GetString("telemetry.enabled"); s != "" {
		c.Telemetry.Enabled = cast.ToBool(s)
	}
	if s := v.GetString("telemetry.otlp_endpoint"); s != "" {
		c.Telemetry.OTLPEndpoint = s
	}
	if s := v.GetString("telemetry.sample_ratio"); s != "" {
		c.Telemetry.SampleRatio = cast.ToFloat64(s)
	}
}

// Validate checks the configuration for values the daemon cannot run with.
func (c *Config) Validate() error {
	if c.HomeDir == "" {
		return fmt.Errorf("home_dir must not be empty")
	}
	switch c.DBBackend {
	case "goleveldb", "memdb", "pebbledb":
	default:
		return fmt.Errorf("unsupported db_backend %q", c.DBBackend)
	}
	if c.API.Enabled {
		if c.API.Port <= 0 || c.API.Port > 65535 {
			return fmt.Errorf("api.port %d out of range", c.API.Port)
		}
		if c.API.TLSEnabled && (c.API.TLSCertFile == "" || c.API.TLSKeyFile == "") {
			return fmt.Errorf("api.tls_enabled requires tls_cert_file and tls_key_file")
		}
	}
	if c.Ops.Enabled {
		if c.Ops.Port <= 0 || c.Ops.Port > 65535 {
			return fmt.Errorf("ops.port %d out of range", c.Ops.Port)
		}
		if c.API.Enabled && c.Ops.Port == c.API.Port {
			return fmt.Errorf("ops.port and api.port must differ")
		}
	}
	if c.Faucet.Enabled {
		if len(c.Faucet.Amounts) == 0 {
			return fmt.Errorf("faucet.enabled requires at least one amount")
		}
		if c.Faucet.Cooldown <= 0 {
			return fmt.Errorf("faucet.cooldown must be positive")
		}
	}
	if c.Journal.Enabled && c.Journal.DatabaseURL == "" {
		return fmt.Errorf("journal.enabled requires database_url")
	}
	if c.Telemetry.Enabled {
		if c.Telemetry.SampleRatio < 0 || c.Telemetry.SampleRatio > 1 {
			return fmt.Errorf("telemetry.sample_ratio %f out of [0,1]", c.Telemetry.SampleRatio)
		}
	}
	return nil
}

// WriteDefault writes the default configuration YAML to path, refusing to
// overwrite an existing file.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file %s already exists", path)
	}
	data, err := yaml.Marshal(DefaultConfig())
	if err != nil {
		return fmt.Errorf("marshal default config: %w", err)
	}
	return os.WriteFile(path, data, 0o600)
}
