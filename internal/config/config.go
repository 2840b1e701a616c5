package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/XavierBriggs/fortuna/services/parlay-builder/pkg/models"
	"github.com/XavierBriggs/fortuna/services/parlay-builder/pkg/oddsmath"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ServerConfig holds server configuration
type ServerConfig struct {
	Port           string   `yaml:"port" toml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins" toml:"allowed_origins"`
}

// DefaultsConfig holds the settings applied to a fresh form
type DefaultsConfig struct {
	AssumedVigPct float64            `yaml:"assumed_vig_pct" toml:"assumed_vig_pct"`
	Stake         float64            `yaml:"stake" toml:"stake"`
	BoostPct      float64            `yaml:"boost_pct" toml:"boost_pct"`
	VigPolicy     oddsmath.VigPolicy `yaml:"vig_policy" toml:"vig_policy"`
}

// ShareConfig holds share link configuration
type ShareConfig struct {
	BaseURL string `yaml:"base_url" toml:"base_url"` // Page the share links point at
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level      string `yaml:"level" toml:"level"`
	File       string `yaml:"file" toml:"file"` // Empty logs to stdout only
	MaxSizeMB  int    `yaml:"max_size_mb" toml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups" toml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days" toml:"max_age_days"`
}

// Config holds all application configuration
type Config struct {
	Server   ServerConfig   `yaml:"server" toml:"server"`
	Defaults DefaultsConfig `yaml:"defaults" toml:"defaults"`
	Share    ShareConfig    `yaml:"share" toml:"share"`
	Log      LogConfig      `yaml:"log" toml:"log"`
}

// Default returns the configuration used when nothing is set
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           "8086",
			AllowedOrigins: []string{"http://localhost:3000"},
		},
		Defaults: DefaultsConfig{
			AssumedVigPct: models.DefaultAssumedVigPct,
			Stake:         models.DefaultStake,
			BoostPct:      models.DefaultBoostPct,
			VigPolicy:     oddsmath.VigPolicyDivide,
		},
		Share: ShareConfig{
			BaseURL: "http://localhost:3000/parlay",
		},
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  100,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

// LoadConfig loads configuration. A .env file in the working directory is
// read first if present, then the YAML or TOML file named by PARLAY_CONFIG_FILE,
// then environment variables, each layer overriding the one before.
func LoadConfig() (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	cfg := Default()

	if path := os.Getenv("PARLAY_CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadFile overlays the file at path onto cfg. Files ending in .toml are
// read as TOML, anything else as YAML.
func (c *Config) loadFile(path string) error {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if _, err := toml.DecodeFile(path, c); err != nil {
			return fmt.Errorf("failed to parse config file: %w", err)
		}
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Server.Port = getEnv("PARLAY_SERVICE_PORT", c.Server.Port)
	c.Server.AllowedOrigins = getEnvList("CORS_ALLOWED_ORIGINS", c.Server.AllowedOrigins)

	c.Defaults.AssumedVigPct = getEnvFloat("DEFAULT_VIG_PCT", c.Defaults.AssumedVigPct)
	c.Defaults.Stake = getEnvFloat("DEFAULT_STAKE", c.Defaults.Stake)
	c.Defaults.BoostPct = getEnvFloat("DEFAULT_BOOST_PCT", c.Defaults.BoostPct)
	c.Defaults.VigPolicy = oddsmath.VigPolicy(getEnv("VIG_POLICY", string(c.Defaults.VigPolicy)))

	c.Share.BaseURL = getEnv("SHARE_BASE_URL", c.Share.BaseURL)

	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)
	c.Log.File = getEnv("LOG_FILE", c.Log.File)
	c.Log.MaxSizeMB = getEnvInt("LOG_MAX_SIZE_MB", c.Log.MaxSizeMB)
	c.Log.MaxBackups = getEnvInt("LOG_MAX_BACKUPS", c.Log.MaxBackups)
	c.Log.MaxAgeDays = getEnvInt("LOG_MAX_AGE_DAYS", c.Log.MaxAgeDays)
}

// Validate checks that the configuration is usable
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}
	if _, err := strconv.Atoi(c.Server.Port); err != nil {
		return fmt.Errorf("invalid server port %q: %w", c.Server.Port, err)
	}

	policy := strings.ToUpper(string(c.Defaults.VigPolicy))
	if policy != string(oddsmath.VigPolicyDivide) && policy != string(oddsmath.VigPolicyMultiply) {
		return fmt.Errorf("invalid vig policy %q (want DIVIDE or MULTIPLY)", c.Defaults.VigPolicy)
	}
	c.Defaults.VigPolicy = oddsmath.VigPolicy(policy)

	if c.Defaults.AssumedVigPct < 0 || c.Defaults.AssumedVigPct > oddsmath.MaxAssumedVig*100 {
		return fmt.Errorf("default vig %.2f%% out of range", c.Defaults.AssumedVigPct)
	}
	if c.Defaults.Stake < 0 {
		return fmt.Errorf("default stake must not be negative")
	}
	if c.Defaults.BoostPct < 0 {
		return fmt.Errorf("default boost must not be negative")
	}
	return nil
}

// NewRequest returns an empty form carrying the configured defaults
func (c *Config) NewRequest() models.EvaluateRequest {
	req := models.NewEvaluateRequest()
	req.AssumedVigPct = models.Number(c.Defaults.AssumedVigPct)
	req.Stake = models.Number(c.Defaults.Stake)
	req.BoostPct = models.Number(c.Defaults.BoostPct)
	return req
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, ok := oddsmath.ParseNumber(value); ok {
			return f
		}
	}
	return defaultValue
}

// getEnvList reads a comma-separated list
func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
