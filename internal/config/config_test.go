package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/XavierBriggs/fortuna/services/parlay-builder/pkg/oddsmath"
)

var envKeys = []string{
	"PARLAY_CONFIG_FILE", "PARLAY_SERVICE_PORT", "CORS_ALLOWED_ORIGINS",
	"DEFAULT_VIG_PCT", "DEFAULT_STAKE", "DEFAULT_BOOST_PCT", "VIG_POLICY",
	"SHARE_BASE_URL", "LOG_LEVEL", "LOG_FILE", "LOG_MAX_SIZE_MB",
	"LOG_MAX_BACKUPS", "LOG_MAX_AGE_DAYS",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range envKeys {
		t.Setenv(key, "")
	}
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	return writeNamed(t, "parlay.yaml", content)
}

func writeNamed(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Server.Port != "8086" {
		t.Errorf("expected port 8086, got %s", cfg.Server.Port)
	}
	if cfg.Defaults.AssumedVigPct != 7 || cfg.Defaults.Stake != 10 || cfg.Defaults.BoostPct != 0 {
		t.Errorf("unexpected defaults: %+v", cfg.Defaults)
	}
	if cfg.Defaults.VigPolicy != oddsmath.VigPolicyDivide {
		t.Errorf("expected DIVIDE, got %s", cfg.Defaults.VigPolicy)
	}
	if cfg.Log.Level != "info" || cfg.Log.File != "" {
		t.Errorf("unexpected log config: %+v", cfg.Log)
	}
}

func TestLoadConfig_Env(t *testing.T) {
	clearEnv(t)
	t.Setenv("PARLAY_SERVICE_PORT", "9000")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("DEFAULT_VIG_PCT", "4.5")
	t.Setenv("DEFAULT_STAKE", "1,000")
	t.Setenv("VIG_POLICY", "multiply")
	t.Setenv("LOG_MAX_BACKUPS", "7")
	t.Setenv("LOG_MAX_AGE_DAYS", "not-a-number")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Server.Port != "9000" {
		t.Errorf("expected port 9000, got %s", cfg.Server.Port)
	}
	if len(cfg.Server.AllowedOrigins) != 2 || cfg.Server.AllowedOrigins[1] != "https://b.example" {
		t.Errorf("unexpected origins: %v", cfg.Server.AllowedOrigins)
	}
	if cfg.Defaults.AssumedVigPct != 4.5 || cfg.Defaults.Stake != 1000 {
		t.Errorf("unexpected defaults: %+v", cfg.Defaults)
	}
	if cfg.Defaults.VigPolicy != oddsmath.VigPolicyMultiply {
		t.Errorf("expected MULTIPLY, got %s", cfg.Defaults.VigPolicy)
	}
	if cfg.Log.MaxBackups != 7 {
		t.Errorf("expected 7 backups, got %d", cfg.Log.MaxBackups)
	}
	if cfg.Log.MaxAgeDays != 28 {
		t.Errorf("unparseable value should keep default, got %d", cfg.Log.MaxAgeDays)
	}
}

func TestLoadConfig_FileThenEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("PARLAY_CONFIG_FILE", writeFile(t, `
server:
  port: "8100"
defaults:
  assumed_vig_pct: 5
  stake: 25
share:
  base_url: https://fortuna.example/parlay
log:
  level: debug
  file: /tmp/parlay.log
`))
	t.Setenv("DEFAULT_STAKE", "50")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Server.Port != "8100" {
		t.Errorf("expected port from file, got %s", cfg.Server.Port)
	}
	if cfg.Defaults.AssumedVigPct != 5 {
		t.Errorf("expected vig from file, got %v", cfg.Defaults.AssumedVigPct)
	}
	if cfg.Defaults.Stake != 50 {
		t.Errorf("environment should override file, got %v", cfg.Defaults.Stake)
	}
	if cfg.Share.BaseURL != "https://fortuna.example/parlay" || cfg.Log.Level != "debug" {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if cfg.Log.MaxSizeMB != 100 {
		t.Errorf("keys missing from the file should keep defaults, got %d", cfg.Log.MaxSizeMB)
	}
}

func TestLoadConfig_TOML(t *testing.T) {
	clearEnv(t)
	t.Setenv("PARLAY_CONFIG_FILE", writeNamed(t, "parlay.toml", `
[server]
port = "8200"
allowed_origins = ["https://fortuna.example"]

[defaults]
vig_policy = "MULTIPLY"
boost_pct = 10.0
`))

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Server.Port != "8200" || len(cfg.Server.AllowedOrigins) != 1 {
		t.Errorf("unexpected server config: %+v", cfg.Server)
	}
	if cfg.Defaults.VigPolicy != oddsmath.VigPolicyMultiply || cfg.Defaults.BoostPct != 10 {
		t.Errorf("unexpected defaults: %+v", cfg.Defaults)
	}
	if cfg.Defaults.Stake != 10 {
		t.Errorf("keys missing from the file should keep defaults, got %v", cfg.Defaults.Stake)
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing file", map[string]string{"PARLAY_CONFIG_FILE": filepath.Join(t.TempDir(), "missing.yaml")}},
		{"bad yaml", map[string]string{"PARLAY_CONFIG_FILE": writeFile(t, "server: [unclosed")}},
		{"bad toml", map[string]string{"PARLAY_CONFIG_FILE": writeNamed(t, "bad.toml", "[server\nport = ")}},
		{"bad port", map[string]string{"PARLAY_SERVICE_PORT": "http"}},
		{"bad policy", map[string]string{"VIG_POLICY": "ADDITIVE"}},
		{"vig out of range", map[string]string{"DEFAULT_VIG_PCT": "40"}},
		{"negative stake", map[string]string{"DEFAULT_STAKE": "-5"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			if _, err := LoadConfig(); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestNewRequest(t *testing.T) {
	cfg := Default()
	cfg.Defaults.Stake = 25
	cfg.Defaults.AssumedVigPct = 4

	req := cfg.NewRequest()
	if req.Stake != 25 || req.AssumedVigPct != 4 || len(req.Legs) != 2 {
		t.Errorf("unexpected request: %+v", req)
	}
}
