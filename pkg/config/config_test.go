package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return p
}

func TestLoadParsesFullConfig(t *testing.T) {
	p := writeConfig(t, `
server:
  address: "127.0.0.1"
  port: 9090
storage:
  db_path: "/tmp/store"
logging:
  level: "debug"
identity:
  token_secret: "s3cret"
  token_ttl: "12h"
  min_password_entropy: 60
  providers:
    - name: google
      email: demo@x.com
      subject: sub-1
snapshot:
  enabled: true
  cron: "0 3 * * *"
  keep: 3
validation:
  max_text_bytes: 4096
sensor:
  interval: 15
`)
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr() != "127.0.0.1:9090" {
		t.Fatalf("Addr = %q", cfg.Addr())
	}
	if cfg.Identity.TokenTTL.Std() != 12*time.Hour {
		t.Fatalf("token_ttl = %v", cfg.Identity.TokenTTL.Std())
	}
	// bare integers read as seconds
	if cfg.Sensor.Interval.Std() != 15*time.Second {
		t.Fatalf("sensor interval = %v", cfg.Sensor.Interval.Std())
	}
	if len(cfg.Identity.Providers) != 1 || cfg.Identity.Providers[0].Name != "google" {
		t.Fatalf("providers = %+v", cfg.Identity.Providers)
	}
	if !cfg.Snapshot.Enabled || cfg.Snapshot.Keep != 3 {
		t.Fatalf("snapshot = %+v", cfg.Snapshot)
	}
}

func TestAddrDefaultsPort(t *testing.T) {
	var cfg Config
	if cfg.Addr() != ":8080" {
		t.Fatalf("Addr = %q", cfg.Addr())
	}
}

func TestDurationRejectsGarbage(t *testing.T) {
	var d Duration
	if err := yaml.Unmarshal([]byte(`"soon"`), &d); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestLoadEffectivePrecedence(t *testing.T) {
	p := writeConfig(t, `
server:
  port: 7000
storage:
  db_path: "/from/file"
logging:
  level: "warn"
`)
	t.Setenv("CONVODB_CONFIG", p)
	t.Setenv("CONVODB_ADDR", "0.0.0.0:7100")
	t.Setenv("CONVODB_LOG_LEVEL", "debug")
	t.Setenv("CONVODB_TOKEN_SECRET", "from-env")

	// no flags set: env overlays the file
	eff, err := LoadEffective(Flags{Addr: ":8080", DB: "./.database", Config: "./config.yaml", Set: map[string]bool{}})
	if err != nil {
		t.Fatalf("LoadEffective: %v", err)
	}
	if eff.Addr != "0.0.0.0:7100" {
		t.Fatalf("Addr = %q", eff.Addr)
	}
	if eff.DBPath != "/from/file" {
		t.Fatalf("DBPath = %q", eff.DBPath)
	}
	if eff.Config.Logging.Level != "debug" {
		t.Fatalf("log level = %q", eff.Config.Logging.Level)
	}
	if eff.Config.Identity.TokenSecret != "from-env" {
		t.Fatalf("token secret = %q", eff.Config.Identity.TokenSecret)
	}
	if eff.Source != "env" {
		t.Fatalf("Source = %q", eff.Source)
	}

	// explicit flags win over both
	eff, err = LoadEffective(Flags{Addr: ":9999", DB: "/from/flag", Config: p, Set: map[string]bool{"addr": true, "db": true, "config": true}})
	if err != nil {
		t.Fatalf("LoadEffective flags: %v", err)
	}
	if eff.Addr != ":9999" || eff.DBPath != "/from/flag" {
		t.Fatalf("flags did not win: %q %q", eff.Addr, eff.DBPath)
	}
	if eff.Source != "flags" {
		t.Fatalf("Source = %q", eff.Source)
	}
}

func TestResolveConfigPath(t *testing.T) {
	t.Setenv("CONVODB_CONFIG", "/env/config.yaml")
	if got := ResolveConfigPath("/flag/config.yaml", true); got != "/flag/config.yaml" {
		t.Fatalf("flag set: %q", got)
	}
	if got := ResolveConfigPath("./config.yaml", false); got != "/env/config.yaml" {
		t.Fatalf("env fallback: %q", got)
	}
}
