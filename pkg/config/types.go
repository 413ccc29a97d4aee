package config

import (
	"fmt"
	"strconv"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the main configuration struct.
type Config struct {
	Server struct {
		Address string `yaml:"address"`
		Port    int    `yaml:"port"`
		TLS     struct {
			CertFile string `yaml:"cert_file"`
			KeyFile  string `yaml:"key_file"`
		} `yaml:"tls"`
	} `yaml:"server"`
	Storage struct {
		DBPath string `yaml:"db_path"`
	} `yaml:"storage"`
	Logging struct {
		Level string `yaml:"level"`
	} `yaml:"logging"`
	Security struct {
		CORS struct {
			AllowedOrigins []string `yaml:"allowed_origins"`
		} `yaml:"cors"`
		RateLimit struct {
			RPS   float64 `yaml:"rps"`
			Burst int     `yaml:"burst"`
		} `yaml:"rate_limit"`
		IPWhitelist []string `yaml:"ip_whitelist"`
	} `yaml:"security"`
	Identity struct {
		TokenSecret string   `yaml:"token_secret"`
		TokenTTL    Duration `yaml:"token_ttl"`
		// MinPasswordEntropy is the minimum acceptable entropy in bits
		// for new passwords; zero selects the built-in default.
		MinPasswordEntropy float64          `yaml:"min_password_entropy"`
		Providers          []ProviderConfig `yaml:"providers"`
	} `yaml:"identity"`
	Snapshot struct {
		Enabled bool   `yaml:"enabled"`
		Cron    string `yaml:"cron"`
		// Keep bounds how many export files are retained.
		Keep int `yaml:"keep"`
	} `yaml:"snapshot"`
	Validation struct {
		MaxTextBytes  int `yaml:"max_text_bytes"`
		MaxImageBytes int `yaml:"max_image_bytes"`
	} `yaml:"validation"`
	Sensor struct {
		Interval Duration `yaml:"interval"`
	} `yaml:"sensor"`
}

// ProviderConfig declares a static federated provider mapping used by
// the bundled demo providers.
type ProviderConfig struct {
	Name    string `yaml:"name"`
	Email   string `yaml:"email"`
	Subject string `yaml:"subject"`
}

// Addr returns the server listen address in host:port form.
func (c *Config) Addr() string {
	host := c.Server.Address
	port := c.Server.Port
	if port == 0 {
		port = 8080
	}
	return host + ":" + strconv.Itoa(port)
}

// Duration is a yaml-friendly time.Duration accepting Go duration
// strings ("30s", "5m") or bare integers interpreted as seconds.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	if raw == "" {
		*d = 0
		return nil
	}
	if n, err := strconv.Atoi(raw); err == nil {
		*d = Duration(time.Duration(n) * time.Second)
		return nil
	}
	dur, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(dur)
	return nil
}

func (d Duration) Std() time.Duration { return time.Duration(d) }

// RuntimeConfig holds derived runtime values other packages may query
// after startup (populated by the composition root).
type RuntimeConfig struct {
	TokenSecret string
	TokenTTL    time.Duration
}

var (
	runtimeMu  sync.RWMutex
	runtimeCfg *RuntimeConfig
)

// SetRuntime sets the canonical runtime config used by the running server.
func SetRuntime(rc *RuntimeConfig) {
	runtimeMu.Lock()
	defer runtimeMu.Unlock()
	runtimeCfg = rc
}

// GetTokenSecret returns the configured session token secret.
func GetTokenSecret() string {
	runtimeMu.RLock()
	defer runtimeMu.RUnlock()
	if runtimeCfg == nil {
		return ""
	}
	return runtimeCfg.TokenSecret
}

// GetTokenTTL returns the configured session token lifetime.
func GetTokenTTL() time.Duration {
	runtimeMu.RLock()
	defer runtimeMu.RUnlock()
	if runtimeCfg == nil || runtimeCfg.TokenTTL == 0 {
		return 24 * time.Hour
	}
	return runtimeCfg.TokenTTL
}
