package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// EffectiveConfigResult is the merged view of flags, environment and
// config file that the rest of the program consumes.
type EffectiveConfigResult struct {
	Config *Config
	Addr   string
	DBPath string
	Source string // "flags", "config", or "env"
}

// Load reads and parses the YAML config file at path.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return &cfg, nil
}

// ResolveConfigPath returns the config path to use: an explicit flag
// wins over CONVODB_CONFIG, which wins over the flag default.
func ResolveConfigPath(flagPath string, flagSet bool) string {
	if flagSet {
		return flagPath
	}
	if v := os.Getenv("CONVODB_CONFIG"); v != "" {
		return v
	}
	return flagPath
}

// LoadEffective merges config file, environment overrides and flags
// (flags win over env, env wins over file) into the effective runtime
// configuration.
func LoadEffective(flags Flags) (EffectiveConfigResult, error) {
	cfg, fileFound, err := ParseConfigFile(flags)
	if err != nil {
		return EffectiveConfigResult{}, err
	}
	envCfg, envUsed := ParseConfigEnvs()
	if envUsed {
		mergeConfig(cfg, envCfg)
	}

	source := "flags"
	switch {
	case flags.Set["addr"] || flags.Set["db"]:
		source = "flags"
	case envUsed:
		source = "env"
	case fileFound:
		source = "config"
	}

	addr := cfg.Addr()
	if flags.Set["addr"] {
		addr = flags.Addr
	}
	dbPath := cfg.Storage.DBPath
	if dbPath == "" || flags.Set["db"] {
		dbPath = flags.DB
	}

	return EffectiveConfigResult{Config: cfg, Addr: addr, DBPath: dbPath, Source: source}, nil
}
