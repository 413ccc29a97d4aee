package app

import (
	"fmt"
	"os"

	"convodb/pkg/config"
)

// validateConfig rejects configurations that would fail at runtime in
// ways that are hard to diagnose, before any resource is opened.
func validateConfig(eff config.EffectiveConfigResult) error {
	if eff.DBPath == "" {
		return fmt.Errorf("storage.db_path is required")
	}

	tls := eff.Config.Server.TLS
	if (tls.CertFile == "") != (tls.KeyFile == "") {
		return fmt.Errorf("server.tls requires both cert_file and key_file")
	}
	for _, f := range []string{tls.CertFile, tls.KeyFile} {
		if f == "" {
			continue
		}
		if _, err := os.Stat(f); err != nil {
			return fmt.Errorf("tls file %s: %w", f, err)
		}
	}

	if eff.Config.Identity.TokenSecret == "" {
		return fmt.Errorf("identity.token_secret is required (set CONVODB_TOKEN_SECRET or identity.token_secret)")
	}

	for _, p := range eff.Config.Identity.Providers {
		if p.Name == "" || p.Email == "" {
			return fmt.Errorf("identity.providers entries require name and email")
		}
	}

	if eff.Config.Snapshot.Keep < 0 {
		return fmt.Errorf("snapshot.keep must not be negative")
	}
	return nil
}
