package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/joho/godotenv"

	"convodb/internal/snapshot"
	"convodb/pkg/config"
	"convodb/pkg/directory"
	"convodb/pkg/identity"
	"convodb/pkg/logger"
	"convodb/pkg/migrate"
	"convodb/pkg/sensor"
	"convodb/pkg/state"
	"convodb/pkg/store"
	"convodb/pkg/telemetry"
	"convodb/pkg/validation"
)

// App encapsulates the server components and lifecycle.
type App struct {
	eff       config.EffectiveConfigResult
	version   string
	commit    string
	buildDate string

	idn *identity.Service
	dir *directory.Service

	srv *http.Server
}

// New initializes resources that do not require a running context
// (logger, state dirs, store, services). It does not start the
// schedulers or the HTTP server; call Run to start those and block
// until shutdown.
func New(eff config.EffectiveConfigResult, version, commit, buildDate string) (*App, error) {
	_ = godotenv.Load(".env")

	if err := validateConfig(eff); err != nil {
		return nil, err
	}

	logger.InitWithLevel(eff.Config.Logging.Level)

	if err := state.EnsureStateDirs(eff.DBPath); err != nil {
		return nil, fmt.Errorf("state layout: %w", err)
	}
	if err := logger.AttachAuditFileSink(state.PathsVar.Audit); err != nil {
		logger.Warn("audit_sink_unavailable", "error", err)
	}
	telemetry.Init(state.PathsVar.State)

	config.SetRuntime(&config.RuntimeConfig{
		TokenSecret: eff.Config.Identity.TokenSecret,
		TokenTTL:    eff.Config.Identity.TokenTTL.Std(),
	})
	validation.SetRules(validation.Rules{
		MaxTextBytes:  eff.Config.Validation.MaxTextBytes,
		MaxImageBytes: eff.Config.Validation.MaxImageBytes,
	})

	if err := store.Open(state.PathsVar.Store); err != nil {
		return nil, fmt.Errorf("failed to open pebble at %s: %w", state.PathsVar.Store, err)
	}

	idn := identity.NewService(eff.Config.Identity.MinPasswordEntropy)
	idn.RegisterConfiguredProviders(eff.Config.Identity.Providers)

	a := &App{
		eff:       eff,
		version:   version,
		commit:    commit,
		buildDate: buildDate,
		idn:       idn,
		dir:       directory.NewService(nil),
	}
	return a, nil
}

// Run migrates legacy data, starts the schedulers and the HTTP server,
// and blocks until ctx is canceled or a fatal server error occurs.
func (a *App) Run(ctx context.Context) error {
	if err := migrate.Sync(ctx); err != nil {
		return fmt.Errorf("migration: %w", err)
	}

	snapCancel, err := snapshot.Start(ctx, a.eff)
	if err != nil {
		return err
	}
	defer snapCancel()

	sensorCancel := sensor.Start(ctx, a.eff.DBPath, a.eff.Config.Sensor.Interval.Std())
	defer sensorCancel()

	a.printBanner()

	errCh := a.startHTTP(ctx)

	select {
	case <-ctx.Done():
		a.shutdownHTTP()
		return nil
	case err := <-errCh:
		return err
	}
}

// Close releases resources owned by the app.
func (a *App) Close() error {
	return store.Close()
}
