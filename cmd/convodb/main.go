package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"convodb/internal/app"
	"convodb/pkg/config"
	"convodb/pkg/logger"
	"convodb/pkg/shutdown"
)

// build metadata, set via ldflags during build/release
var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

func main() {
	flags := config.ParseConfigFlags()

	eff, err := config.LoadEffective(flags)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	a, err := app.New(eff, version, commit, buildDate)
	if err != nil {
		shutdown.Abort("startup failed", err, eff.DBPath)
		return
	}
	defer func() {
		if cerr := a.Close(); cerr != nil {
			logger.Warn("store_close_error", "error", cerr)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.Run(ctx); err != nil {
		shutdown.Abort("server failed", err, eff.DBPath)
		return
	}
	logger.Info("server_stopped")
}
