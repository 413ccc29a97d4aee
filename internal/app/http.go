package app

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"convodb/pkg/api"
	"convodb/pkg/banner"
	"convodb/pkg/logger"
	"convodb/pkg/security"
	"convodb/pkg/store"
	"convodb/pkg/telemetry"
	"convodb/pkg/utils"
)

func (a *App) printBanner() {
	banner.PrintWithEff(a.eff, a.version)
}

func (a *App) buildHandler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/", api.Handler(a.idn, a.dir))
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/docs/", httpSwagger.WrapHandler)
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if !store.Ready() {
			utils.JSONError(w, http.StatusServiceUnavailable, "store not ready")
			return
		}
		utils.JSONWrite(w, http.StatusOK, map[string]string{
			"status":  "ok",
			"version": a.version,
		})
	})

	sec := security.SecConfig{
		AllowedOrigins: a.eff.Config.Security.CORS.AllowedOrigins,
		RPS:            a.eff.Config.Security.RateLimit.RPS,
		Burst:          a.eff.Config.Security.RateLimit.Burst,
		IPWhitelist:    a.eff.Config.Security.IPWhitelist,
	}
	return security.Middleware(sec)(telemetry.Middleware(mux))
}

func (a *App) startHTTP(ctx context.Context) <-chan error {
	a.srv = &http.Server{
		Addr:              a.eff.Addr,
		Handler:           a.buildHandler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		tls := a.eff.Config.Server.TLS
		var err error
		if tls.CertFile != "" && tls.KeyFile != "" {
			logger.Info("https_listen", "addr", a.eff.Addr)
			err = a.srv.ListenAndServeTLS(tls.CertFile, tls.KeyFile)
		} else {
			logger.Info("http_listen", "addr", a.eff.Addr)
			err = a.srv.ListenAndServe()
		}
		if err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()
	return errCh
}

func (a *App) shutdownHTTP() {
	if a.srv == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.srv.Shutdown(ctx); err != nil {
		logger.Warn("http_shutdown_error", "error", err)
	}
}
