package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"llamad/internal/config"
	"llamad/internal/httpapi"
	"llamad/internal/supervisor"
)

const defaultAddr = ":9090"

// runServe resolves the config, starts the supervised server, and serves
// the control-plane API until SIGINT/SIGTERM. The supervisor is closed on
// every exit path so the subprocess cannot outlive the daemon.
func runServe(opts *rootOptions, addrOverride string) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	level := cfg.LogLevel
	if opts.logLevel != "" {
		level = opts.logLevel
	}
	logger := newLogger(level, cfg.LogFile)

	section := opts.section
	if len(section) == 0 {
		section = []string{config.DefaultSection}
	}
	desc, err := config.Resolve(cfg.Tree, section...)
	if err != nil {
		return err
	}
	if desc == nil {
		return fmt.Errorf("no llama server configured under %v in %s", section, opts.configPath)
	}

	sup := supervisor.New(*desc, supervisor.WithLogger(logger))
	defer sup.Close()
	if err := sup.Start(); err != nil {
		return err
	}

	addr := cfg.Addr
	if addrOverride != "" {
		addr = addrOverride
	}
	if addr == "" {
		addr = defaultAddr
	}
	httpapi.SetLogger(logger)
	httpapi.SetCORSOptions(cfg.CORSEnabled, cfg.CORSOrigins, nil, nil)
	srv := &http.Server{Addr: addr, Handler: httpapi.NewMux(sup)}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", addr).Str("completion_url", desc.CompletionURL()).
			Msg("control plane listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Graceful shutdown (Ctrl+C / SIGTERM)
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		logger.Info().Str("signal", sig.String()).Msg("shutting down")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown error")
	}
	return nil
}
