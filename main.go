// Copyright 2023 - 2025, the SelfossFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
SelfossFE is a server-rendered front-end for selfoss compatible RSS readers.
*/
package main

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"codeberg.org/selfossfe/selfossfe/config"
	"codeberg.org/selfossfe/selfossfe/core/audit"
	"codeberg.org/selfossfe/selfossfe/core/requests"
	"codeberg.org/selfossfe/selfossfe/core/session"
	"codeberg.org/selfossfe/selfossfe/i18n"
	"codeberg.org/selfossfe/selfossfe/server/assets"
	"codeberg.org/selfossfe/selfossfe/server/router"
	"codeberg.org/selfossfe/selfossfe/server/ui"
)

const (
	// ref: gosec: G112
	readHeaderTimeout time.Duration = 15 * time.Second
	readTimeout       time.Duration = 15 * time.Second
	// a reload waits on every source update of the backend
	writeTimeout time.Duration = 2 * time.Minute
	idleTimeout  time.Duration = 60 * time.Second

	serverShutdownDeadline time.Duration = 5 * time.Second
)

//go:embed assets/css assets/img assets/js assets/robots.txt
//go:embed all:po
var embeddedContent embed.FS

//nolint:gochecknoinits // assets.FS must be set before any package reads it
func init() {
	assets.FS = embeddedContent
}

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("SelfossFE failed")
	}
}

// run sets every subsystem up, serves until a signal arrives, then drains.
func run() error {
	audit.SetDefaultLogger()

	if err := config.Global.LoadConfig(); err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := i18n.Setup(); err != nil {
		return fmt.Errorf("failed to initialize i18n engine: %w", err)
	}

	if err := requests.Setup(); err != nil {
		return fmt.Errorf("failed to initialize backend response cache: %w", err)
	}

	if err := session.Setup(ui.InitSession); err != nil {
		return fmt.Errorf("failed to initialize sessions: %w", err)
	}

	server := &http.Server{
		Handler:           router.New(),
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}

	listener, err := chooseListener()
	if err != nil {
		return fmt.Errorf("failed to create listener: %w", err)
	}

	serverErrors := make(chan error, 1)

	go func() {
		serverErrors <- server.Serve(listener)
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
		log.Info().Msg("Shutdown signal received, draining connections")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), serverShutdownDeadline)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}
	}

	log.Info().Msg("Server exited gracefully")

	return nil
}
