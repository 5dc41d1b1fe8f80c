// Copyright 2023 - 2025, the SelfossFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"os/user"
	"strconv"

	"github.com/rs/zerolog/log"

	"codeberg.org/selfossfe/selfossfe/config"
)

var (
	errChmodSocket = errors.New("failed to change unix socket permissions")
	errChownSocket = errors.New("failed to change unix socket ownership")
)

// chooseListener listens on basic.unixSocket when set, else on host:port.
func chooseListener() (net.Listener, error) {
	cfg := config.Global.Basic

	if cfg.UnixSocket != "" {
		return listenUnix(cfg.UnixSocket)
	}

	addr := net.JoinHostPort(cfg.Host, cfg.Port)

	listener, err := (&net.ListenConfig{}).Listen(context.Background(), "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to start TCP listener on %v: %w", addr, err)
	}

	bound := listener.Addr().String()

	_, port, err := net.SplitHostPort(bound)
	if err != nil {
		_ = listener.Close()

		return nil, fmt.Errorf("failed to parse listener address %q: %w", bound, err)
	}

	log.Info().
		Str("address", bound).
		Str("url", "http://selfossfe.localhost:"+port+"/").
		Msg("Listening on address")

	return listener, nil
}

func listenUnix(path string) (net.Listener, error) {
	// a socket left by an unclean exit blocks the bind
	if info, err := os.Lstat(path); err == nil && info.Mode().Type() == fs.ModeSocket {
		if err := os.Remove(path); err != nil {
			return nil, fmt.Errorf("failed to remove stale socket %v: %w", path, err)
		}
	}

	listener, err := (&net.ListenConfig{}).Listen(context.Background(), "unix", path)
	if err != nil {
		return nil, fmt.Errorf("failed to start Unix socket listener on %v: %w", path, err)
	}

	if err := setupSocket(path); err != nil {
		_ = listener.Close()

		return nil, err
	}

	log.Info().Str("address", path).Msg("Listening on Unix domain socket")

	return listener, nil
}

// setupSocket applies the configured ownership and permissions to the socket.
func setupSocket(path string) error {
	cfg := config.Global.Basic

	uid, err := lookupID(cfg.UnixSocketUser, func(name string) (string, error) {
		u, err := user.Lookup(name)
		if err != nil {
			return "", err
		}

		return u.Uid, nil
	})
	if err != nil {
		return fmt.Errorf("%w: user: %w", errChownSocket, err)
	}

	gid, err := lookupID(cfg.UnixSocketGroup, func(name string) (string, error) {
		g, err := user.LookupGroup(name)
		if err != nil {
			return "", err
		}

		return g.Gid, nil
	})
	if err != nil {
		return fmt.Errorf("%w: group: %w", errChownSocket, err)
	}

	if uid != -1 || gid != -1 {
		if err := os.Chown(path, uid, gid); err != nil {
			return fmt.Errorf("%w: %w", errChownSocket, err)
		}
	}

	if err := os.Chmod(path, cfg.UnixSocketPermissions); err != nil {
		return fmt.Errorf("%w: %w", errChmodSocket, err)
	}

	return nil
}

// lookupID resolves a numeric id or a name. An empty value yields -1,
// which os.Chown leaves unchanged.
func lookupID(value string, lookup func(name string) (string, error)) (int, error) {
	if value == "" {
		return -1, nil
	}

	if id, err := strconv.Atoi(value); err == nil {
		return id, nil
	}

	raw, err := lookup(value)
	if err != nil {
		return -1, fmt.Errorf("failed to look up %q: %w", value, err)
	}

	id, err := strconv.Atoi(raw)
	if err != nil {
		return -1, fmt.Errorf("failed to parse id of %q: %w", value, err)
	}

	return id, nil
}
