// Copyright 2023 - 2025, the SelfossFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"codeberg.org/selfossfe/selfossfe/core/audit"
)

const (
	responseDirPermissions = 0o700
	logFilePermissions     = 0o640
)

var logLevels = map[string]zerolog.Level{
	"trace": zerolog.TraceLevel,
	"debug": zerolog.DebugLevel,
	"info":  zerolog.InfoLevel,
	"warn":  zerolog.WarnLevel,
	"error": zerolog.ErrorLevel,
}

// setupAudit points the global logger at the configured outputs.
func (cfg *ServerConfig) setupAudit() {
	switch {
	case cfg.Development.InDevelopment:
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	default:
		if level, ok := logLevels[cfg.Log.Level]; ok {
			zerolog.SetGlobalLevel(level)
		}
	}

	writers := make([]io.Writer, 0, len(cfg.Log.Outputs))

	for _, output := range cfg.Log.Outputs {
		switch output {
		case "/dev/stdout":
			writers = append(writers, ConsoleWriter(os.Stdout))
		case "/dev/stderr":
			writers = append(writers, ConsoleWriter(os.Stderr))
		default:
			file, err := os.OpenFile(output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermissions) // #nosec:G302,G304
			if err != nil {
				fmt.Fprintf(os.Stderr, "Failed to open log file %s: %v\n", output, err)

				continue
			}

			if cfg.Log.Format == "json" {
				writers = append(writers, file)
			} else {
				writers = append(writers, ConsoleWriter(file))
			}
		}
	}

	if len(writers) == 0 {
		writers = append(writers, ConsoleWriter(os.Stderr))
	}

	log.Logger = log.Output(zerolog.MultiLevelWriter(writers...))

	audit.SaveResponses = cfg.Development.SaveResponses
	audit.ResponseDirectory = cfg.Development.ResponseSaveLocation

	if audit.SaveResponses {
		if err := os.MkdirAll(audit.ResponseDirectory, responseDirPermissions); err != nil {
			log.Error().
				Err(err).
				Str("path", audit.ResponseDirectory).
				Msg("Failed to create response directory, disabling response saving")

			audit.SaveResponses = false
		}
	}
}

// ConsoleWriter returns a human-readable zerolog writer, colored only on terminals.
func ConsoleWriter(f *os.File) io.Writer {
	noColor := !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd())

	w := zerolog.ConsoleWriter{Out: f, NoColor: noColor, TimeFormat: time.DateTime}

	if !noColor {
		w.FormatPrepare = func(m map[string]any) error {
			// one-line request logs
			if sys, ok := m["sys"]; ok && sys == "http" {
				m["message"] = fmt.Sprintf("[%s] %v %-6s %s", m["destination"], m["status_code"], m["method"], m["url"])

				for _, k := range []string{"sys", "method", "status_code", "url", "destination", "request_id"} {
					delete(m, k)
				}
			}

			return nil
		}
	}

	return w
}
