// Copyright 2023 - 2025, the SelfossFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Package audit records HTTP spans, both the ones served to users and the
// ones sent to the feed backend.
package audit

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

//nolint:gochecknoinits
func init() {
	SetDefaultLogger()
}

// SetDefaultLogger installs a readable console logger used until the
// configuration has been loaded.
func SetDefaultLogger() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.DateTime})
}
