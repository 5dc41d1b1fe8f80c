// Copyright 2023 - 2025, the SelfossFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Package idgen makes identifiers for requests and sessions.
package idgen

import (
	"encoding/base64"
	"time"

	"github.com/google/uuid"
)

// requestEntropyBytes of a random UUID are appended to request IDs.
const requestEntropyBytes = 3

// Make returns a short, log-friendly request ID: the wall clock as HHMMSS
// followed by 4 base64url characters of entropy.
func Make() string {
	id := uuid.New()

	return maketime(time.Now()) + base64.RawURLEncoding.EncodeToString(id[:requestEntropyBytes])
}

// Session returns a new random session identifier.
func Session() string {
	return uuid.NewString()
}

// ValidSession reports whether s could have been returned by Session.
func ValidSession(s string) bool {
	id, err := uuid.Parse(s)

	return err == nil && id.Version() == 4
}

func maketime(t time.Time) string {
	return t.Format("150405")
}
