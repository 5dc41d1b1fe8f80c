// Copyright 2023 - 2025, the SelfossFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package middleware

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"codeberg.org/selfossfe/selfossfe/core/session"
	"codeberg.org/selfossfe/selfossfe/core/state"
	"codeberg.org/selfossfe/selfossfe/i18n"
)

// sessionlessPrefixes are static paths that never need a session.
var sessionlessPrefixes = []string{
	"/css/",
	"/js/",
	"/img/",
	"/robots.txt",
	"/debug/",
}

// WithSession attaches the browser's session to the request context,
// creating one on first visit.
func WithSession(w http.ResponseWriter, r *http.Request, next http.Handler) {
	if session.Default == nil || needsNoSession(r.URL.Path) {
		next.ServeHTTP(w, r)

		return
	}

	s := session.Default.LoadOrCreate(w, r)

	// Observers translate messages into the language of the latest request.
	s.Store.Dispatch(state.SetLanguage{Language: i18n.TagFrom(r.Context()).String()})

	ctx := log.Ctx(r.Context()).With().Str("session", s.ID).Logger().WithContext(r.Context())

	next.ServeHTTP(w, r.WithContext(session.WithSession(ctx, s)))
}

func needsNoSession(path string) bool {
	for _, prefix := range sessionlessPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}

	return false
}
