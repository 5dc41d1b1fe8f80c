// Copyright 2023 - 2025, the SelfossFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"codeberg.org/selfossfe/selfossfe/assets/views"
	"codeberg.org/selfossfe/selfossfe/i18n"
	"codeberg.org/selfossfe/selfossfe/server/request_context"
)

// ErrorPage renders an error page from the request context's error and status code.
func ErrorPage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-store")

	rc := request_context.FromRequest(r)

	pageData := views.ErrorData{
		Error:      rc.RequestError,
		StatusCode: rc.StatusCode,
		RequestID:  rc.RequestID,
	}

	if err := views.Document(i18n.Tr(r.Context(), "error_title"), views.Error(pageData)).Render(r.Context(), w); err != nil {
		log.Err(err).Msg("Failed to render error page")
	}
}

// NotFound is the catch-all handler for unknown paths.
func NotFound(w http.ResponseWriter, _ *http.Request) error {
	w.WriteHeader(http.StatusNotFound)

	return nil
}

// badRequest answers 400 with err as the page's message.
func badRequest(w http.ResponseWriter, r *http.Request, err error) error {
	rc := request_context.FromRequest(r)
	rc.StatusCode = http.StatusBadRequest
	rc.RequestError = err

	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusBadRequest)
	ErrorPage(w, r)

	return nil
}
