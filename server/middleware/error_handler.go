// Copyright 2023 - 2025, the SelfossFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package middleware

import (
	"errors"
	"maps"
	"net/http"
	"net/http/httptest"

	"github.com/rs/zerolog/log"

	"codeberg.org/selfossfe/selfossfe/assets/views"
	"codeberg.org/selfossfe/selfossfe/config"
	"codeberg.org/selfossfe/selfossfe/core/audit"
	"codeberg.org/selfossfe/selfossfe/i18n"
	"codeberg.org/selfossfe/selfossfe/server/request_context"
	"codeberg.org/selfossfe/selfossfe/server/routes"
)

// CatchError turns a handler that returns an error into an http.HandlerFunc.
//
// The handler writes into a buffer, and the result decides what the browser
// gets:
//   - A *routes.UnauthorizedError means selfoss refused the session's
//     cookies. The buffer is dropped and a 401 page links to the login form,
//     which returns to the failed page after signing in.
//   - A 404, or an error the handler did not answer with an error status,
//     drops the buffer in favour of the error page (404 or 500).
//   - Anything else is sent as written. That includes errors the handler
//     already answered itself, like the rate limited login form.
//
// Fragment requests from sync.js get the status without a page, and an
// HX-Redirect to the login form when unauthorized. Replaced responses are
// never cached.
func CatchError(handler func(w http.ResponseWriter, r *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rc := request_context.FromRequest(r)

		span := audit.Span{
			Destination: audit.ToUser,
			RequestID:   rc.RequestID,
			Method:      r.Method,
			URL:         r.URL.String(),
		}

		_ = span.Begin(r.Context())
		defer span.End()

		buffered := httptest.NewRecorder()
		rc.RequestError = handler(buffered, r)

		var unauthorized *routes.UnauthorizedError

		switch {
		case errors.As(rc.RequestError, &unauthorized):
			rc.StatusCode = http.StatusUnauthorized
			replace(w, r, func() {
				if rc.CommonData.IsHtmx {
					w.Header().Set("HX-Redirect", unauthorized.LoginURL())
				}
			}, func() error {
				page := views.Unauthorized(views.UnauthorizedData{
					NoAuthReturnPath: unauthorized.NoAuthReturnPath,
					LoginReturnPath:  unauthorized.LoginReturnPath,
				})

				return views.Document(i18n.Tr(r.Context(), "error_unauthorized"), page).Render(r.Context(), w)
			})

		case buffered.Code == http.StatusNotFound:
			rc.StatusCode = http.StatusNotFound
			replace(w, r, nil, func() error { routes.ErrorPage(w, r); return nil })

		case rc.RequestError != nil && buffered.Code < http.StatusBadRequest:
			rc.StatusCode = http.StatusInternalServerError
			replace(w, r, nil, func() error { routes.ErrorPage(w, r); return nil })

		default:
			rc.StatusCode = flush(w, buffered)
		}

		span.StatusCode = rc.StatusCode
		span.Error = rc.RequestError

		if !config.Global.ShouldSkipServerLogging(r.URL.Path) {
			span.Log()
		}
	}
}

// replace discards the handler's output and answers with the status already
// stored in the request context. headers runs before the status is written;
// render only runs for full page requests.
func replace(w http.ResponseWriter, r *http.Request, headers func(), render func() error) {
	rc := request_context.FromRequest(r)

	w.Header().Set("Cache-Control", "no-store")

	if headers != nil {
		headers()
	}

	w.WriteHeader(rc.StatusCode)

	if rc.CommonData.IsHtmx {
		return
	}

	if err := render(); err != nil {
		log.Err(err).AnErr("request_error", rc.RequestError).Int("status", rc.StatusCode).
			Msg("Failed to render the replacement page")
	}
}

// flush copies the buffered response to w and returns its status.
func flush(w http.ResponseWriter, buffered *httptest.ResponseRecorder) int {
	if buffered.Code == 0 {
		buffered.Code = http.StatusOK
	}

	maps.Copy(w.Header(), buffered.Header())
	w.WriteHeader(buffered.Code)

	if _, err := buffered.Body.WriteTo(w); err != nil {
		log.Err(err).Msg("Failed to write response body")
	}

	return buffered.Code
}
