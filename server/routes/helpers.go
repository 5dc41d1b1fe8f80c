// Copyright 2023 - 2025, the SelfossFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"errors"
	"net/http"

	"github.com/a-h/templ"
	"github.com/rs/zerolog/log"

	"codeberg.org/selfossfe/selfossfe/assets/views"
	"codeberg.org/selfossfe/selfossfe/core/backend"
	"codeberg.org/selfossfe/selfossfe/core/session"
	"codeberg.org/selfossfe/selfossfe/core/state"
	"codeberg.org/selfossfe/selfossfe/i18n"
	"codeberg.org/selfossfe/selfossfe/server/request_context"
	"codeberg.org/selfossfe/selfossfe/server/utils"
)

// Backend is the selfoss API client used by the handlers.
var Backend = backend.Default

var errNoSession = errors.New("request has no session")

// sessionFrom returns the session attached by the session middleware.
func sessionFrom(r *http.Request) (*session.Session, error) {
	s := session.FromContext(r.Context())
	if s == nil {
		return nil, errNoSession
	}

	return s, nil
}

// handleBackendError turns backend failures into state changes.
//
// Offline failures switch the store to offline mode and are considered handled
// (nil is returned); a refused login becomes an [UnauthorizedError].
func handleBackendError(r *http.Request, s *session.Session, err error) error {
	switch {
	case err == nil:
		return nil

	case errors.Is(err, backend.ErrOffline):
		log.Ctx(r.Context()).Warn().Err(err).Msg("Backend unreachable, switching to offline mode")

		s.Store.Dispatch(
			state.SetOffline{Offline: true},
			state.RefreshOfflineCounts{Counts: state.OfflineCounts(s.Store.State().Entries)},
		)

		return nil

	case errors.Is(err, backend.ErrUnauthorized):
		s.Store.Dispatch(state.SetLoggedIn{LoggedIn: false})
		s.ClearBackendCookies()

		return NewUnauthorizedError("", request_context.FromRequest(r).CommonData.CurrentPath)

	default:
		return err
	}
}

// cacheHeaders forwards the browser's Cache-Control so that a forced reload
// bypasses the response cache.
func cacheHeaders(r *http.Request) http.Header {
	h := http.Header{}

	if cc := r.Header.Get("Cache-Control"); cc != "" {
		h.Set("Cache-Control", cc)
	}

	if pragma := r.Header.Get("Pragma"); pragma == "no-cache" {
		h.Set("Cache-Control", "no-cache")
	}

	return h
}

// renderPage renders body in the application shell from the session's current state.
func renderPage(w http.ResponseWriter, r *http.Request, s *session.Session, title string, body templ.Component) error {
	w.Header().Set("Cache-Control", "no-store")

	return views.Page(views.PageData{Title: title, State: s.Store.State()}, body).Render(r.Context(), w)
}

// redirectBack sends the browser to the form's return path.
func redirectBack(w http.ResponseWriter, r *http.Request) {
	utils.RedirectToWhenceYouCame(w, r, utils.GetFormValue(r, "return"))
}

// tr translates key in the request's language.
func tr(r *http.Request, key i18n.MsgKey, values ...any) string {
	return i18n.Tr(r.Context(), string(key), values...)
}
