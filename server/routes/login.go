// Copyright 2023 - 2025, the SelfossFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog/log"

	"codeberg.org/selfossfe/selfossfe/assets/views"
	"codeberg.org/selfossfe/selfossfe/core/backend"
	"codeberg.org/selfossfe/selfossfe/core/state"
	"codeberg.org/selfossfe/selfossfe/server/utils"
)

// LoginPage renders the sign-in form.
func LoginPage(w http.ResponseWriter, r *http.Request) error {
	s, err := sessionFrom(r)
	if err != nil {
		return err
	}

	pageData := views.LoginData{
		ReturnPath: utils.SanitizeReturnPath(utils.GetQueryParam(r, "return")),
		Username:   utils.GetQueryParam(r, "username"),
		Error:      s.Store.State().LoginFormError,
	}

	return renderPage(w, r, s, tr(r, "login_title"), views.Login(pageData))
}

// Login signs in at the backend and keeps its session cookies.
//
// Failed attempts come back to the form with an error message.
func Login(w http.ResponseWriter, r *http.Request) error {
	s, err := sessionFrom(r)
	if err != nil {
		return err
	}

	username := strings.TrimSpace(utils.GetFormValue(r, "username"))
	password := utils.GetFormValue(r, "password")
	returnPath := utils.SanitizeReturnPath(utils.GetFormValue(r, "return"))

	cookies, err := Backend.Login(r.Context(), s.BackendCookies(), username, password)

	switch {
	case err == nil:
		s.UpdateBackendCookies(cookies)
		s.Store.Dispatch(
			state.ShowLogin{Error: ""},
			state.SetOffline{Offline: false},
			state.SetLoggedIn{LoggedIn: true},
		)

		log.Ctx(r.Context()).Info().Str("session", s.ID).Msg("Logged in")

		if returnPath == "" {
			returnPath = "/"
		}

		http.Redirect(w, r, returnPath, http.StatusSeeOther)

		return nil

	case errors.Is(err, backend.ErrInvalidCredentials), errors.Is(err, backend.ErrUnauthorized):
		log.Ctx(r.Context()).Info().Err(err).Msg("Login refused")
		s.Store.Dispatch(state.ShowLogin{Error: tr(r, "login_invalid_credentials")})

	case errors.Is(err, backend.ErrOffline):
		if err := handleBackendError(r, s, err); err != nil {
			return err
		}

		s.Store.Dispatch(state.ShowLogin{Error: tr(r, "error_offline_action")})

	default:
		return err
	}

	q := url.Values{"username": {username}}
	if returnPath != "" {
		q.Set("return", returnPath)
	}

	http.Redirect(w, r, "/sign/in?"+q.Encode(), http.StatusSeeOther)

	return nil
}
