// Copyright 2023 - 2025, the SelfossFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"codeberg.org/selfossfe/selfossfe/assets/views"
	"codeberg.org/selfossfe/selfossfe/core/state"
)

// ReloadAll makes the backend fetch every source. The navigation is
// collapsed and the reloading indicator cleared whatever the outcome.
func ReloadAll(w http.ResponseWriter, r *http.Request) error {
	s, err := sessionFrom(r)
	if err != nil {
		return err
	}

	s.Store.Dispatch(state.SetReloading{Reloading: true})

	err = Backend.Update(r.Context(), s.BackendCookies())

	s.Store.Dispatch(
		state.SetNavExpanded{Expanded: false},
		state.SetReloading{Reloading: false},
	)

	if err := handleBackendError(r, s, err); err != nil {
		log.Ctx(r.Context()).Warn().Err(err).Msg("Reloading sources failed")

		var unauthErr *UnauthorizedError
		if errors.As(err, &unauthErr) {
			return err
		}

		s.Store.Dispatch(state.ShowError(tr(r, "error_reload", err.Error())))
	}

	redirectBack(w, r)

	return nil
}

// Logout ends the backend session. It only acts when logged in and online.
func Logout(w http.ResponseWriter, r *http.Request) error {
	s, err := sessionFrom(r)
	if err != nil {
		return err
	}

	if snapshot := s.Store.State(); !snapshot.LoggedIn || snapshot.Offline {
		redirectBack(w, r)

		return nil
	}

	cookies := s.BackendCookies()

	s.Store.Dispatch(state.Reset{})

	if err := Backend.Logout(r.Context(), cookies); err != nil {
		log.Ctx(r.Context()).Warn().Err(err).Msg("Backend logout failed")
		s.Store.Dispatch(state.ShowError(tr(r, "error_logout", err.Error())))
	}

	s.ClearBackendCookies()
	s.Store.Dispatch(state.SetNavExpanded{Expanded: false})

	redirectBack(w, r)

	return nil
}

// ToggleNav expands or collapses the navigation on small screens.
func ToggleNav(w http.ResponseWriter, r *http.Request) error {
	s, err := sessionFrom(r)
	if err != nil {
		return err
	}

	s.Store.Dispatch(state.SetNavExpanded{Expanded: !s.Store.State().NavExpanded})

	redirectBack(w, r)

	return nil
}

// ManageSources collapses the navigation and lists the sources.
func ManageSources(w http.ResponseWriter, r *http.Request) error {
	s, err := sessionFrom(r)
	if err != nil {
		return err
	}

	s.Store.Dispatch(state.SetNavExpanded{Expanded: false})

	sources, err := Backend.Sources(r.Context(), s.BackendCookies(), cacheHeaders(r))
	if err == nil {
		s.Store.Dispatch(state.SetOffline{Offline: false}, state.SetSources{Sources: sources})
	} else if err := handleBackendError(r, s, err); err != nil {
		return err
	}

	return renderPage(w, r, s, tr(r, "sources_title"), views.Sources(views.SourcesData{State: s.Store.State()}))
}

// DismissMessage hides the global message.
func DismissMessage(w http.ResponseWriter, r *http.Request) error {
	s, err := sessionFrom(r)
	if err != nil {
		return err
	}

	s.Store.Dispatch(state.DismissMessage{})

	redirectBack(w, r)

	return nil
}
