// Copyright 2023 - 2025, the SelfossFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"

	"codeberg.org/selfossfe/selfossfe/assets/views"
	"codeberg.org/selfossfe/selfossfe/core/session"
	"codeberg.org/selfossfe/selfossfe/core/state"
	"codeberg.org/selfossfe/selfossfe/server/request_context"
	"codeberg.org/selfossfe/selfossfe/server/utils"
)

// Sync pulls the changes since the session's last sync into the store and
// answers with out-of-band fragments for the navigation and the message bar.
//
// A backend version change since the previous sync offers a reload.
func Sync(w http.ResponseWriter, r *http.Request) error {
	s, err := sessionFrom(r)
	if err != nil {
		return err
	}

	w.Header().Set("Cache-Control", "no-store")

	since := s.LastSync()
	started := time.Now()

	synced, err := Backend.Sync(r.Context(), s.BackendCookies(), since, 0)
	if err != nil {
		if err := handleBackendError(r, s, err); err != nil {
			return err
		}

		return renderSync(w, r, s)
	}

	actions := []state.Action{
		state.SetOffline{Offline: false},
		state.RefreshEntryStatuses{Statuses: synced.ItemUpdates},
	}

	if synced.Stats != nil {
		actions = append(actions, state.SetCounts{
			Unread:  synced.Stats.Unread,
			Starred: synced.Stats.Starred,
			All:     synced.Stats.Total,
		})
	}

	if synced.Tags != nil {
		actions = append(actions, state.SetTags{Tags: synced.Tags})
	}

	if synced.Sources != nil {
		actions = append(actions, state.SetSources{Sources: synced.Sources})
	}

	s.Store.Dispatch(actions...)

	if synced.LastUpdate.IsZero() {
		s.SetLastSync(started)
	} else {
		s.SetLastSync(synced.LastUpdate)
	}

	if about, err := Backend.About(r.Context()); err != nil {
		log.Ctx(r.Context()).Debug().Err(err).Msg("Could not read backend version")
	} else if s.ObserveBackendVersion(about.Version) {
		notifyNewVersion(r, s)
	}

	return renderSync(w, r, s)
}

// notifyNewVersion offers to reload the page after the backend was upgraded.
func notifyNewVersion(r *http.Request, s *session.Session) {
	s.Store.Dispatch(state.ShowMessage{Message: state.GlobalMessage{
		Message: tr(r, "app_update"),
		Actions: []state.MessageAction{{
			Label: tr(r, "app_reload"),
			Href:  currentPagePath(r),
		}},
	}})
}

func renderSync(w http.ResponseWriter, r *http.Request, s *session.Session) error {
	return views.Sync(s.Store.State(), currentPagePath(r)).Render(r.Context(), w)
}

// currentPagePath is the page that issued a background request, as reported by
// htmx, or the request's own path.
func currentPagePath(r *http.Request) string {
	if current := r.Header.Get("HX-Current-URL"); current != "" {
		if u, err := url.Parse(current); err == nil && u.Path != "" {
			if p := utils.SanitizeReturnPath(u.RequestURI()); p != "" {
				return p
			}
		}
	}

	return request_context.FromRequest(r).CommonData.CurrentPath
}
