// Copyright 2023 - 2025, the SelfossFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"codeberg.org/selfossfe/selfossfe/core/session"
	"codeberg.org/selfossfe/selfossfe/core/state"
	"codeberg.org/selfossfe/selfossfe/server/utils"
)

var (
	errUnknownAction = errors.New("unknown entry action")
	errUnknownEntry  = errors.New("unknown entry")
)

// EntryAction applies one of read, unread, star, unstar, toggle or select
// to the entry named in the path and sends the browser back.
func EntryAction(w http.ResponseWriter, r *http.Request) error {
	s, err := sessionFrom(r)
	if err != nil {
		return err
	}

	id, err := utils.GetPathInt(r, "id")
	if err != nil || id == 0 {
		return badRequest(w, r, fmt.Errorf("%w: %q", errUnknownEntry, r.PathValue("id")))
	}

	action := r.PathValue("action")

	switch action {
	case "toggle":
		s.Store.Dispatch(state.EntryToggleExpanded{ID: id}, state.EntrySelect{ID: id})
	case "select":
		s.Store.Dispatch(state.EntrySelect{ID: id})
	case "read", "unread":
		if err := markEntries(r, s, action == "unread", []int{id}); err != nil {
			return err
		}
	case "star", "unstar":
		if err := starEntry(r, s, id, action == "star"); err != nil {
			return err
		}
	default:
		return badRequest(w, r, fmt.Errorf("%w: %q", errUnknownAction, action))
	}

	redirectBack(w, r)

	return nil
}

// MarkAllRead marks the posted entry ids as read.
func MarkAllRead(w http.ResponseWriter, r *http.Request) error {
	s, err := sessionFrom(r)
	if err != nil {
		return err
	}

	if err := r.ParseForm(); err != nil {
		return badRequest(w, r, err)
	}

	ids := make([]int, 0, len(r.Form["ids"]))

	for _, raw := range r.Form["ids"] {
		id, err := strconv.Atoi(raw)
		if err != nil || id <= 0 {
			return badRequest(w, r, fmt.Errorf("%w: %q", errUnknownEntry, raw))
		}

		ids = append(ids, id)
	}

	if err := markEntries(r, s, false, ids); err != nil {
		return err
	}

	redirectBack(w, r)

	return nil
}

// markEntries changes the read state of ids at the backend and then in the
// store, adjusting the unread counters of the affected tags and sources.
func markEntries(r *http.Request, s *session.Session, unread bool, ids []int) error {
	if s.Store.State().Offline {
		s.Store.Dispatch(state.ShowError(tr(r, "error_offline_action")))

		return nil
	}

	cookies := s.BackendCookies()

	var err error

	switch {
	case len(ids) == 1 && unread:
		err = Backend.Unmark(r.Context(), cookies, ids[0])
	case len(ids) == 1:
		err = Backend.Mark(r.Context(), cookies, ids[0])
	case unread:
		// the backend has no bulk unmark
		for _, id := range ids {
			if err = Backend.Unmark(r.Context(), cookies, id); err != nil {
				break
			}
		}
	default:
		err = Backend.MarkAll(r.Context(), cookies, ids)
	}

	if err != nil {
		return handleBackendError(r, s, err)
	}

	snapshot := s.Store.State()
	diff := unreadDiff{tags: map[string]int{}, sources: map[int]int{}}
	actions := make([]state.Action, 0, len(ids)+2)

	delta := -1
	if unread {
		delta = 1
	}

	for _, id := range ids {
		entry, listed := snapshot.Entry(id)
		if listed && entry.Unread == unread {
			continue
		}

		actions = append(actions, state.EntryMark{ID: id, Unread: unread})

		if listed {
			diff.add(entry, delta)
		}
	}

	changed := len(actions)
	if changed == 0 {
		return nil
	}

	actions = append(actions,
		diff.action(),
		state.SetCounts{
			Unread:  max(0, snapshot.UnreadCount+delta*changed),
			Starred: snapshot.StarredCount,
			All:     snapshot.AllCount,
		},
	)

	s.Store.Dispatch(actions...)

	return nil
}

func starEntry(r *http.Request, s *session.Session, id int, starred bool) error {
	if s.Store.State().Offline {
		s.Store.Dispatch(state.ShowError(tr(r, "error_offline_action")))

		return nil
	}

	cookies := s.BackendCookies()

	var err error
	if starred {
		err = Backend.Star(r.Context(), cookies, id)
	} else {
		err = Backend.Unstar(r.Context(), cookies, id)
	}

	if err != nil {
		return handleBackendError(r, s, err)
	}

	snapshot := s.Store.State()
	if entry, listed := snapshot.Entry(id); listed && entry.Starred == starred {
		return nil
	}

	delta := -1
	if starred {
		delta = 1
	}

	s.Store.Dispatch(
		state.EntryStar{ID: id, Starred: starred},
		state.SetCounts{
			Unread:  snapshot.UnreadCount,
			Starred: max(0, snapshot.StarredCount+delta),
			All:     snapshot.AllCount,
		},
	)

	return nil
}

// unreadDiff accumulates unread counter changes per tag and source.
type unreadDiff struct {
	tags    map[string]int
	sources map[int]int
}

func (d unreadDiff) add(e state.Entry, delta int) {
	for _, tag := range e.Tags {
		d.tags[tag] += delta
	}

	if e.SourceID != 0 {
		d.sources[e.SourceID] += delta
	}
}

func (d unreadDiff) action() state.RefreshTagSourceUnread {
	return state.RefreshTagSourceUnread{TagCounts: d.tags, SourceCounts: d.sources}
}
