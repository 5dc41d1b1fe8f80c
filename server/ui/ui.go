// Copyright 2023 - 2025, the SelfossFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Package ui wires the observers every session store starts with.
package ui

import (
	"context"
	"strconv"

	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"

	"codeberg.org/selfossfe/selfossfe/core/session"
	"codeberg.org/selfossfe/selfossfe/core/state"
	"codeberg.org/selfossfe/selfossfe/i18n"
)

// Init subscribes the navigation observers to store. Messages are
// translated into the language of the state they react to, so they follow
// the browser's latest language choice.
//
// The returned function removes the observers again.
func Init(store *state.Store) (unsubscribe func()) {
	unsubscribeTags := store.Subscribe(func(ev state.Event) {
		tag := ev.State.Navigation.Tag
		if tag != "" && !ev.State.HasTag(tag) {
			ev.Dispatch(state.ShowError(i18n.Tr(languageOf(ev.State), "error_unknown_tag") + " " + tag))
		}
	}, state.TagsChanged)

	unsubscribeSources := store.Subscribe(func(ev state.Event) {
		id := ev.State.Navigation.SourceID
		if id != 0 && !ev.State.HasSource(id) {
			ev.Dispatch(state.ShowError(i18n.Tr(languageOf(ev.State), "error_unknown_source") + " " + strconv.Itoa(id)))
		}

		ev.Dispatch(state.SetSourcesNavExpanded{Expanded: true})
	}, state.SourcesChanged)

	unsubscribeLogin := store.Subscribe(func(ev state.Event) {
		log.Debug().Str("sys", "ui").Bool("logged_in", ev.State.LoggedIn).Msg("Login state changed")
	}, state.LoggedInChanged)

	return func() {
		unsubscribeTags()
		unsubscribeSources()
		unsubscribeLogin()
	}
}

func languageOf(s state.State) context.Context {
	return i18n.WithTag(context.Background(), language.Make(s.Language))
}

// InitSession is [Init] for a new session, in the shape [session.Setup] expects.
func InitSession(_ context.Context, s *session.Session) {
	Init(s.Store)
}
