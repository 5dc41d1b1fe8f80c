// Copyright 2023 - 2025, the SelfossFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"net/http"
	"strconv"

	"golang.org/x/sync/errgroup"

	"codeberg.org/selfossfe/selfossfe/assets/views"
	"codeberg.org/selfossfe/selfossfe/config"
	"codeberg.org/selfossfe/selfossfe/core/backend"
	"codeberg.org/selfossfe/selfossfe/core/state"
	"codeberg.org/selfossfe/selfossfe/server/utils"
)

// navigationFromQuery reads the entry list position from the query string.
func navigationFromQuery(r *http.Request) state.Navigation {
	nav := state.Navigation{
		Filter: state.ParseFilter(utils.GetQueryParam(r, "type")),
		Tag:    utils.GetQueryParam(r, "tag"),
		Search: utils.GetQueryParam(r, "search"),
	}

	if nav.Tag == "" {
		if id, err := strconv.Atoi(utils.GetQueryParam(r, "source")); err == nil && id > 0 {
			nav.SourceID = id
		}
	}

	return nav
}

// IndexPage lists the entries of the current navigation.
//
// Items, tags, sources and counters are fetched concurrently. When the
// backend is unreachable the cached state of the session is rendered in
// offline mode.
func IndexPage(w http.ResponseWriter, r *http.Request) error {
	s, err := sessionFrom(r)
	if err != nil {
		return err
	}

	nav := navigationFromQuery(r)

	offset, err := strconv.Atoi(utils.GetQueryParam(r, "offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}

	s.Store.Dispatch(state.SetNavigation{Navigation: nav})

	cookies := s.BackendCookies()
	headers := cacheHeaders(r)

	var (
		page    backend.ItemsPage
		tags    []state.Tag
		sources []state.Source
		stats   backend.Stats
	)

	g, ctx := errgroup.WithContext(r.Context())

	g.Go(func() error {
		var err error
		page, err = Backend.Items(ctx, cookies, headers, backend.ItemsQuery{Navigation: nav, Offset: offset})

		return err
	})

	g.Go(func() error {
		var err error
		tags, err = Backend.Tags(ctx, cookies, headers)

		return err
	})

	g.Go(func() error {
		var err error
		sources, err = Backend.Sources(ctx, cookies, headers)

		return err
	})

	g.Go(func() error {
		var err error
		stats, err = Backend.Stats(ctx, cookies, headers)

		return err
	})

	if err := g.Wait(); err != nil {
		if err := handleBackendError(r, s, err); err != nil {
			return err
		}

		return renderPage(w, r, s, "", views.Entries(views.EntriesData{
			State:          s.Store.State(),
			ShowThumbnails: config.Global.Feature.ShowThumbnails,
		}))
	}

	s.Store.Dispatch(
		state.SetOffline{Offline: false},
		state.SetLoggedIn{LoggedIn: len(cookies) > 0},
		state.SetEntries{Entries: page.Entries},
		state.SetTags{Tags: tags},
		state.SetSources{Sources: sources},
		state.SetCounts{Unread: stats.Unread, Starred: stats.Starred, All: stats.Total},
	)

	return renderPage(w, r, s, "", views.Entries(views.EntriesData{
		State:          s.Store.State(),
		ShowThumbnails: config.Global.Feature.ShowThumbnails,
		HasMore:        page.HasMore,
		NextOffset:     offset + len(page.Entries),
	}))
}
