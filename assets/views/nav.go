// Copyright 2023 - 2025, the SelfossFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package views

import (
	"github.com/a-h/templ"

	"codeberg.org/selfossfe/selfossfe/core/state"
	"codeberg.org/selfossfe/selfossfe/i18n"
)

var filters = []struct {
	filter state.Filter
	count  state.CountKind
	label  i18n.MsgKey
}{
	{state.FilterNewest, state.CountNewest, "filter_newest"},
	{state.FilterUnread, state.CountUnread, "filter_unread"},
	{state.FilterStarred, state.CountStarred, "filter_starred"},
}

func entriesHref(n state.Navigation) string {
	return "/?" + n.Query()
}

// NavFilters renders the newest/unread/starred switch with its counters.
func NavFilters(s state.State) templ.Component {
	return component(func(h *htmlWriter) { navFilters(h, s, false) })
}

func navFilters(h *htmlWriter, s state.State, oob bool) {
	h.raw(`<nav id="nav-filter"`)
	h.boolAttr(`hx-swap-oob="true"`, oob)
	h.attr("aria-label", h.tr("nav_filter"))
	h.raw(`><ul>`)

	for _, f := range filters {
		nav := s.Navigation
		nav.Filter = f.filter

		h.raw(`<li><a`)
		h.attr("id", "nav-filter-"+string(f.filter))
		h.url("href", entriesHref(nav))

		if s.Navigation.Filter == f.filter {
			h.raw(` class="active" aria-current="page"`)
		}

		h.raw(`>`)
		h.trText(f.label)
		h.raw(` <span class="nav-filter-count">`)
		h.text(itoa(s.Count(f.count)))
		h.raw(`</span></a></li>`)
	}

	h.raw(`</ul></nav>`)
}

// NavTags renders the tag list with unread counters.
func NavTags(s state.State) templ.Component {
	return component(func(h *htmlWriter) { navTags(h, s, false) })
}

func navTags(h *htmlWriter, s state.State, oob bool) {
	h.raw(`<nav id="nav-tags"`)
	h.boolAttr(`hx-swap-oob="true"`, oob)
	h.attr("aria-label", h.tr("nav_tags"))
	h.raw(`><h2>`)
	h.trText("nav_tags")
	h.raw(`</h2><ul>`)

	all := state.Navigation{Filter: s.Navigation.Filter, Search: s.Navigation.Search}

	h.raw(`<li><a id="nav-tags-all"`)
	h.url("href", entriesHref(all))

	if s.Navigation.Tag == "" && s.Navigation.SourceID == 0 {
		h.raw(` class="active"`)
	}

	h.raw(`>`)
	h.trText("nav_tags_all")
	h.raw(`</a></li>`)

	for _, t := range s.Tags {
		nav := all
		nav.Tag = t.Tag

		h.raw(`<li><a`)
		h.url("href", entriesHref(nav))

		if s.Navigation.Tag == t.Tag {
			h.raw(` class="active"`)
		}

		h.raw(`><span class="tag-color"`)
		h.attr("style", "background-color: "+safeColor(t.Color))
		h.raw(`></span> `)
		h.text(t.Tag)

		if t.Unread > 0 {
			h.raw(` <span class="unread">`)
			h.text(itoa(t.Unread))
			h.raw(`</span>`)
		}

		h.raw(`</a></li>`)
	}

	h.raw(`</ul></nav>`)
}

// NavSources renders the collapsible source list.
func NavSources(s state.State) templ.Component {
	return component(func(h *htmlWriter) { navSources(h, s, false) })
}

func navSources(h *htmlWriter, s state.State, oob bool) {
	h.raw(`<details id="nav-sources"`)
	h.boolAttr(`hx-swap-oob="true"`, oob)
	h.boolAttr("open", s.SourcesNavExpanded)
	h.raw(`><summary>`)
	h.trText("nav_sources")
	h.raw(`</summary><ul>`)

	for _, src := range s.Sources {
		nav := state.Navigation{Filter: s.Navigation.Filter, SourceID: src.ID, Search: s.Navigation.Search}

		h.raw(`<li><a`)
		h.url("href", entriesHref(nav))

		if s.Navigation.SourceID == src.ID {
			h.raw(` class="active"`)
		}

		h.raw(`>`)
		h.text(src.Title)

		if src.Unread > 0 {
			h.raw(` <span class="unread">`)
			h.text(itoa(src.Unread))
			h.raw(`</span>`)
		}

		h.raw(`</a></li>`)
	}

	h.raw(`</ul></details>`)
}

// MessageBar renders the global message, if any.
func MessageBar(msg *state.GlobalMessage, returnPath string) templ.Component {
	return component(func(h *htmlWriter) {
		messageBar(h, msg, returnPath, false)
	})
}

func messageBar(h *htmlWriter, msg *state.GlobalMessage, returnPath string, oob bool) {
	h.raw(`<div id="message" class="message-container"`)
	h.boolAttr(`hx-swap-oob="true"`, oob)
	h.raw(`>`)

	if msg != nil {
		class := "message"
		if msg.IsError {
			class += " error"
		}

		h.raw(`<div`)
		h.attr("class", class)
		h.raw(` role="alert"><span class="message-text">`)
		h.text(msg.Message)
		h.raw(`</span>`)

		for _, a := range msg.Actions {
			h.raw(` <a class="message-action"`)
			h.url("href", a.Href)
			h.raw(`>`)
			h.text(a.Label)
			h.raw(`</a>`)
		}

		h.raw(`<form method="post" action="/message/dismiss" class="inline-form">`)
		h.hiddenReturn(returnPath)
		h.raw(`<button type="submit" class="message-dismiss"`)
		h.attr("aria-label", h.tr("message_dismiss"))
		h.raw(`>×</button></form></div>`)
	}

	h.raw(`</div>`)
}

// safeColor passes through "#rgb" and "#rrggbb" colours and replaces anything else.
func safeColor(c string) string {
	if (len(c) != 4 && len(c) != 7) || c[0] != '#' {
		return "transparent"
	}

	for _, r := range c[1:] {
		isHex := (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
		if !isHex {
			return "transparent"
		}
	}

	return c
}
